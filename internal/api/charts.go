package api

import (
	"bytes"
	"fmt"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/httputil"
)

// handleBoxChart renders an HTML scatter plot of hitbox centers in the
// XY plane, colored by box volume. Debugging-only endpoint for eyeballing
// a decomposition without a real viewer.
func (s *Server) handleBoxChart(w http.ResponseWriter, r *http.Request) {
	set := s.engine.Hitboxes()
	if len(set) == 0 {
		httputil.NotFound(w, "no hitboxes available")
		return
	}

	data := make([]opts.ScatterData, 0, len(set))
	maxAbs := 0.0
	maxVol := 0.0
	for _, b := range set {
		c := b.Center()
		if math.Abs(c.X) > maxAbs {
			maxAbs = math.Abs(c.X)
		}
		if math.Abs(c.Y) > maxAbs {
			maxAbs = math.Abs(c.Y)
		}
		v := b.Volume()
		if v > maxVol {
			maxVol = v
		}
		data = append(data, opts.ScatterData{Value: []interface{}{c.X, c.Y, v}})
	}

	// Pad so edge points stay visible, and keep the plot square.
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}
	if maxVol == 0 {
		maxVol = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Hitbox Centers", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Hitbox Centers (XY)", Subtitle: fmt.Sprintf("boxes=%d", len(set))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxVol),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("centers", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleSizeChart renders an HTML bar chart of per-hitbox volumes.
func (s *Server) handleSizeChart(w http.ResponseWriter, r *http.Request) {
	set := s.engine.Hitboxes()
	if len(set) == 0 {
		httputil.NotFound(w, "no hitboxes available")
		return
	}

	x := make([]string, 0, len(set))
	y := make([]opts.BarData, 0, len(set))
	for i, b := range set {
		x = append(x, fmt.Sprintf("%d", i))
		y = append(y, opts.BarData{Value: b.Volume()})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: "Hitbox Volumes", Subtitle: fmt.Sprintf("boxes=%d", len(set))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("volume", y)

	page := components.NewPage()
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
