// Package report computes summary statistics over a hitbox set and
// renders a histogram of box volumes for quick quality checks.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
)

// ErrEmptySet is returned when asked to report on zero hitboxes.
var ErrEmptySet = errors.New("hitbox set is empty")

// Summary aggregates volume statistics over a hitbox set.
type Summary struct {
	Count       int     `json:"count"`
	TotalVolume float64 `json:"total_volume"`
	MeanVolume  float64 `json:"mean_volume"`
	StdDev      float64 `json:"stddev_volume"`
	MinVolume   float64 `json:"min_volume"`
	MaxVolume   float64 `json:"max_volume"`
	Median      float64 `json:"median_volume"`
	P90         float64 `json:"p90_volume"`
}

func volumes(set hitbox.Set) []float64 {
	vols := make([]float64, len(set))
	for i, b := range set {
		vols[i] = b.Volume()
	}
	return vols
}

// Summarize computes volume statistics for the set.
func Summarize(set hitbox.Set) (Summary, error) {
	if len(set) == 0 {
		return Summary{}, ErrEmptySet
	}

	vols := volumes(set)
	sort.Float64s(vols)

	total := 0.0
	for _, v := range vols {
		total += v
	}

	s := Summary{
		Count:       len(vols),
		TotalVolume: total,
		MeanVolume:  stat.Mean(vols, nil),
		MinVolume:   vols[0],
		MaxVolume:   vols[len(vols)-1],
		Median:      stat.Quantile(0.5, stat.Empirical, vols, nil),
		P90:         stat.Quantile(0.9, stat.Empirical, vols, nil),
	}
	if len(vols) > 1 {
		s.StdDev = stat.StdDev(vols, nil)
	}
	return s, nil
}

// WriteText renders the summary as aligned human-readable lines.
func WriteText(w io.Writer, s Summary) error {
	rows := []struct {
		label string
		value interface{}
	}{
		{"hitboxes", s.Count},
		{"total volume", s.TotalVolume},
		{"mean volume", s.MeanVolume},
		{"stddev volume", s.StdDev},
		{"min volume", s.MinVolume},
		{"median volume", s.Median},
		{"p90 volume", s.P90},
		{"max volume", s.MaxVolume},
	}
	for _, row := range rows {
		var err error
		switch v := row.value.(type) {
		case int:
			_, err = fmt.Fprintf(w, "%-15s %d\n", row.label, v)
		case float64:
			_, err = fmt.Fprintf(w, "%-15s %.6g\n", row.label, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveHistogram writes a PNG histogram of box volumes to path.
func SaveHistogram(set hitbox.Set, path string) error {
	if len(set) == 0 {
		return ErrEmptySet
	}

	p := plot.New()
	p.Title.Text = "Hitbox Volume Distribution"
	p.X.Label.Text = "volume"
	p.Y.Label.Text = "count"

	bins := 16
	if len(set) < bins {
		bins = len(set)
	}
	h, err := plotter.NewHist(plotter.Values(volumes(set)), bins)
	if err != nil {
		return fmt.Errorf("build histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save histogram: %w", err)
	}
	return nil
}
