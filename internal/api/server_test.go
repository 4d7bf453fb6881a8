package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/geom"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitboxdb"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/mesh"
)

func testMesh() *mesh.Mesh {
	m := &mesh.Mesh{Name: "cube.obj"}
	for _, x := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, z := range []float64{0, 1} {
				m.Vertices = append(m.Vertices, geom.Point{X: x, Y: y, Z: z})
			}
		}
	}
	return m
}

func newTestServer(t *testing.T, opts hitbox.Options) (*Server, *http.ServeMux) {
	t.Helper()
	engine := hitbox.NewEngine(opts)
	srv := NewServer(engine, nil, hitbox.TierHigh, zap.NewNop())
	srv.SetModel(testMesh())
	return srv, srv.ServeMux()
}

// waitForTerminal polls /api/job until the state leaves "running".
func waitForTerminal(t *testing.T, mux *http.ServeMux) jobStatus {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/job", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET /api/job status = %d", rec.Code)
		}
		var status jobStatus
		if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
			t.Fatalf("decode job status: %v", err)
		}
		if status.State != "running" {
			return status
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal state")
	return jobStatus{}
}

func TestDecomposeLifecycle(t *testing.T) {
	_, mux := newTestServer(t, hitbox.Options{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/decompose", strings.NewReader(`{"tier":"minimal"}`))
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("POST /api/decompose status = %d, body %s", rec.Code, rec.Body.String())
	}
	var accepted map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if accepted["run_id"] == "" {
		t.Error("missing run_id in response")
	}
	if accepted["tier"] != "minimal" {
		t.Errorf("tier = %q, want minimal", accepted["tier"])
	}

	status := waitForTerminal(t, mux)
	if status.State != "completed" {
		t.Fatalf("state = %q, want completed (error %q)", status.State, status.Error)
	}
	if status.Percent != 100 {
		t.Errorf("percent = %d, want 100", status.Percent)
	}
	if status.RunID != accepted["run_id"] {
		t.Errorf("run_id mismatch: %q vs %q", status.RunID, accepted["run_id"])
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hitboxes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/hitboxes status = %d", rec.Code)
	}
	var artifact struct {
		Hitboxes [][2][3]float64 `json:"hitboxes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&artifact); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if len(artifact.Hitboxes) != 1 {
		t.Fatalf("len(hitboxes) = %d, want 1 for minimal tier", len(artifact.Hitboxes))
	}
	if artifact.Hitboxes[0] != [2][3]float64{{0, 0, 0}, {1, 1, 1}} {
		t.Errorf("unexpected box: %v", artifact.Hitboxes[0])
	}
}

func TestDecomposeDefaultTier(t *testing.T) {
	_, mux := newTestServer(t, hitbox.Options{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/decompose", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var accepted map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if accepted["tier"] != "high" {
		t.Errorf("tier = %q, want server default high", accepted["tier"])
	}
	waitForTerminal(t, mux)
}

func TestDecomposeRejections(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		noModel  bool
		wantCode int
	}{
		{name: "unknown tier", body: `{"tier":"extreme"}`, wantCode: http.StatusBadRequest},
		{name: "malformed json", body: `{tier}`, wantCode: http.StatusBadRequest},
		{name: "no model", body: `{"tier":"low"}`, noModel: true, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, mux := newTestServer(t, hitbox.Options{})
			if tt.noModel {
				srv.SetModel(nil)
			}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/decompose", strings.NewReader(tt.body))
			mux.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestDecomposeConflictAndCancel(t *testing.T) {
	// Pacing keeps the job alive long enough to observe the conflict.
	_, mux := newTestServer(t, hitbox.Options{PaceDelay: 50 * time.Millisecond})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/decompose", strings.NewReader(`{"tier":"low"}`)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("first decompose status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/decompose", strings.NewReader(`{"tier":"low"}`)))
	if rec.Code != http.StatusConflict {
		t.Errorf("second decompose status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/job/cancel", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d", rec.Code)
	}

	status := waitForTerminal(t, mux)
	if status.State != "cancelled" {
		t.Errorf("state = %q, want cancelled", status.State)
	}
}

func TestJobAndCancelWithoutJob(t *testing.T) {
	_, mux := newTestServer(t, hitbox.Options{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/job", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /api/job status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/job/cancel", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("POST /api/job/cancel status = %d, want 404", rec.Code)
	}
}

func TestHitboxesBeforeFirstJob(t *testing.T) {
	_, mux := newTestServer(t, hitbox.Options{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hitboxes", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestModelInfo(t *testing.T) {
	_, mux := newTestServer(t, hitbox.Options{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/model", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var info modelInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Name != "cube.obj" {
		t.Errorf("name = %q", info.Name)
	}
	if info.Vertices != 8 {
		t.Errorf("vertices = %d, want 8", info.Vertices)
	}
	if info.Min != [3]float64{0, 0, 0} || info.Max != [3]float64{1, 1, 1} {
		t.Errorf("bounds = %v..%v", info.Min, info.Max)
	}
}

func TestModelInfoNoModel(t *testing.T) {
	srv, mux := newTestServer(t, hitbox.Options{})
	srv.SetModel(nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/model", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRunsEndpoint(t *testing.T) {
	db, err := hitboxdb.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.MigrateUp(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := hitboxdb.NewRunStore(db)

	engine := hitbox.NewEngine(hitbox.Options{
		Recorder: hitboxdb.NewRecorder(store, nil),
	})
	srv := NewServer(engine, store, hitbox.TierHigh, zap.NewNop())
	srv.SetModel(testMesh())
	mux := srv.ServeMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/decompose", strings.NewReader(`{"tier":"minimal"}`)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("decompose status = %d", rec.Code)
	}
	waitForTerminal(t, mux)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("runs status = %d", rec.Code)
	}
	var resp struct {
		Runs []*hitboxdb.Run `json:"runs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(resp.Runs))
	}
	if resp.Runs[0].Status != hitboxdb.StatusCompleted {
		t.Errorf("run status = %q, want completed", resp.Runs[0].Status)
	}
	if resp.Runs[0].MeshName != "cube.obj" {
		t.Errorf("mesh_name = %q", resp.Runs[0].MeshName)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?limit=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

func TestRunsWithoutStore(t *testing.T) {
	_, mux := newTestServer(t, hitbox.Options{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, mux := newTestServer(t, hitbox.Options{})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/decompose"},
		{http.MethodPost, "/api/job"},
		{http.MethodGet, "/api/job/cancel"},
		{http.MethodPost, "/api/hitboxes"},
		{http.MethodPost, "/api/model"},
		{http.MethodPost, "/api/runs"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s status = %d, want 405", tt.method, tt.path, rec.Code)
		}
	}
}
