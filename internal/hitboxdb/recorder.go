package hitboxdb

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
)

// Recorder bridges engine run notifications into the run history store.
// Persistence failures are logged and swallowed so a broken history
// database never interrupts a decomposition job.
type Recorder struct {
	store *RunStore
	log   *zap.Logger
}

// NewRecorder wraps a RunStore as an engine run recorder.
func NewRecorder(store *RunStore, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{store: store, log: log}
}

func (r *Recorder) RunStarted(id, meshName string, tier hitbox.Tier, vertices int) {
	params := ""
	if p, ok := hitbox.Lookup(tier); ok {
		b, err := json.Marshal(p)
		if err == nil {
			params = string(b)
		}
	}
	err := r.store.InsertRun(&Run{
		RunID:       id,
		MeshName:    meshName,
		Tier:        string(tier),
		ParamsJSON:  params,
		VertexCount: vertices,
	})
	if err != nil {
		r.log.Warn("record run start failed", zap.String("run_id", id), zap.Error(err))
	}
}

func (r *Recorder) RunCompleted(id string, boxes int, d time.Duration) {
	if err := r.store.CompleteRun(id, boxes, d); err != nil {
		r.log.Warn("record run completion failed", zap.String("run_id", id), zap.Error(err))
	}
}

func (r *Recorder) RunCancelled(id string) {
	if err := r.store.CancelRun(id); err != nil {
		r.log.Warn("record run cancellation failed", zap.String("run_id", id), zap.Error(err))
	}
}

func (r *Recorder) RunFailed(id, reason string) {
	if err := r.store.FailRun(id, reason); err != nil {
		r.log.Warn("record run failure failed", zap.String("run_id", id), zap.Error(err))
	}
}
