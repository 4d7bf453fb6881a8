package hitbox

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/geom"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/mesh"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/metrics"
)

// State is the lifecycle position of a decomposition job.
type State int

const (
	StateRunning State = iota
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a job: Completed carries the hitbox
// set, Failed carries a human-readable reason, Cancelled carries neither.
type Outcome struct {
	State  State
	Set    Set
	Reason string
}

// RunRecorder receives run lifecycle notifications, typically backed by
// the run history store. Calls happen on the job goroutine and must not
// block for long.
type RunRecorder interface {
	RunStarted(id, meshName string, tier Tier, vertices int)
	RunCompleted(id string, boxes int, d time.Duration)
	RunCancelled(id string)
	RunFailed(id, reason string)
}

// Options configures an Engine. The zero value is usable: default seed,
// no pacing, no recorder, no-op logging.
type Options struct {
	// Seed fixes the k-means seeding so repeated runs on the same mesh
	// and tier produce identical sets. Nil means DefaultSeed; zero is a
	// valid seed.
	Seed *int64
	// PaceDelay inserts a delay after each refinement round so UIs
	// polling progress can show intermediate milestones. Default is no
	// pacing.
	PaceDelay time.Duration
	Log       *zap.Logger
	Recorder  RunRecorder
}

// Engine owns the single-job decomposition lifecycle and the published
// hitbox set. At most one job runs at a time; the previously published
// set stays valid until a later job completes.
type Engine struct {
	seed     int64
	pace     time.Duration
	log      *zap.Logger
	recorder RunRecorder

	mu        sync.Mutex
	running   *Job
	published Set

	// testHookAfterFit, when set, runs on the job goroutine right after
	// the clustering fit milestone. Tests use it to hold a job open at a
	// known point.
	testHookAfterFit func()
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts Options) *Engine {
	seed := int64(DefaultSeed)
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		seed:     seed,
		pace:     opts.PaceDelay,
		log:      log,
		recorder: opts.Recorder,
	}
}

// Job is the handle for one decomposition run. Progress and Cancel are
// safe to call from any goroutine while the job runs.
type Job struct {
	ID   string
	Tier Tier
	Mesh *mesh.Mesh

	progress atomic.Int32
	cancel   atomic.Bool

	done    chan struct{}
	mu      sync.Mutex
	outcome Outcome
}

// Progress returns the current completion percentage in [0,100],
// monotonically non-decreasing within the run.
func (j *Job) Progress() int {
	return int(j.progress.Load())
}

// Cancel requests cooperative cancellation. The flag is observed at the
// refinement-round checkpoints and between partitioning and extraction,
// so cancellation takes effect within one round's wall-clock cost.
func (j *Job) Cancel() {
	j.cancel.Store(true)
}

// Done is closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Outcome returns the terminal outcome. ok is false while the job is
// still running.
func (j *Job) Outcome() (Outcome, bool) {
	select {
	case <-j.done:
	default:
		return Outcome{State: StateRunning}, false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.outcome, true
}

func (j *Job) cancelled() bool {
	return j.cancel.Load()
}

// setProgress raises the progress value. Values below the current one
// are ignored to keep progress monotonic.
func (j *Job) setProgress(pct int) {
	for {
		cur := j.progress.Load()
		if int32(pct) <= cur || j.progress.CompareAndSwap(cur, int32(pct)) {
			return
		}
	}
}

// Decompose starts a background decomposition job for the mesh at the
// given tier. It returns ErrJobRunning while another job is active and
// ErrUnknownTier for tiers outside the closed set; all other failures
// are reported through the job outcome.
func (e *Engine) Decompose(m *mesh.Mesh, tier Tier) (*Job, error) {
	if _, ok := Lookup(tier); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running != nil {
		return nil, ErrJobRunning
	}

	j := &Job{
		ID:   uuid.New().String(),
		Tier: tier,
		Mesh: m,
		done: make(chan struct{}),
	}
	e.running = j
	metrics.JobsStarted.Inc()
	if e.recorder != nil {
		e.recorder.RunStarted(j.ID, m.Name, tier, len(m.Vertices))
	}
	e.log.Info("decomposition started",
		zap.String("run_id", j.ID),
		zap.String("tier", string(tier)),
		zap.Int("vertices", len(m.Vertices)))

	go e.run(j)
	return j, nil
}

// Hitboxes returns the most recently published set, or nil if no job has
// completed yet. The returned set is never mutated after publication.
func (e *Engine) Hitboxes() Set {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.published
}

// CurrentJob returns the active job, or nil when the engine is idle.
func (e *Engine) CurrentJob() *Job {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Progress returns the active job's percentage, or 0 when idle so a
// progress bar reads empty between jobs.
func (e *Engine) Progress() int {
	e.mu.Lock()
	j := e.running
	e.mu.Unlock()
	if j == nil {
		return 0
	}
	return j.Progress()
}

// run executes one job on its own goroutine.
func (e *Engine) run(j *Job) {
	start := time.Now()

	set, err := e.decompose(j)
	d := time.Since(start)

	var outcome Outcome
	switch {
	case errors.Is(err, ErrCancelled):
		outcome = Outcome{State: StateCancelled}
		metrics.JobsCancelled.Inc()
		if e.recorder != nil {
			e.recorder.RunCancelled(j.ID)
		}
		e.log.Info("decomposition cancelled", zap.String("run_id", j.ID))
	case err != nil:
		outcome = Outcome{State: StateFailed, Reason: err.Error()}
		metrics.JobsFailed.Inc()
		if e.recorder != nil {
			e.recorder.RunFailed(j.ID, err.Error())
		}
		e.log.Warn("decomposition failed",
			zap.String("run_id", j.ID), zap.Error(err))
	default:
		// Publish atomically; the prior set was valid until this point.
		e.mu.Lock()
		e.published = set
		e.mu.Unlock()

		outcome = Outcome{State: StateCompleted, Set: set}
		metrics.JobsCompleted.Inc()
		metrics.LastSetSize.Set(float64(len(set)))
		if e.recorder != nil {
			e.recorder.RunCompleted(j.ID, len(set), d)
		}
		e.log.Info(fmt.Sprintf("Generated %d hitboxes (%s precision)", len(set), j.Tier),
			zap.String("run_id", j.ID),
			zap.Duration("took", d))
		j.setProgress(100) // consumers notified
	}
	metrics.JobDuration.Observe(d.Seconds())

	j.mu.Lock()
	j.outcome = outcome
	j.mu.Unlock()

	e.mu.Lock()
	e.running = nil
	e.mu.Unlock()

	close(j.done)
}

// decompose produces the hitbox set for one job, or ErrCancelled, or a
// failure reason.
func (e *Engine) decompose(j *Job) (Set, error) {
	if err := j.Mesh.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh: %w", err)
	}
	j.setProgress(10) // mesh accepted

	if j.Tier == TierMinimal {
		set := Set{j.Mesh.Bounds()}
		j.setProgress(90)
		return set, nil
	}

	params, _ := Lookup(j.Tier)
	part := &Partitioner{
		K:          params.Clusters,
		Iterations: params.Iterations,
		Seed:       e.seed,
		Cancelled:  j.cancelled,
		AfterFit: func() {
			j.setProgress(50)
			if e.testHookAfterFit != nil {
				e.testHookAfterFit()
			}
		},
		AfterRound: func(round int) {
			j.setProgress(60 + 10*round)
			if e.pace > 0 {
				time.Sleep(e.pace)
			}
		},
	}

	result, err := part.Partition(j.Mesh.Vertices)
	if err != nil {
		return nil, err
	}
	if j.cancelled() {
		return nil, ErrCancelled
	}

	// One box per non-empty cluster, in cluster index order.
	members := make([][]geom.Point, result.K)
	for i, c := range result.Assignment {
		members[c] = append(members[c], j.Mesh.Vertices[i])
	}
	set := make(Set, 0, result.K)
	for _, pts := range members {
		if len(pts) == 0 {
			continue
		}
		set = append(set, BoundingBox(pts))
	}
	j.setProgress(90)
	return set, nil
}
