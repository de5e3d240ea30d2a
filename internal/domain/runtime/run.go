// Package runtime holds the process-local, ephemeral state of simulation
// runs. None of it is persisted: when the process exits, every run is
// gone, per spec §3 ("Run (ephemeral)").
package runtime

import (
	"sync"
	"sync/atomic"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
)

// TickPayload is what a poller receives for one tick.
type TickPayload struct {
	SimRunID       string              `json:"sim_run_id"`
	TickIndex      int                 `json:"tick_index"`
	TotalTicks     int                 `json:"total_ticks"`
	Sectors        map[string]int      `json:"sectors"`
	AssetsChanged  []AssetChange       `json:"assets_changed"`
	Recommendations []string           `json:"recommendations"`
}

// AssetChange names one asset whose discrete status transitioned on a tick.
type AssetChange struct {
	ID     string                   `json:"id"`
	Status model.OperationalStatus  `json:"status"`
	Label  string                   `json:"label"`
}

// RunHandle is the per-run state the runner publishes into and pollers read
// from. Its tick cache is append-only from a single writer (the
// precomputation goroutine started by Start) and read-only from many
// readers; each slot is published under runMu so readers either observe a
// fully-formed payload or nothing.
type RunHandle struct {
	SimRunID           string
	ScenarioInstanceID string
	City               string
	TickMinutes        int
	TotalTicks         int

	computedMaxTick int64 // atomic; -1 until the first tick is published
	done            int32 // atomic bool

	runMu sync.RWMutex
	ticks []*TickPayload // index == tick_index once published

	// events indexed by tick, in stable stored order (insertion order).
	EventsByTick map[int][]model.Event

	// perf/status are the runner's working state, guarded by runMu since
	// the same goroutine writes them sequentially but reads may race with
	// registry lookups that print diagnostics.
	perf   map[string]int
	status map[string]model.OperationalStatus
}

// NewRunHandle allocates a run with an empty cache sized to totalTicks and
// every asset initialized at 100% performance (active).
func NewRunHandle(simRunID, instanceID, city string, tickMinutes, totalTicks int, assetIDs []string) *RunHandle {
	h := &RunHandle{
		SimRunID:           simRunID,
		ScenarioInstanceID: instanceID,
		City:               city,
		TickMinutes:        tickMinutes,
		TotalTicks:         totalTicks,
		computedMaxTick:    -1,
		ticks:              make([]*TickPayload, totalTicks),
		EventsByTick:       make(map[int][]model.Event),
		perf:               make(map[string]int, len(assetIDs)),
		status:             make(map[string]model.OperationalStatus, len(assetIDs)),
	}
	for _, id := range assetIDs {
		h.perf[id] = 100
		h.status[id] = model.StatusActive
	}
	return h
}

// Perf returns the asset's current performance percentage (100 if unseen).
func (h *RunHandle) Perf(assetID string) int {
	h.runMu.RLock()
	defer h.runMu.RUnlock()
	if v, ok := h.perf[assetID]; ok {
		return v
	}
	return 100
}

// SetPerf records an asset's new performance percentage.
func (h *RunHandle) SetPerf(assetID string, pct int) {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	h.perf[assetID] = pct
}

// Status returns the asset's last-recorded discrete status.
func (h *RunHandle) Status(assetID string) model.OperationalStatus {
	h.runMu.RLock()
	defer h.runMu.RUnlock()
	if v, ok := h.status[assetID]; ok {
		return v
	}
	return model.StatusActive
}

// SetStatus records an asset's new discrete status.
func (h *RunHandle) SetStatus(assetID string, s model.OperationalStatus) {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	h.status[assetID] = s
}

// PerfSnapshot returns a copy of every asset's current performance, used by
// the health-by-sector computation.
func (h *RunHandle) PerfSnapshot() map[string]int {
	h.runMu.RLock()
	defer h.runMu.RUnlock()
	out := make(map[string]int, len(h.perf))
	for k, v := range h.perf {
		out[k] = v
	}
	return out
}

// PublishTick stores t's payload and advances computed_max_tick. Called
// only by the single precomputation goroutine for this run.
func (h *RunHandle) PublishTick(tickIndex int, payload *TickPayload) {
	h.runMu.Lock()
	h.ticks[tickIndex] = payload
	h.runMu.Unlock()
	atomic.StoreInt64(&h.computedMaxTick, int64(tickIndex))
}

// Tick returns the payload at tickIndex, or (nil, false) if it has not been
// computed yet.
func (h *RunHandle) Tick(tickIndex int) (*TickPayload, bool) {
	h.runMu.RLock()
	defer h.runMu.RUnlock()
	if tickIndex < 0 || tickIndex >= len(h.ticks) {
		return nil, false
	}
	p := h.ticks[tickIndex]
	return p, p != nil
}

// ComputedMaxTick is the highest tick index published so far, or -1.
func (h *RunHandle) ComputedMaxTick() int {
	return int(atomic.LoadInt64(&h.computedMaxTick))
}

// Done reports whether the background precomputation loop has finished
// (successfully or via a logged, non-propagated failure).
func (h *RunHandle) Done() bool {
	return atomic.LoadInt32(&h.done) == 1
}

// MarkDone sets done=true. Idempotent; once true it never reverts.
func (h *RunHandle) MarkDone() {
	atomic.StoreInt32(&h.done, 1)
}

// Registry is a keyed container mapping run id to RunHandle, safe for
// concurrent read/insert from many request-handling goroutines alongside
// the background writer that populates each handle's tick cache.
type Registry struct {
	runs sync.Map // sim_run_id -> *RunHandle
}

// NewRegistry constructs an empty run registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Put registers a freshly created run handle.
func (r *Registry) Put(h *RunHandle) {
	r.runs.Store(h.SimRunID, h)
}

// Get looks up a run handle by id.
func (r *Registry) Get(simRunID string) (*RunHandle, bool) {
	v, ok := r.runs.Load(simRunID)
	if !ok {
		return nil, false
	}
	return v.(*RunHandle), true
}
