package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/runtime"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/logging"
)

// tickPaceDelay is the small per-tick pause described in spec §4.3.1 step 6:
// order of tens of milliseconds, not a correctness property.
const tickPaceDelay = 25 * time.Millisecond

// RunState is what state() hands back to a poller.
type RunState struct {
	SimRunID           string `json:"sim_run_id"`
	ScenarioInstanceID string `json:"scenario_instance_id"`
	City               string `json:"city"`
	TotalTicks         int    `json:"total_ticks"`
	ComputedMaxTick    int    `json:"computed_max_tick"`
	Done               bool   `json:"done"`
}

// TickEventPublisher receives one notification per published tick, used to
// drive the internal ops event bus. Nil-safe: Runner calls it only when set.
type TickEventPublisher interface {
	PublishRunStarted(simRunID, instanceID string)
	PublishRunTick(simRunID string, tickIndex int)
	PublishRunDone(simRunID string, failed bool)
}

// Runner implements the simulation runner: it materializes an ephemeral,
// in-memory Run from an instance's stored events and advances it tick by
// tick on a background goroutine.
type Runner struct {
	store    Store
	registry *runtime.Registry
	bus      TickEventPublisher
}

// NewRunner constructs a runner backed by store, keeping run state in
// registry. bus may be nil.
func NewRunner(store Store, registry *runtime.Registry, bus TickEventPublisher) *Runner {
	return &Runner{store: store, registry: registry, bus: bus}
}

// Start implements spec §4.3's start(scenario_instance_id): it loads the
// instance and its city inventory, indexes stored events by tick, mints a
// sim_run_id, and spawns the background precomputation goroutine.
func (r *Runner) Start(instanceID string) (*RunState, error) {
	inst, err := r.store.Instance(instanceID)
	if err != nil {
		return nil, enginerr.Internal(err)
	}
	if inst == nil {
		return nil, enginerr.NotFound(fmt.Sprintf("instance %q not found", instanceID))
	}

	assets, err := r.store.AssetsByCity(inst.City)
	if err != nil {
		return nil, enginerr.Internal(err)
	}
	assetIDs := make([]string, 0, len(assets))
	assetByID := make(map[string]model.Asset, len(assets))
	for _, a := range assets {
		assetIDs = append(assetIDs, a.ID)
		assetByID[a.ID] = a
	}

	events, err := r.store.EventsByInstance(instanceID)
	if err != nil {
		return nil, enginerr.Internal(err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].TickIndex != events[j].TickIndex {
			return events[i].TickIndex < events[j].TickIndex
		}
		return events[i].Seq < events[j].Seq
	})

	totalTicks := inst.TotalTicks()
	simRunID := uuid.NewString()
	handle := runtime.NewRunHandle(simRunID, instanceID, inst.City, inst.TickMinutes, totalTicks, assetIDs)
	for _, ev := range events {
		if ev.TickIndex < 0 || ev.TickIndex >= totalTicks {
			continue
		}
		handle.EventsByTick[ev.TickIndex] = append(handle.EventsByTick[ev.TickIndex], ev)
	}
	r.registry.Put(handle)

	if r.bus != nil {
		r.bus.PublishRunStarted(simRunID, instanceID)
	}

	go r.precompute(handle, assetByID)

	return &RunState{
		SimRunID:           simRunID,
		ScenarioInstanceID: instanceID,
		City:               inst.City,
		TotalTicks:         totalTicks,
		ComputedMaxTick:    -1,
		Done:               false,
	}, nil
}

// precompute runs spec §4.3.1's per-tick loop to completion, publishing each
// payload as soon as it is ready. It is the sole writer to handle's tick
// cache.
func (r *Runner) precompute(handle *runtime.RunHandle, assetByID map[string]model.Asset) {
	failed := false
	defer func() {
		if rec := recover(); rec != nil {
			logging.Error("tick precomputation for run %s panicked: %v", handle.SimRunID, rec)
			failed = true
		}
		if r.bus != nil {
			r.bus.PublishRunDone(handle.SimRunID, failed)
		}
		handle.MarkDone()
	}()

	sectorsByCity := sectorIndex(assetByID)

	for t := 0; t < handle.TotalTicks; t++ {
		// Apply every event at t first (later ones overwrite earlier ones),
		// then compare each touched asset with its status after tick t-1.
		var touched []string
		seen := make(map[string]bool)
		for _, ev := range handle.EventsByTick[t] {
			handle.SetPerf(ev.AssetID, ev.PerformancePct)
			if !seen[ev.AssetID] {
				seen[ev.AssetID] = true
				touched = append(touched, ev.AssetID)
			}
		}

		var changed []runtime.AssetChange
		for _, id := range touched {
			prevStatus := handle.Status(id)
			newStatus := model.StatusFromPerformance(handle.Perf(id))
			handle.SetStatus(id, newStatus)
			if newStatus != prevStatus {
				changed = append(changed, runtime.AssetChange{
					ID:     id,
					Status: newStatus,
					Label:  model.StatusLabel(newStatus),
				})
			}
		}

		sectors := computeSectorHealth(sectorsByCity, handle)

		var recommendations []string
		if len(changed) > 0 {
			recommendations = []string{fmt.Sprintf("%d asset(s) changed status at tick %d", len(changed), t)}
		}

		handle.PublishTick(t, &runtime.TickPayload{
			SimRunID:        handle.SimRunID,
			TickIndex:       t,
			TotalTicks:      handle.TotalTicks,
			Sectors:         sectors,
			AssetsChanged:   changed,
			Recommendations: recommendations,
		})
		if r.bus != nil {
			r.bus.PublishRunTick(handle.SimRunID, t)
		}

		time.Sleep(tickPaceDelay)
	}
}

// sectorIndex groups assets by sector for the per-tick health rollup.
func sectorIndex(assetByID map[string]model.Asset) map[model.Sector][]model.Asset {
	out := make(map[model.Sector][]model.Asset)
	for _, a := range assetByID {
		out[a.Sector] = append(out[a.Sector], a)
	}
	return out
}

// computeSectorHealth implements spec §4.3.1 step 3: criticality-weighted
// mean performance per sector, omitting sectors with no assets in the city.
func computeSectorHealth(bySector map[model.Sector][]model.Asset, handle *runtime.RunHandle) map[string]int {
	out := make(map[string]int, len(bySector))
	for sector, assets := range bySector {
		var weightedSum, weightTotal float64
		for _, a := range assets {
			w := float64(a.CriticalityOrDefault())
			weightedSum += float64(handle.Perf(a.ID)) * w
			weightTotal += w
		}
		if weightTotal == 0 {
			continue
		}
		out[string(sector)] = int(math.Round(weightedSum / weightTotal))
	}
	return out
}

// State implements spec §4.3's state(sim_run_id).
func (r *Runner) State(simRunID string) (*RunState, error) {
	handle, ok := r.registry.Get(simRunID)
	if !ok {
		return nil, enginerr.NotFound(fmt.Sprintf("run %q not found", simRunID))
	}
	return &RunState{
		SimRunID:           handle.SimRunID,
		ScenarioInstanceID: handle.ScenarioInstanceID,
		City:               handle.City,
		TotalTicks:         handle.TotalTicks,
		ComputedMaxTick:    handle.ComputedMaxTick(),
		Done:                handle.Done(),
	}, nil
}

// TickResult is what tick() hands back: either a payload or the pending
// sentinel.
type TickResult struct {
	Pending bool                  `json:"pending"`
	Payload *runtime.TickPayload `json:"payload,omitempty"`
}

// Tick implements spec §4.3's tick(sim_run_id, tick_index), clamping
// tick_index into [0, total_ticks-1].
func (r *Runner) Tick(simRunID string, tickIndex int) (*TickResult, error) {
	handle, ok := r.registry.Get(simRunID)
	if !ok {
		return nil, enginerr.NotFound(fmt.Sprintf("run %q not found", simRunID))
	}
	tickIndex = clamp(tickIndex, 0, handle.TotalTicks-1)

	payload, ready := handle.Tick(tickIndex)
	if !ready {
		return &TickResult{Pending: true}, nil
	}
	return &TickResult{Payload: payload}, nil
}
