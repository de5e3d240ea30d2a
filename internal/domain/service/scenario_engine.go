package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/runtime"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
)

// InstanceSummary is a read-only projection of a prepared instance, used by
// list_prepared/describe_prepared.
type InstanceSummary struct {
	ID            string `json:"id"`
	City          string `json:"city"`
	Scenario      string `json:"scenario"`
	HazardType    string `json:"hazard_type"`
	TemplateID    string `json:"template_id"`
	DurationHours int    `json:"duration_hours"`
	TickMinutes   int    `json:"tick_minutes"`
	RepairCrews   int    `json:"repair_crews"`
	Status        string `json:"status"`
	TotalTicks    int    `json:"total_ticks"`
}

// InstanceDetail adds the anchor and event-count breakdown describe_prepared
// exposes on top of the summary.
type InstanceDetail struct {
	InstanceSummary
	Anchors     []model.Anchor `json:"anchors"`
	EventCounts map[string]int `json:"event_counts"`
}

// TimelineBucket is one bucket_ticks-wide window of event-kind counts.
type TimelineBucket struct {
	Bucket int            `json:"bucket"`
	Counts map[string]int `json:"counts"`
}

// ScenarioEngine is the façade the edge collaborator invokes: the only
// surface that composes the resolver, materializer, runner and store.
type ScenarioEngine struct {
	store        Store
	cache        Cache
	resolver     *DependencyResolver
	materializer *Materializer
	runner       *Runner
}

// NewScenarioEngine wires the façade's collaborators. cache may be nil; the
// resolver and DescribePrepared both treat a nil cache as an always-miss
// read-through layer.
func NewScenarioEngine(store Store, registry *runtime.Registry, bus TickEventPublisher, cache Cache) *ScenarioEngine {
	return &ScenarioEngine{
		store:        store,
		cache:        cache,
		resolver:     NewDependencyResolver(store, cache),
		materializer: NewMaterializer(store),
		runner:       NewRunner(store, registry, bus),
	}
}

// Prepare delegates to the materializer.
func (e *ScenarioEngine) Prepare(req PrepareRequest) (*PrepareSummary, error) {
	return e.materializer.Prepare(req)
}

// ListPrepared returns up to limit prepared instances, most-recent first.
func (e *ScenarioEngine) ListPrepared(limit int) ([]InstanceSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	instances, err := e.store.ListInstances(limit)
	if err != nil {
		return nil, enginerr.Internal(err)
	}
	out := make([]InstanceSummary, 0, len(instances))
	for _, inst := range instances {
		out = append(out, toSummary(inst))
	}
	return out, nil
}

// DescribePrepared returns one instance's full detail, including its
// anchors and a breakdown of event counts by kind. The assembled detail is
// cached by instanceID, since it's immutable once an instance finishes
// materializing.
func (e *ScenarioEngine) DescribePrepared(instanceID string) (*InstanceDetail, error) {
	ctx := context.Background()
	if e.cache != nil {
		var cached InstanceDetail
		if e.cache.GetInstance(ctx, instanceID, &cached) {
			return &cached, nil
		}
	}

	inst, err := e.store.Instance(instanceID)
	if err != nil {
		return nil, enginerr.Internal(err)
	}
	if inst == nil {
		return nil, enginerr.NotFound(fmt.Sprintf("instance %q not found", instanceID))
	}

	anchors, err := e.store.AnchorsByInstance(instanceID)
	if err != nil {
		return nil, enginerr.Internal(err)
	}
	events, err := e.store.EventsByInstance(instanceID)
	if err != nil {
		return nil, enginerr.Internal(err)
	}

	counts := make(map[string]int)
	for _, ev := range events {
		counts[string(ev.EventKind)]++
	}

	detail := &InstanceDetail{
		InstanceSummary: toSummary(*inst),
		Anchors:         anchors,
		EventCounts:     counts,
	}

	if e.cache != nil {
		e.cache.PutInstance(ctx, instanceID, detail)
	}
	return detail, nil
}

// Timeline buckets an instance's event table by tick_index/bucket_ticks,
// returning per-bucket event-kind counts for a UI overview strip.
func (e *ScenarioEngine) Timeline(instanceID string, bucketTicks int) ([]TimelineBucket, error) {
	if bucketTicks <= 0 {
		bucketTicks = 1
	}
	events, err := e.store.EventsByInstance(instanceID)
	if err != nil {
		return nil, enginerr.Internal(err)
	}

	byBucket := make(map[int]map[string]int)
	var order []int
	for _, ev := range events {
		b := ev.TickIndex / bucketTicks
		if _, ok := byBucket[b]; !ok {
			byBucket[b] = make(map[string]int)
			order = append(order, b)
		}
		byBucket[b][string(ev.EventKind)]++
	}
	sort.Ints(order)

	out := make([]TimelineBucket, 0, len(order))
	for _, b := range order {
		out = append(out, TimelineBucket{Bucket: b, Counts: byBucket[b]})
	}
	return out, nil
}

// Start delegates to the runner.
func (e *ScenarioEngine) Start(instanceID string) (*RunState, error) {
	return e.runner.Start(instanceID)
}

// State delegates to the runner.
func (e *ScenarioEngine) State(simRunID string) (*RunState, error) {
	return e.runner.State(simRunID)
}

// Tick delegates to the runner.
func (e *ScenarioEngine) Tick(simRunID string, tickIndex int) (*TickResult, error) {
	return e.runner.Tick(simRunID, tickIndex)
}

// Chain delegates to the dependency resolver.
func (e *ScenarioEngine) Chain(assetID string, direction model.Direction, maxDepth int) (*ChainResult, error) {
	return e.resolver.Chain(assetID, direction, maxDepth)
}

// Graph delegates to the dependency resolver's structural view.
func (e *ScenarioEngine) Graph(city string) (*GraphResult, error) {
	return e.resolver.Graph(city)
}

func toSummary(inst model.Instance) InstanceSummary {
	return InstanceSummary{
		ID:            inst.ID,
		City:          inst.City,
		Scenario:      inst.Scenario,
		HazardType:    string(inst.HazardType),
		TemplateID:    inst.TemplateID,
		DurationHours: inst.DurationHours,
		TickMinutes:   inst.TickMinutes,
		RepairCrews:   inst.RepairCrews,
		Status:        string(inst.Status),
		TotalTicks:    inst.TotalTicks(),
	}
}
