package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/runtime"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
)

// noopBus discards every publish; used where the test has no interest in
// the internal ops event bus.
type noopBus struct{}

func (noopBus) PublishRunStarted(string, string)  {}
func (noopBus) PublishRunTick(string, int)        {}
func (noopBus) PublishRunDone(string, bool)       {}

// recordingBus captures what the runner published, for tests that assert on
// the sequence of ops events.
type recordingBus struct {
	started []string
	ticks   []int
	done    []bool
}

func (b *recordingBus) PublishRunStarted(simRunID, instanceID string) {
	b.started = append(b.started, simRunID)
}
func (b *recordingBus) PublishRunTick(simRunID string, tickIndex int) {
	b.ticks = append(b.ticks, tickIndex)
}
func (b *recordingBus) PublishRunDone(simRunID string, failed bool) {
	b.done = append(b.done, failed)
}

func runnerFixture() (*fakeStore, *runtime.Registry) {
	st := newFakeStore()
	st.assets = []model.Asset{
		{ID: "sub-1", Sector: model.SectorElectricity, Subtype: "substation", City: "Jerusalem", Criticality: 5},
		{ID: "sub-2", Sector: model.SectorElectricity, Subtype: "substation", City: "Jerusalem", Criticality: 5},
	}
	inst := &model.Instance{
		ID:            "inst-1",
		City:          "Jerusalem",
		Scenario:      "earthquake",
		HazardType:    model.HazardEarthquake,
		TemplateID:    "EQ_030",
		DurationHours: 1,
		TickMinutes:   60, // total_ticks = 1
		Status:        model.InstancePrepared,
		Seed:          1,
	}
	st.instances[inst.ID] = inst
	st.events[inst.ID] = []model.Event{
		{InstanceID: inst.ID, TickIndex: 0, Seq: 0, EventKind: model.EventImpact, AssetID: "sub-1", PerformancePct: 0},
	}
	return st, runtime.NewRegistry()
}

func TestRunnerStartAndCompleteShortRun(t *testing.T) {
	st, registry := runnerFixture()
	bus := &recordingBus{}
	r := NewRunner(st, registry, bus)

	state, err := r.Start("inst-1")
	require.NoError(t, err)
	assert.Equal(t, "Jerusalem", state.City)
	assert.Equal(t, 1, state.TotalTicks)
	assert.Equal(t, -1, state.ComputedMaxTick)
	assert.False(t, state.Done)

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := r.State(state.SimRunID)
		require.NoError(t, err)
		if got.Done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	require.Len(t, bus.started, 1)
	require.NotEmpty(t, bus.ticks)
	require.Len(t, bus.done, 1)
	assert.False(t, bus.done[0])
}

func TestRunnerTickIsIdempotent(t *testing.T) {
	st, registry := runnerFixture()
	r := NewRunner(st, registry, noopBus{})

	state, err := r.Start("inst-1")
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := r.State(state.SimRunID)
		require.NoError(t, err)
		if got.Done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	first, err := r.Tick(state.SimRunID, 0)
	require.NoError(t, err)
	require.False(t, first.Pending)

	second, err := r.Tick(state.SimRunID, 0)
	require.NoError(t, err)
	require.False(t, second.Pending)

	assert.Equal(t, first.Payload, second.Payload)
	// sub-1 drops to 0%, sub-2 stays at its default 100%, equal criticality
	// weights on both => sector mean is their midpoint.
	assert.Equal(t, 50, first.Payload.Sectors[string(model.SectorElectricity)])
}

func TestRunnerStartUnknownInstance(t *testing.T) {
	st, registry := runnerFixture()
	r := NewRunner(st, registry, noopBus{})

	_, err := r.Start("nope")
	require.Error(t, err)
	e, ok := enginerr.As(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", e.Kind())
}

func TestRunnerStateUnknownRun(t *testing.T) {
	_, registry := runnerFixture()
	r := NewRunner(newFakeStore(), registry, noopBus{})

	_, err := r.State("nope")
	require.Error(t, err)
	e, ok := enginerr.As(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", e.Kind())
}

func TestRunnerTickClampsOutOfRangeIndex(t *testing.T) {
	st, registry := runnerFixture()
	r := NewRunner(st, registry, noopBus{})

	state, err := r.Start("inst-1")
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := r.State(state.SimRunID)
		require.NoError(t, err)
		if got.Done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	result, err := r.Tick(state.SimRunID, 999)
	require.NoError(t, err)
	require.False(t, result.Pending)
	assert.Equal(t, 0, result.Payload.TickIndex)
}
