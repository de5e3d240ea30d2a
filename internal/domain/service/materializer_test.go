package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
)

func substations(n int, withinRadius bool) []model.Asset {
	out := make([]model.Asset, 0, n)
	for i := 0; i < n; i++ {
		lat, lng := 31.77, 35.22
		if withinRadius {
			lat += 0.01 * float64(i+1) // a few km, inside 5km
		} else {
			lat += 2.0 // far outside 5km
		}
		out = append(out, model.Asset{
			ID:      "sub-" + boolLabel(withinRadius) + "-" + itoa(i),
			Name:    "Substation",
			Sector:  model.SectorElectricity,
			Subtype: "substation",
			City:    "Jerusalem",
			Lat:     lat,
			Lng:     lng,
		})
	}
	return out
}

func boolLabel(b bool) string {
	if b {
		return "in"
	}
	return "out"
}

func itoa(i int) string {
	digits := "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	return string(digits[i/10]) + string(digits[i%10])
}

func earthquakeFixture() *fakeStore {
	st := newFakeStore()
	st.assets = append(st.assets, substations(3, true)...)
	st.assets = append(st.assets, substations(2, false)...)

	st.templates["EQ_030"] = &model.Template{
		TemplateID: "EQ_030",
		HazardType: model.HazardEarthquake,
		Rules: []model.Rule{
			{
				RuleID:         "EQ030-R1",
				TemplateID:     "EQ_030",
				EventKind:      model.EventImpact,
				TimePct:        50,
				SelectionScope: model.ScopeGeoRadius,
				Sector:         model.SectorElectricity,
				Subtype:        "substation",
				TargetMode:     model.TargetPct,
				TargetValue:    100,
				PerformancePct: 0,
				GeoAnchor:      "EPICENTER",
				GeoParam1Km:    5,
				Priority:       1,
				Enabled:        true,
			},
		},
	}
	return st
}

func TestPrepareEarthquakeScenario(t *testing.T) {
	st := earthquakeFixture()
	m := NewMaterializer(st)

	seed := int64(42)
	summary, err := m.Prepare(PrepareRequest{
		City:          "Jerusalem",
		Scenario:      "earthquake",
		DurationHours: 24,
		TickMinutes:   60,
		RepairCrews:   0,
		Anchors:       []AnchorInput{{Type: "EPICENTER", Lat: 31.77, Lng: 35.22}},
		Seed:          &seed,
	})
	require.NoError(t, err)

	assert.Equal(t, "EQ_030", summary.TemplateID)
	assert.Equal(t, "EARTHQUAKE", summary.HazardType)
	assert.Equal(t, 24, summary.TotalTicks)
	assert.Equal(t, 3, summary.EventsCreated)
	assert.Equal(t, 3, summary.AssetsUsed)
	assert.Equal(t, 6, summary.RecoveriesAdded) // 3 partial + 3 full

	events := st.events[summary.InstanceID]
	require.Len(t, events, 9)
	for _, ev := range events {
		if ev.EventKind == model.EventImpact {
			assert.Equal(t, 12, ev.TickIndex)
			assert.Equal(t, 0, ev.PerformancePct)
		}
		assert.True(t, ev.TickIndex >= 0 && ev.TickIndex < summary.TotalTicks)
	}
}

func TestPrepareEarthquakeWithoutAnchorFails(t *testing.T) {
	st := earthquakeFixture()
	m := NewMaterializer(st)

	_, err := m.Prepare(PrepareRequest{
		City:          "Jerusalem",
		Scenario:      "earthquake",
		DurationHours: 24,
		TickMinutes:   60,
	})
	require.Error(t, err)
	e, ok := enginerr.As(err)
	require.True(t, ok)
	assert.Equal(t, "MISSING_ANCHOR", e.Kind())
	assert.Equal(t, "EPICENTER", e.RequiredAnchor)
}

func TestPrepareCyberAttackNeedsNoAnchor(t *testing.T) {
	st := newFakeStore()
	st.templates["CY_020"] = &model.Template{
		TemplateID: "CY_020",
		HazardType: model.HazardCyber,
		Rules: []model.Rule{
			{
				RuleID:         "CY020-R1",
				TemplateID:     "CY_020",
				EventKind:      model.EventImpact,
				TimePct:        10,
				SelectionScope: model.ScopeGeoScatter,
				Sector:         model.SectorCommunication,
				Subtype:        "exchange",
				TargetMode:     model.TargetCount,
				TargetValue:    1,
				PerformancePct: 20,
				Enabled:        true,
			},
		},
	}
	st.assets = []model.Asset{
		{ID: "ex-1", Sector: model.SectorCommunication, Subtype: "exchange", City: "Jerusalem"},
	}

	m := NewMaterializer(st)
	summary, err := m.Prepare(PrepareRequest{
		City:          "Jerusalem",
		Scenario:      "cyber_attack",
		DurationHours: 10,
		TickMinutes:   60,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.EventsCreated)
}

func TestPrepareUnknownScenario(t *testing.T) {
	st := newFakeStore()
	m := NewMaterializer(st)

	_, err := m.Prepare(PrepareRequest{City: "Jerusalem", Scenario: "zombies"})
	require.Error(t, err)
	e, ok := enginerr.As(err)
	require.True(t, ok)
	assert.Equal(t, "UNKNOWN_SCENARIO", e.Kind())
}

func TestPrepareEmptyCandidateSetSkipsRuleWithoutError(t *testing.T) {
	st := earthquakeFixture()
	st.assets = nil // no assets at all in the city

	m := NewMaterializer(st)
	seed := int64(1)
	summary, err := m.Prepare(PrepareRequest{
		City:          "Jerusalem",
		Scenario:      "earthquake",
		DurationHours: 24,
		TickMinutes:   60,
		Anchors:       []AnchorInput{{Type: "EPICENTER", Lat: 31.77, Lng: 35.22}},
		Seed:          &seed,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.EventsCreated)
	assert.Equal(t, 0, summary.RecoveriesAdded)
}

func TestPrepareDeterministicWithFixedSeed(t *testing.T) {
	seed := int64(7)

	st1 := earthquakeFixture()
	m1 := NewMaterializer(st1)
	s1, err := m1.Prepare(PrepareRequest{
		City: "Jerusalem", Scenario: "earthquake", DurationHours: 24, TickMinutes: 60,
		Anchors: []AnchorInput{{Type: "EPICENTER", Lat: 31.77, Lng: 35.22}}, Seed: &seed,
	})
	require.NoError(t, err)

	st2 := earthquakeFixture()
	m2 := NewMaterializer(st2)
	s2, err := m2.Prepare(PrepareRequest{
		City: "Jerusalem", Scenario: "earthquake", DurationHours: 24, TickMinutes: 60,
		Anchors: []AnchorInput{{Type: "EPICENTER", Lat: 31.77, Lng: 35.22}}, Seed: &seed,
	})
	require.NoError(t, err)

	events1 := st1.events[s1.InstanceID]
	events2 := st2.events[s2.InstanceID]
	require.Len(t, events1, len(events2))
	for i := range events1 {
		assert.Equal(t, events1[i].TickIndex, events2[i].TickIndex)
		assert.Equal(t, events1[i].EventKind, events2[i].EventKind)
		assert.Equal(t, events1[i].PerformancePct, events2[i].PerformancePct)
	}
}

func TestTotalTicksOfOnePlacesEventsAtZero(t *testing.T) {
	st := earthquakeFixture()
	m := NewMaterializer(st)
	seed := int64(3)

	summary, err := m.Prepare(PrepareRequest{
		City:          "Jerusalem",
		Scenario:      "earthquake",
		DurationHours: 1,
		TickMinutes:   60, // total_ticks = max(1, 60/60) = 1
		Anchors:       []AnchorInput{{Type: "EPICENTER", Lat: 31.77, Lng: 35.22}},
		Seed:          &seed,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalTicks)

	for _, ev := range st.events[summary.InstanceID] {
		assert.Equal(t, 0, ev.TickIndex)
	}
}
