package service

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/logging"
	"github.com/AvnerHilu2025/ginom-mockup/utils"
)

// Recovery-injection bounds, spec §4.2.3.
const (
	deltaPartialMin = 2
	deltaPartialMax = 10
	deltaFullMin    = 8
	deltaFullMax    = 40
	deltaPerfMin    = 20
	deltaPerfMax    = 45
)

// AnchorInput is one operator-supplied anchor point.
type AnchorInput struct {
	Type string
	Lat  float64
	Lng  float64
}

// PrepareRequest is the façade's prepare() input.
type PrepareRequest struct {
	City          string
	Scenario      string
	DurationHours int
	TickMinutes   int
	RepairCrews   int
	Anchors       []AnchorInput
	// Seed, when non-nil, fixes the recovery-injection PRNG so that two
	// prepare calls with identical inputs produce identical event
	// sequences (spec §8's determinism property). When nil, the
	// materializer mints one.
	Seed *int64
}

// PrepareSummary is what prepare() hands back to the caller.
type PrepareSummary struct {
	InstanceID      string `json:"instance_id"`
	TemplateID      string `json:"template_id"`
	HazardType      string `json:"hazard_type"`
	RuleCount       int    `json:"rule_count"`
	EventsCreated   int    `json:"events_created"`
	RecoveriesAdded int    `json:"recoveries_added"`
	AssetsUsed      int    `json:"assets_used"`
	TotalTicks      int    `json:"total_ticks"`
	Status          string `json:"status"`
}

// Materializer deterministically converts a template's rules + operator
// anchors + city asset inventory into an instance's complete event table.
type Materializer struct {
	store Store
}

// NewMaterializer constructs a materializer backed by store.
func NewMaterializer(store Store) *Materializer {
	return &Materializer{store: store}
}

// Prepare implements spec §4.2 end to end: validate, expand rules to
// primary events, inject recoveries, persist.
func (m *Materializer) Prepare(req PrepareRequest) (*PrepareSummary, error) {
	templateID, hazard, ok := LookupHazard(req.Scenario)
	if !ok {
		return nil, enginerr.UnknownScenario(req.Scenario)
	}

	if required := hazard.RequiredAnchor(); required != "" && !hasAnchorType(req.Anchors, required) {
		return nil, enginerr.MissingAnchor(required)
	}

	inst := &model.Instance{
		ID:            uuid.NewString(),
		City:          req.City,
		Scenario:      req.Scenario,
		HazardType:    hazard,
		TemplateID:    templateID,
		DurationHours: model.ClampDuration(req.DurationHours),
		TickMinutes:   model.ClampTickMinutes(req.TickMinutes),
		RepairCrews:   model.ClampRepairCrews(req.RepairCrews),
		Status:        model.InstancePrepared,
		Seed:          resolveSeed(req.Seed),
	}
	totalTicks := inst.TotalTicks()

	template, err := m.store.TemplateWithRules(templateID)
	if err != nil {
		return nil, enginerr.Internal(err)
	}
	rules := orderedRules(template.Rules)

	assets, err := m.store.AssetsByCity(req.City)
	if err != nil {
		return nil, enginerr.Internal(err)
	}

	primary, usedAssets := expandRules(rules, assets, req.Anchors, totalTicks)
	recoveries := injectRecoveries(inst.ID, primary, totalTicks, inst.Seed)

	anchors := make([]model.Anchor, 0, len(req.Anchors))
	for _, a := range req.Anchors {
		anchors = append(anchors, model.Anchor{InstanceID: inst.ID, AnchorType: a.Type, Lat: a.Lat, Lng: a.Lng})
	}

	allEvents := make([]model.Event, 0, len(primary)+len(recoveries))
	allEvents = append(allEvents, primary...)
	allEvents = append(allEvents, recoveries...)
	for i := range allEvents {
		allEvents[i].InstanceID = inst.ID
		allEvents[i].Seq = i
	}

	err = m.store.Transaction(func(tx Store) error {
		if err := tx.CreateInstance(inst); err != nil {
			return err
		}
		if len(anchors) > 0 {
			if err := tx.CreateAnchors(anchors); err != nil {
				return err
			}
		}
		if len(allEvents) > 0 {
			if err := tx.CreateEvents(allEvents); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, enginerr.Internal(err)
	}

	return &PrepareSummary{
		InstanceID:      inst.ID,
		TemplateID:      templateID,
		HazardType:      string(hazard),
		RuleCount:       len(rules),
		EventsCreated:   len(primary),
		RecoveriesAdded: len(recoveries),
		AssetsUsed:      len(usedAssets),
		TotalTicks:      totalTicks,
		Status:          string(model.InstancePrepared),
	}, nil
}

func hasAnchorType(anchors []AnchorInput, anchorType string) bool {
	for _, a := range anchors {
		if a.Type == anchorType {
			return true
		}
	}
	return false
}

func firstAnchor(anchors []AnchorInput, anchorType string) (AnchorInput, bool) {
	for _, a := range anchors {
		if a.Type == anchorType {
			return a, true
		}
	}
	return AnchorInput{}, false
}

// orderedRules sorts rules by (time_pct ASC, priority DESC, rule_id ASC),
// the order spec §4.2.2 requires them to be scanned in. Re-sorted here
// regardless of what order the store returned them in, so determinism
// never depends on a particular Store implementation.
func orderedRules(rules []model.Rule) []model.Rule {
	out := make([]model.Rule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimePct != out[j].TimePct {
			return out[i].TimePct < out[j].TimePct
		}
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].RuleID < out[j].RuleID
	})
	return out
}

// expandRules runs the rule-to-events algorithm (spec §4.2.2) over an
// already-ordered rule list, returning the primary event set and the set
// of asset ids it claimed.
func expandRules(rules []model.Rule, assets []model.Asset, anchors []AnchorInput, totalTicks int) ([]model.Event, map[string]bool) {
	byKey := make(map[string][]model.Asset)
	for _, a := range assets {
		key := string(a.Sector) + "|" + a.Subtype
		byKey[key] = append(byKey[key], a)
	}

	used := make(map[string]bool)
	var events []model.Event

	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		key := string(rule.Sector) + "|" + rule.Subtype
		candidates := append([]model.Asset{}, byKey[key]...)
		if len(candidates) == 0 {
			continue // zero events for this rule; not an error (spec §4.2.2 step 1)
		}

		candidates = applySelectionScope(rule, candidates, anchors)
		k := selectionCount(rule, len(candidates))

		chosen := 0
		for i := 0; i < len(candidates) && chosen < k; i++ {
			a := candidates[i]
			if !rule.AllowReuseAsset && used[a.ID] {
				continue
			}
			events = append(events, buildEvent(rule, a, totalTicks))
			used[a.ID] = true
			chosen++
		}
	}

	return events, used
}

// applySelectionScope filters/orders a rule's candidate pool per its
// selection_scope.
func applySelectionScope(rule model.Rule, candidates []model.Asset, anchors []AnchorInput) []model.Asset {
	switch rule.SelectionScope {
	case model.ScopeGeoRadius:
		anchor, ok := firstAnchor(anchors, rule.GeoAnchor)
		if !ok || rule.GeoParam1Km <= 0 {
			return candidates
		}
		out := make([]model.Asset, 0, len(candidates))
		for _, a := range candidates {
			if haversineKm(anchor.Lat, anchor.Lng, a.Lat, a.Lng) <= rule.GeoParam1Km {
				out = append(out, a)
			}
		}
		return out

	case model.ScopeGraphCentrality:
		// selectByCriticalityProxy: GRAPH_CENTRALITY is documented but not
		// fully defined (spec §9 open question). We name the proxy
		// honestly rather than pretend it is a real centrality measure:
		// descending criticality, no pool reduction.
		out := make([]model.Asset, len(candidates))
		copy(out, candidates)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CriticalityOrDefault() > out[j].CriticalityOrDefault()
		})
		return out

	default: // GEO_SCATTER or unrecognized: stable lexicographic order
		out := make([]model.Asset, len(candidates))
		copy(out, candidates)
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out
	}
}

// selectionCount computes k from target_mode/target_value over a pool of
// size n.
func selectionCount(rule model.Rule, n int) int {
	var k int
	switch rule.TargetMode {
	case model.TargetCount:
		k = int(rule.TargetValue)
	case model.TargetPct:
		k = int(math.Ceil(rule.TargetValue / 100 * float64(n)))
	}
	return clamp(k, 0, n)
}

func buildEvent(rule model.Rule, a model.Asset, totalTicks int) model.Event {
	tick := clamp(int(math.Ceil(rule.TimePct/100*float64(totalTicks))), 0, totalTicks-1)
	ruleID := rule.RuleID
	return model.Event{
		TickIndex:         tick,
		EventKind:         model.EventKind(upper(string(rule.EventKind))),
		AssetID:           a.ID,
		PerformancePct:    clamp(int(rule.PerformancePct), 0, 100),
		RepairTimeMinutes: rule.RepairTimeMinutes(),
		SourceRuleID:      &ruleID,
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// resolveSeed returns seed, or a fresh one drawn from crypto/rand via
// utils.RandomInt32 when the caller did not supply one. Spec §9's open
// question ("recoveries are non-deterministic ... should take a seed on
// the instance and carry it") is resolved by always giving the instance a
// concrete, recorded seed — callers who want determinism across prepare
// calls pass the same Seed explicitly.
func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	hi := int64(utils.RandomInt32())
	lo := int64(utils.RandomInt32())
	return hi<<32 | (lo & 0xffffffff)
}

// injectRecoveries schedules paired REPAIR_PARTIAL/REPAIR_FULL events for
// every primary event with performance_pct < 100, per spec §4.2.3.
// Deduplicated on (instance_id, asset_id, tick, performance_pct); failures
// here are logged and degrade to zero additions, never abort prepare.
func injectRecoveries(instanceID string, primary []model.Event, totalTicks int, seed int64) []model.Event {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("recovery injection panicked, degrading to zero additions: %v", r)
		}
	}()

	rng := rand.New(rand.NewSource(seed))
	seen := make(map[string]bool)
	var out []model.Event

	for _, ev := range primary {
		if ev.PerformancePct >= 100 {
			continue
		}

		deltaPartial := deltaPartialMin + rng.Intn(deltaPartialMax-deltaPartialMin+1)
		deltaFull := deltaFullMin + rng.Intn(deltaFullMax-deltaFullMin+1)
		deltaPerf := deltaPerfMin + rng.Intn(deltaPerfMax-deltaPerfMin+1)

		partialPct := clamp(ev.PerformancePct+deltaPerf, 50, 95)
		partialTick := clamp(ev.TickIndex+deltaPartial, 0, totalTicks-1)
		if partialTick > ev.TickIndex && partialPct > ev.PerformancePct {
			if addDedup(seen, instanceID, ev.AssetID, partialTick, partialPct) {
				out = append(out, model.Event{
					TickIndex:      partialTick,
					EventKind:      model.EventRepairPartial,
					AssetID:        ev.AssetID,
					PerformancePct: partialPct,
				})
			}
		}

		fullTick := clamp(ev.TickIndex+deltaFull, 0, totalTicks-1)
		if fullTick > ev.TickIndex {
			if addDedup(seen, instanceID, ev.AssetID, fullTick, 100) {
				out = append(out, model.Event{
					TickIndex:      fullTick,
					EventKind:      model.EventRepairFull,
					AssetID:        ev.AssetID,
					PerformancePct: 100,
				})
			}
		}
	}

	return out
}

func addDedup(seen map[string]bool, instanceID, assetID string, tick, pct int) bool {
	key := fmt.Sprintf("%s|%s|%d|%d", instanceID, assetID, tick, pct)
	if seen[key] {
		return false
	}
	seen[key] = true
	return true
}
