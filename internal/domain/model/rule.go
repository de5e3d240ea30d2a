package model

// EventKind distinguishes impact rules/events from repair ones.
type EventKind string

const (
	EventImpact       EventKind = "IMPACT"
	EventRepair       EventKind = "REPAIR"
	EventRepairPartial EventKind = "REPAIR_PARTIAL"
	EventRepairFull    EventKind = "REPAIR_FULL"
)

// SelectionScope controls how a rule's candidate pool is filtered/ordered.
type SelectionScope string

const (
	ScopeGeoRadius        SelectionScope = "GEO_RADIUS"
	ScopeGeoScatter        SelectionScope = "GEO_SCATTER"
	ScopeGraphCentrality   SelectionScope = "GRAPH_CENTRALITY"
)

// TargetMode controls how TargetValue is interpreted.
type TargetMode string

const (
	TargetPct   TargetMode = "PCT"
	TargetCount TargetMode = "COUNT"
)

// Rule is one parametric impact or repair specification belonging to a
// template. Rules are append-only and versioned by the owning template's
// version.
type Rule struct {
	RuleID          string         `gorm:"primaryKey;size:64" json:"rule_id"`
	TemplateID      string         `gorm:"size:32;index;not null" json:"template_id"`
	EventKind       EventKind      `gorm:"size:16" json:"event_kind"`
	TimePct         float64        `json:"time_pct"`
	TimeJitterPct   float64        `json:"time_jitter_pct"`
	SelectionScope  SelectionScope `gorm:"size:32" json:"selection_scope"`
	Sector          Sector         `gorm:"size:32" json:"sector"`
	Subtype         string         `gorm:"size:64" json:"subtype"`
	TargetMode      TargetMode     `gorm:"size:16" json:"target_mode"`
	TargetValue     float64        `json:"target_value"`
	AllowReuseAsset bool           `json:"allow_reuse_asset"`
	PerformancePct  float64        `json:"performance_pct"`
	RepairTimeMin   *int           `json:"repair_time_min,omitempty"`
	RepairTimeMax   *int           `json:"repair_time_max,omitempty"`
	GeoAnchor       string         `gorm:"size:64" json:"geo_anchor,omitempty"`
	GeoParam1Km     float64        `json:"geo_param_1_km,omitempty"`
	Priority        int            `json:"priority"`
	Enabled         bool           `gorm:"default:true" json:"enabled"`
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`
}

func (Rule) TableName() string { return "scenario_template_rules" }

// RepairTimeMinutes applies the averaging rule from spec §4.2.2: the mean
// of min/max when both are present, whichever one is present alone,
// otherwise nil.
func (r Rule) RepairTimeMinutes() *int {
	switch {
	case r.RepairTimeMin != nil && r.RepairTimeMax != nil:
		v := (*r.RepairTimeMin + *r.RepairTimeMax) / 2
		return &v
	case r.RepairTimeMin != nil:
		v := *r.RepairTimeMin
		return &v
	case r.RepairTimeMax != nil:
		v := *r.RepairTimeMax
		return &v
	default:
		return nil
	}
}
