package model

// Event is one scheduled (tick, asset, performance) triple belonging to an
// instance. Ordering within a tick is stable insertion order: IMPACT events
// from the rule scan, then injected REPAIR_PARTIAL/REPAIR_FULL events.
type Event struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	InstanceID         string    `gorm:"size:64;index:idx_instance_tick;not null" json:"instance_id"`
	TickIndex          int       `gorm:"index:idx_instance_tick" json:"tick_index"`
	Seq                int       `gorm:"index" json:"-"`
	EventKind          EventKind `gorm:"size:16" json:"event_kind"`
	AssetID            string    `gorm:"size:64;index" json:"asset_id"`
	PerformancePct     int       `json:"performance_pct"`
	RepairTimeMinutes  *int      `json:"repair_time_minutes,omitempty"`
	SourceRuleID       *string   `gorm:"size:64" json:"source_rule_id,omitempty"`
}

func (Event) TableName() string { return "scenario_events" }
