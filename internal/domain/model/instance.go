package model

import "time"

// InstanceStatus is the lifecycle status of a prepared scenario instance.
type InstanceStatus string

const (
	InstancePrepared InstanceStatus = "PREPARED"
)

const (
	minDurationHours = 1
	maxDurationHours = 168
	minTickMinutes   = 1
	maxTickMinutes   = 60
	minRepairCrews   = 0
	maxRepairCrews   = 999
)

// Instance is one concrete, city-bound materialization of a template.
type Instance struct {
	ID             string         `gorm:"primaryKey;size:64" json:"id"`
	City           string         `gorm:"size:100;index" json:"city"`
	Scenario       string         `gorm:"size:64" json:"scenario"`
	HazardType     HazardType     `gorm:"size:32" json:"hazard_type"`
	TemplateID     string         `gorm:"size:32" json:"template_id"`
	DurationHours  int            `json:"duration_hours"`
	TickMinutes    int            `json:"tick_minutes"`
	RepairCrews    int            `json:"repair_crews"`
	Status         InstanceStatus `gorm:"size:16" json:"status"`
	Seed           int64          `json:"seed"`
	CreatedAt      time.Time      `json:"created_at"`

	Anchors []Anchor `gorm:"foreignKey:InstanceID;constraint:OnDelete:CASCADE" json:"anchors,omitempty"`
}

func (Instance) TableName() string { return "scenario_instances" }

// TotalTicks derives total_ticks = max(1, floor(duration_hours*60/tick_minutes)).
func (i Instance) TotalTicks() int {
	if i.TickMinutes <= 0 {
		return 1
	}
	t := (i.DurationHours * 60) / i.TickMinutes
	if t < 1 {
		t = 1
	}
	return t
}

// ClampDuration clamps an operator-supplied duration to [1,168] hours.
func ClampDuration(hours int) int {
	return clampInt(hours, minDurationHours, maxDurationHours)
}

// ClampTickMinutes clamps an operator-supplied tick length to [1,60] minutes.
func ClampTickMinutes(minutes int) int {
	return clampInt(minutes, minTickMinutes, maxTickMinutes)
}

// ClampRepairCrews clamps an operator-supplied crew count to [0,999].
func ClampRepairCrews(crews int) int {
	return clampInt(crews, minRepairCrews, maxRepairCrews)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
