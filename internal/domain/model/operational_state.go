package model

// OperationalStatus is the discrete status derived from an asset's current
// performance percentage.
type OperationalStatus string

const (
	StatusActive   OperationalStatus = "active"
	StatusPartial  OperationalStatus = "partial"
	StatusInactive OperationalStatus = "inactive"
)

// StatusFromPerformance applies the thresholding rule from the data model:
// >=100 active, [50,99] partial, <50 inactive.
func StatusFromPerformance(pct int) OperationalStatus {
	switch {
	case pct >= 100:
		return StatusActive
	case pct >= 50:
		return StatusPartial
	default:
		return StatusInactive
	}
}

// StatusLabel is the narrative label the runner attaches to a status
// transition (RECOVERED / DEGRADED / FAILED).
func StatusLabel(s OperationalStatus) string {
	switch s {
	case StatusActive:
		return "RECOVERED"
	case StatusPartial:
		return "DEGRADED"
	default:
		return "FAILED"
	}
}

// OperationalState is the persisted row mirroring an asset's last known
// status. One row per asset; unique on AssetID.
type OperationalState struct {
	AssetID string            `gorm:"primaryKey;size:64" json:"asset_id"`
	Status  OperationalStatus `gorm:"size:16" json:"status"`
}

func (OperationalState) TableName() string { return "asset_operational_state" }
