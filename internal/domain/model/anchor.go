package model

// Anchor is an operator-placed geographic point scoping a rule's selection,
// e.g. EPICENTER, IMPACT_CENTER, FLOOD_POCKET, FIRE_ORIGIN, CITY_CENTER.
type Anchor struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	InstanceID string  `gorm:"size:64;index;not null" json:"instance_id"`
	AnchorType string  `gorm:"size:32" json:"anchor_type"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

func (Anchor) TableName() string { return "scenario_instance_anchors" }
