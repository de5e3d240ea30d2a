package model

// HazardType is the hazard a template characterizes.
type HazardType string

const (
	HazardEarthquake  HazardType = "EARTHQUAKE"
	HazardCyber       HazardType = "CYBER"
	HazardTsunami     HazardType = "TSUNAMI"
	HazardPandemic    HazardType = "PANDEMIC"
	HazardSevereStorm HazardType = "SEVERE_STORM"
	HazardWildfire    HazardType = "WILDFIRE"
)

// RequiredAnchor reports which anchor type a hazard requires, if any, per
// the scenario -> template mapping table (spec §6).
func (h HazardType) RequiredAnchor() string {
	switch h {
	case HazardEarthquake:
		return "EPICENTER"
	case HazardTsunami:
		return "IMPACT_CENTER"
	case HazardSevereStorm:
		return "FLOOD_POCKET"
	case HazardWildfire:
		return "FIRE_ORIGIN"
	default:
		return ""
	}
}

// Template is a named, versioned bundle of rules for one hazard type.
type Template struct {
	TemplateID string     `gorm:"primaryKey;size:32" json:"template_id"`
	Name       string     `gorm:"size:200" json:"name"`
	HazardType HazardType `gorm:"size:32;index" json:"hazard_type"`
	Version    int        `gorm:"default:1" json:"version"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`

	Rules []Rule `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"rules,omitempty"`
}

func (Template) TableName() string { return "scenario_templates" }
