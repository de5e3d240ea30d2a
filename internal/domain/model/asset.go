package model

import "time"

// Sector is the infrastructure sector an asset belongs to.
type Sector string

const (
	SectorElectricity     Sector = "electricity"
	SectorWater           Sector = "water"
	SectorGas             Sector = "gas"
	SectorCommunication   Sector = "communication"
	SectorFirstResponders Sector = "first_responders"
)

// DefaultCriticality is used when an asset row omits criticality.
const DefaultCriticality = 3

// Asset is a geo-located piece of critical infrastructure. Identity is
// immutable once created by the seeding collaborator or an import; the
// core never mutates name/sector/subtype/city/lat/lng/criticality.
type Asset struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	Name        string `gorm:"size:200" json:"name"`
	Sector      Sector `gorm:"size:32;index" json:"sector"`
	Subtype     string `gorm:"size:64;index" json:"subtype"`
	City        string `gorm:"size:100;index" json:"city"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Criticality int     `gorm:"default:3" json:"criticality"`
	Metadata    string  `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName pins the GORM table name independent of struct renames.
func (Asset) TableName() string { return "assets" }

// CriticalityOrDefault returns a's criticality, or DefaultCriticality when
// it was left at zero (unset).
func (a Asset) CriticalityOrDefault() int {
	if a.Criticality <= 0 {
		return DefaultCriticality
	}
	return a.Criticality
}
