package model

// Dependency is one directed provider -> consumer edge. The edge set is a
// directed multigraph: several edges of different types (or priorities)
// between the same pair of assets are permitted and are distinct rows.
type Dependency struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	ProviderAssetID  string `gorm:"size:64;index;not null" json:"provider_asset_id"`
	ConsumerAssetID  string `gorm:"size:64;index;not null" json:"consumer_asset_id"`
	DependencyType   string `gorm:"size:64" json:"dependency_type"`
	Priority         int    `gorm:"default:1" json:"priority"`
	IsActive         bool   `gorm:"default:true" json:"is_active"`

	Provider Asset `gorm:"foreignKey:ProviderAssetID;constraint:OnDelete:CASCADE" json:"-"`
	Consumer Asset `gorm:"foreignKey:ConsumerAssetID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Dependency) TableName() string { return "asset_dependencies" }

// Direction is a traversal direction over the dependency graph.
type Direction string

const (
	Upstream   Direction = "upstream"
	Downstream Direction = "downstream"
)

// Edge is one dependency edge annotated with the depth it was discovered at
// during a bounded BFS walk.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Type     string `json:"type"`
	Priority int    `json:"priority"`
	Level    int    `json:"level"`
}
