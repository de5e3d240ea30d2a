package service

import (
	"context"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
)

// Store is the persistence boundary the core depends on. It is satisfied by
// internal/infrastructure/store's GORM-backed implementation; the core
// never imports GORM directly, matching spec §1's treatment of the store as
// an external collaborator.
type Store interface {
	// Assets
	AssetsByCity(city string) ([]model.Asset, error)

	// Dependencies
	ActiveDependencies() ([]model.Dependency, error)
	AssetsByIDs(ids []string) ([]model.Asset, error)

	// Templates & rules
	TemplateWithRules(templateID string) (*model.Template, error)
	UpsertTemplate(t *model.Template) error
	UpsertRule(r *model.Rule) error

	// Instances & anchors
	CreateInstance(inst *model.Instance) error
	Instance(id string) (*model.Instance, error)
	ListInstances(limit int) ([]model.Instance, error)
	CreateAnchors(anchors []model.Anchor) error
	AnchorsByInstance(instanceID string) ([]model.Anchor, error)

	// Events
	CreateEvents(events []model.Event) error
	EventsByInstance(instanceID string) ([]model.Event, error)

	// Transaction runs fn against a Store bound to one transaction; if fn
	// returns an error the transaction is rolled back. Implementations
	// that cannot provide real transactions (only the package's test fake)
	// would still need CreateEvents to be idempotent under retry via its dedup
	// key, per spec §5.
	Transaction(fn func(tx Store) error) error
}

// Cache is the read-through layer the resolver and façade consult before
// hitting Store, satisfied by internal/infrastructure/cache.ChainCache. A
// nil ChainCache is a valid, always-miss Cache, so callers can wire it
// unconditionally whether or not REDIS_HOST is configured.
type Cache interface {
	GetChain(ctx context.Context, assetID, direction string, maxDepth int, dest interface{}) bool
	PutChain(ctx context.Context, assetID, direction string, maxDepth int, value interface{})
	InvalidateAllChains(ctx context.Context)
	GetInstance(ctx context.Context, instanceID string, dest interface{}) bool
	PutInstance(ctx context.Context, instanceID string, value interface{})
}
