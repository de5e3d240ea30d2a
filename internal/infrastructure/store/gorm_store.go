// Package store is the GORM-backed implementation of the scenario engine's
// persistence boundary, internal/domain/service.Store.
package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/service"
)

// GormStore satisfies service.Store over a single *gorm.DB (or a
// transaction-scoped one handed in by Transaction).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db as a service.Store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates/updates every table this store owns.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&model.Asset{},
		&model.Dependency{},
		&model.OperationalState{},
		&model.Template{},
		&model.Rule{},
		&model.Instance{},
		&model.Anchor{},
		&model.Event{},
	)
}

// AssetsByCity orders by id so GEO_RADIUS selection (which takes the first
// k of whatever the store returns, per the materializer's selection scope)
// is deterministic against a real store, not just the insertion-ordered
// fake used in tests.
func (s *GormStore) AssetsByCity(city string) ([]model.Asset, error) {
	var out []model.Asset
	err := s.db.Where("city = ?", city).Order("id").Find(&out).Error
	return out, err
}

func (s *GormStore) ActiveDependencies() ([]model.Dependency, error) {
	var out []model.Dependency
	err := s.db.Where("is_active = ?", true).Find(&out).Error
	return out, err
}

func (s *GormStore) AssetsByIDs(ids []string) ([]model.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []model.Asset
	err := s.db.Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (s *GormStore) TemplateWithRules(templateID string) (*model.Template, error) {
	var t model.Template
	err := s.db.Preload("Rules").First(&t, "template_id = ?", templateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) UpsertTemplate(t *model.Template) error {
	return s.db.Save(t).Error
}

func (s *GormStore) UpsertRule(r *model.Rule) error {
	return s.db.Save(r).Error
}

func (s *GormStore) CreateInstance(inst *model.Instance) error {
	return s.db.Create(inst).Error
}

func (s *GormStore) Instance(id string) (*model.Instance, error) {
	var inst model.Instance
	err := s.db.First(&inst, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (s *GormStore) ListInstances(limit int) ([]model.Instance, error) {
	var out []model.Instance
	err := s.db.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (s *GormStore) CreateAnchors(anchors []model.Anchor) error {
	if len(anchors) == 0 {
		return nil
	}
	return s.db.Create(&anchors).Error
}

func (s *GormStore) AnchorsByInstance(instanceID string) ([]model.Anchor, error) {
	var out []model.Anchor
	err := s.db.Where("instance_id = ?", instanceID).Find(&out).Error
	return out, err
}

func (s *GormStore) CreateEvents(events []model.Event) error {
	if len(events) == 0 {
		return nil
	}
	return s.db.Create(&events).Error
}

func (s *GormStore) EventsByInstance(instanceID string) ([]model.Event, error) {
	var out []model.Event
	err := s.db.Where("instance_id = ?", instanceID).Order("tick_index ASC, seq ASC").Find(&out).Error
	return out, err
}

// Transaction runs fn against a GormStore bound to a single GORM
// transaction, satisfying service.Store's atomic-write contract for
// prepare (spec §5): one instance row, its anchors, and its events commit
// or roll back together.
func (s *GormStore) Transaction(fn func(tx service.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
