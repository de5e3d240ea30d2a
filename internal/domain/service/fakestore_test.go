package service

import (
	"sort"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
)

// fakeStore is an in-memory service.Store used by this package's tests. It
// has no transaction semantics of its own — Transaction just runs fn
// against the same fake, which is sufficient for single-goroutine tests.
type fakeStore struct {
	assets    []model.Asset
	deps      []model.Dependency
	templates map[string]*model.Template
	instances map[string]*model.Instance
	anchors   map[string][]model.Anchor
	events    map[string][]model.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		templates: make(map[string]*model.Template),
		instances: make(map[string]*model.Instance),
		anchors:   make(map[string][]model.Anchor),
		events:    make(map[string][]model.Event),
	}
}

func (f *fakeStore) AssetsByCity(city string) ([]model.Asset, error) {
	var out []model.Asset
	for _, a := range f.assets {
		if a.City == city {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ActiveDependencies() ([]model.Dependency, error) {
	var out []model.Dependency
	for _, d := range f.deps {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) AssetsByIDs(ids []string) ([]model.Asset, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Asset
	for _, a := range f.assets {
		if want[a.ID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) TemplateWithRules(templateID string) (*model.Template, error) {
	t, ok := f.templates[templateID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) UpsertTemplate(t *model.Template) error {
	cp := *t
	f.templates[t.TemplateID] = &cp
	return nil
}

func (f *fakeStore) UpsertRule(r *model.Rule) error {
	t, ok := f.templates[r.TemplateID]
	if !ok {
		t = &model.Template{TemplateID: r.TemplateID}
		f.templates[r.TemplateID] = t
	}
	for i, existing := range t.Rules {
		if existing.RuleID == r.RuleID {
			t.Rules[i] = *r
			return nil
		}
	}
	t.Rules = append(t.Rules, *r)
	return nil
}

func (f *fakeStore) CreateInstance(inst *model.Instance) error {
	cp := *inst
	f.instances[inst.ID] = &cp
	return nil
}

func (f *fakeStore) Instance(id string) (*model.Instance, error) {
	inst, ok := f.instances[id]
	if !ok {
		return nil, nil
	}
	cp := *inst
	return &cp, nil
}

func (f *fakeStore) ListInstances(limit int) ([]model.Instance, error) {
	var out []model.Instance
	for _, inst := range f.instances {
		out = append(out, *inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) CreateAnchors(anchors []model.Anchor) error {
	for _, a := range anchors {
		f.anchors[a.InstanceID] = append(f.anchors[a.InstanceID], a)
	}
	return nil
}

func (f *fakeStore) AnchorsByInstance(instanceID string) ([]model.Anchor, error) {
	return f.anchors[instanceID], nil
}

func (f *fakeStore) CreateEvents(events []model.Event) error {
	for _, e := range events {
		f.events[e.InstanceID] = append(f.events[e.InstanceID], e)
	}
	return nil
}

func (f *fakeStore) EventsByInstance(instanceID string) ([]model.Event, error) {
	return f.events[instanceID], nil
}

func (f *fakeStore) Transaction(fn func(tx Store) error) error {
	return fn(f)
}
