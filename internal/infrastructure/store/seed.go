package store

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/cache"
)

// BoundingBox is a flat lat/lng rectangle a city's synthetic assets are
// scattered within. No land-mask geometry: points are drawn uniformly over
// the rectangle, which is enough for prepare() to have a non-empty
// inventory to work against in a fresh store.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// SectorMix is how many assets of each (sector, subtype) pair to place.
type SectorMix struct {
	Sector  model.Sector
	Subtype string
	Count   int
}

// SeedCity is the minimal stand-in for the real seeding collaborator named
// in spec §1: it fills a city's inventory with a deterministic (seeded)
// scatter of assets and a light dependency mesh linking each consumer
// asset back to an electricity asset drawn from the same seeded PRNG (not
// the nearest one), so a freshly migrated store
// has something for prepare() to materialize against.
func SeedCity(st *GormStore, city string, box BoundingBox, mix []SectorMix, seed int64, ch *cache.ChainCache) (int, int, error) {
	rng := rand.New(rand.NewSource(seed))

	var assets []model.Asset
	var power []model.Asset
	for _, m := range mix {
		for i := 0; i < m.Count; i++ {
			a := model.Asset{
				ID:          fmt.Sprintf("%s-%s-%s-%03d", city, m.Sector, m.Subtype, i),
				Name:        fmt.Sprintf("%s %s #%d", city, m.Subtype, i),
				Sector:      m.Sector,
				Subtype:     m.Subtype,
				City:        city,
				Lat:         box.MinLat + rng.Float64()*(box.MaxLat-box.MinLat),
				Lng:         box.MinLng + rng.Float64()*(box.MaxLng-box.MinLng),
				Criticality: model.DefaultCriticality,
			}
			assets = append(assets, a)
			if m.Sector == model.SectorElectricity {
				power = append(power, a)
			}
		}
	}
	if len(assets) == 0 {
		return 0, 0, nil
	}
	if err := st.db.Create(&assets).Error; err != nil {
		return 0, 0, fmt.Errorf("seeding assets: %w", err)
	}

	var deps []model.Dependency
	if len(power) > 0 {
		for _, a := range assets {
			if a.Sector == model.SectorElectricity {
				continue
			}
			provider := power[rng.Intn(len(power))]
			deps = append(deps, model.Dependency{
				ProviderAssetID: provider.ID,
				ConsumerAssetID: a.ID,
				DependencyType:  "power",
				Priority:        1,
				IsActive:        true,
			})
		}
	}
	if len(deps) > 0 {
		if err := st.db.Create(&deps).Error; err != nil {
			return len(assets), 0, fmt.Errorf("seeding dependencies: %w", err)
		}
		ch.InvalidateAllChains(context.Background())
	}

	return len(assets), len(deps), nil
}
