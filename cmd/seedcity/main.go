// Command seedcity generates a synthetic city of assets and power
// dependencies for local development and demos, so a UI can be driven
// against a populated store without a hand-authored CSV of real assets.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/cache"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/config"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/database"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/store"
)

func main() {
	city := flag.String("city", "", "city name, used as the asset ID prefix")
	minLat := flag.Float64("min-lat", 0, "bounding box minimum latitude")
	maxLat := flag.Float64("max-lat", 0, "bounding box maximum latitude")
	minLng := flag.Float64("min-lng", 0, "bounding box minimum longitude")
	maxLng := flag.Float64("max-lng", 0, "bounding box maximum longitude")
	seed := flag.Int64("seed", 1, "PRNG seed, for reproducible layouts")
	mixFlag := flag.String("mix", "", "comma-separated sector:subtype:count triples, e.g. electricity:substation:4,water:pump_station:3")
	flag.Parse()

	if *city == "" || *mixFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: seedcity -city name -min-lat .. -max-lat .. -min-lng .. -max-lng .. -mix sector:subtype:count,...")
		os.Exit(2)
	}

	mix, err := parseMix(*mixFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parsing -mix: %v\n", err)
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Get()

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to store: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	gormStore := store.NewGormStore(pool.GetDB())
	if err := gormStore.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "migrating store: %v\n", err)
		os.Exit(1)
	}

	chainCache := cache.New(cfg.GetRedisAddr(), cfg.RedisDB)
	if chainCache != nil {
		defer chainCache.Close()
	}

	box := store.BoundingBox{MinLat: *minLat, MaxLat: *maxLat, MinLng: *minLng, MaxLng: *maxLng}
	assets, deps, err := store.SeedCity(gormStore, *city, box, mix, *seed, chainCache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seeding %s: %v\n", *city, err)
		os.Exit(1)
	}

	fmt.Printf("seeded %s: %d assets, %d power dependencies\n", *city, assets, deps)
}

// parseMix turns "electricity:substation:4,water:pump_station:3" into
// the SectorMix slice SeedCity expects.
func parseMix(raw string) ([]store.SectorMix, error) {
	var out []store.SectorMix
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%q: want sector:subtype:count", part)
		}
		count, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("%q: bad count: %w", part, err)
		}
		out = append(out, store.SectorMix{
			Sector:  model.Sector(strings.TrimSpace(fields[0])),
			Subtype: strings.TrimSpace(fields[1]),
			Count:   count,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sector:subtype:count triples found")
	}
	return out, nil
}
