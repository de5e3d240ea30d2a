// Command importrules loads a rule CSV (spec §6) into the store, upserting
// templates by template_id and rules by rule_id.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/config"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/database"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/store"
)

func main() {
	csvPath := flag.String("file", "", "path to a rule csv file")
	flag.Parse()
	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "usage: importrules -file rules.csv")
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

	f, err := os.Open(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening %s: %v\n", *csvPath, err)
		os.Exit(1)
	}
	defer f.Close()

	result, err := store.ImportRulesCSV(gormStore, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "importing %s: %v\n", *csvPath, err)
		os.Exit(1)
	}

	fmt.Printf("imported %s: %d templates upserted, %d rules upserted\n", *csvPath, result.TemplatesUpserted, result.RulesUpserted)
}
