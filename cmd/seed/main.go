// Command seed loads boats and slips from a YAML file into the configured
// store. Slips may name a boat to moor there once both are created:
//
//	boats:
//	  - name: Orca
//	    type: Sailboat
//	    length: 30
//	slips:
//	  - number: 1
//	    boat: Orca
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/zeroshade/marinaapi/internal/config"
	"github.com/zeroshade/marinaapi/internal/logging"
	"github.com/zeroshade/marinaapi/internal/store"
	"github.com/zeroshade/marinaapi/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Boats []struct {
		Name   string  `yaml:"name"`
		Type   string  `yaml:"type"`
		Length float64 `yaml:"length"`
	} `yaml:"boats"`
	Slips []struct {
		Number int    `yaml:"number"`
		Boat   string `yaml:"boat"`
	} `yaml:"slips"`
}

func readSeed(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

func seed(ctx context.Context, repo store.Repository, f *seedFile, logger *zap.Logger) error {
	byName := make(map[string]int64, len(f.Boats))
	for _, b := range f.Boats {
		boat := types.Boat{Name: b.Name, Type: b.Type, Length: b.Length}
		if err := repo.CreateBoat(ctx, &boat); err != nil {
			return err
		}
		byName[b.Name] = boat.ID
		logger.Info("boat created", zap.Int64("id", boat.ID), zap.String("name", boat.Name))
	}

	for _, s := range f.Slips {
		slip := types.Slip{Number: s.Number}
		if err := repo.CreateSlip(ctx, &slip); err != nil {
			return err
		}
		logger.Info("slip created", zap.Int64("id", slip.ID), zap.Int("number", slip.Number))

		if s.Boat == "" {
			continue
		}
		boatID, ok := byName[s.Boat]
		if !ok {
			return fmt.Errorf("slip %d: unknown boat %q", s.Number, s.Boat)
		}
		if err := repo.AssignSlip(ctx, slip.ID, boatID); err != nil {
			return fmt.Errorf("slip %d: assign %q: %w", s.Number, s.Boat, err)
		}
	}
	return nil
}

func main() {
	path := flag.String("file", "seed.yaml", "YAML file with boats and slips")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Fatal("config", zap.Error(err))
	}
	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	if cfg.StoreDriver == config.DriverMemory {
		logger.Warn("seeding the memory store is lost on exit; set $STORE_DRIVER")
	}

	f, err := readSeed(*path)
	if err != nil {
		logger.Fatal("read seed", zap.Error(err))
	}

	ctx := context.Background()
	repo, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer repo.Close()

	if err := seed(ctx, repo, f, logger); err != nil {
		logger.Fatal("seed", zap.Error(err))
	}
}
