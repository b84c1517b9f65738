package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"fleet-assignment-service/internal/platform/logging"
)

// Config carries everything the scheduler batch needs to run.
type Config struct {
	DatabaseURL string         `json:"database_url"`
	RedisAddr   string         `json:"redis_addr"`
	ORSAPIKey   string         `json:"ors_api_key"`
	Depot       DepotConfig    `json:"depot"`
	Planning    PlanningConfig `json:"planning"`
	Logging     logging.Config `json:"logging"`
	SeedPath    string         `json:"seed_path"`
}

type DepotConfig struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type PlanningConfig struct {
	Days                int     `json:"days"`
	TargetWeightKg      float64 `json:"target_weight_kg"`
	MaxRegionDistanceKm float64 `json:"max_region_distance_km"`
}

// Load reads a YAML config file and applies FLEET_-prefixed environment
// overrides (FLEET_DATABASE_URL, FLEET_PLANNING__DAYS, ...).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("FLEET_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fleet_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load config env overrides: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Planning.Days == 0 {
		cfg.Planning.Days = 3
	}
	if cfg.Planning.TargetWeightKg == 0 {
		cfg.Planning.TargetWeightKg = 2500
	}
	if cfg.Planning.MaxRegionDistanceKm == 0 {
		cfg.Planning.MaxRegionDistanceKm = 100
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: database_url is required")
	}

	return &cfg, nil
}
