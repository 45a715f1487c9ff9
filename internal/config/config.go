// Package config loads runtime configuration: defaults, then an optional
// yaml file, then LOYALTY_-prefixed environment variables, each layer
// overriding the previous one.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const envPrefix = "LOYALTY_"

type Config struct {
	Server struct {
		Addr string `koanf:"addr"`
	} `koanf:"server"`

	Snapshot struct {
		// Storage selects the durable backend: "file" or "postgres".
		Storage string `koanf:"storage"`
		Path    string `koanf:"path"`
		DSN     string `koanf:"dsn"`
	} `koanf:"snapshot"`

	Auth struct {
		Secret string        `koanf:"secret"`
		TTL    time.Duration `koanf:"ttl"`
	} `koanf:"auth"`

	// Points holds the loyalty arithmetic constants. egp is the currency
	// spend per earned point, discount the currency value of one redeemed
	// point, commission the platform's share of a voucher's discount.
	Points struct {
		EGP        float64 `koanf:"egp"`
		Discount   float64 `koanf:"discount"`
		Commission float64 `koanf:"commission"`
	} `koanf:"points"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.addr":       ":8080",
		"snapshot.storage":  "file",
		"snapshot.path":     "loyalty_data.json",
		"snapshot.dsn":      "",
		"auth.secret":       "",
		"auth.ttl":          72 * time.Hour,
		"points.egp":        100.0,
		"points.discount":   0.25,
		"points.commission": 0.40,
	}
}

// Load builds the config from defaults, the yaml file at path (ignored when
// absent) and the environment.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, errors.Wrap(err, "load defaults")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// a missing config file is fine; anything else is not
			if !strings.Contains(err.Error(), "no such file") {
				return Config{}, errors.Wrap(err, "load config file")
			}
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// LOYALTY_AUTH_SECRET -> auth.secret
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, "load environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return cfg, nil
}

// Rates extracts the point arithmetic constants in the shape the ledger
// expects.
func (c Config) Rates() (egp, discount, commission float64) {
	return c.Points.EGP, c.Points.Discount, c.Points.Commission
}
