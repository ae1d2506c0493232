package app

import (
	"strings"

	"github.com/reelhub/reelhub/internal/database"
)

// ConnectionConfig converts DatabaseConfig into database.Config, normalising the driver name.
func (c DatabaseConfig) ConnectionConfig() database.Config {
	cfg := database.Config{
		Driver:          strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:            strings.TrimSpace(c.Path),
		DSN:             strings.TrimSpace(c.DSN),
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}

	switch cfg.Driver {
	case "", "sqlite":
		cfg.Driver = "sqlite"
	case "postgres", "postgresql", "mysql":
		if cfg.Driver == "postgresql" {
			cfg.Driver = "postgres"
		}
		cfg.Host = strings.TrimSpace(c.Host)
		cfg.Port = c.Port
		cfg.Name = strings.TrimSpace(c.Name)
		cfg.User = strings.TrimSpace(c.User)
		cfg.Password = c.Password
		cfg.Options = c.Options
	default:
		// unsupported drivers surface during database.Open
	}

	return cfg
}
