package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var postgresDefaults = map[string]string{
	"sslmode":          "disable",
	"connect_timeout":  "10",
	"application_name": "reelhub",
}

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := buildPostgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

func buildPostgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("postgres configuration requires user and database name")
	}

	params := []string{
		fmt.Sprintf("host=%s", valueOr(cfg.Host, "localhost")),
		fmt.Sprintf("port=%d", portOr(cfg.Port, 5432)),
		fmt.Sprintf("user=%s", cfg.User),
		fmt.Sprintf("dbname=%s", cfg.Name),
	}
	if cfg.Password != "" {
		params = append(params, fmt.Sprintf("password=%s", cfg.Password))
	}

	for _, kv := range mergeOptions(postgresDefaults, cfg.Options) {
		params = append(params, kv[0]+"="+kv[1])
	}

	return strings.Join(params, " "), nil
}
