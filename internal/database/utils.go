package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/careops/careops/config"
)

// PoolSettings sizes the *sql.DB connection pool
type PoolSettings struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// PoolSettingsFor returns smaller pools outside production so local
// Postgres instances are not exhausted by parallel test runs
func PoolSettingsFor(environment string) PoolSettings {
	switch environment {
	case "test", "development":
		return PoolSettings{MaxOpen: 10, MaxIdle: 5, MaxLifetime: 2 * time.Minute, MaxIdleTime: time.Minute}
	default:
		return PoolSettings{MaxOpen: 25, MaxIdle: 25, MaxLifetime: 20 * time.Minute, MaxIdleTime: 10 * time.Minute}
	}
}

// ConfigureConnectionPool applies the pool settings for environment to db
func ConfigureConnectionPool(db *sql.DB, environment string) {
	s := PoolSettingsFor(environment)
	db.SetMaxOpenConns(s.MaxOpen)
	db.SetMaxIdleConns(s.MaxIdle)
	db.SetConnMaxLifetime(s.MaxLifetime)
	db.SetConnMaxIdleTime(s.MaxIdleTime)
}

// GetSystemDSN returns the DSN for the application database
func GetSystemDSN(cfg *config.DatabaseConfig) string {
	return buildDSN(cfg, cfg.DBName)
}

// GetPostgresDSN returns the DSN of the server's maintenance database, used
// to create the application database on first start
func GetPostgresDSN(cfg *config.DatabaseConfig) string {
	return buildDSN(cfg, "postgres")
}

func buildDSN(cfg *config.DatabaseConfig, dbName string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + dbName,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// MaskPassword keeps the first and last character of a password for logs
func MaskPassword(password string) string {
	if len(password) == 0 {
		return ""
	}
	return fmt.Sprintf("%c...%c", password[0], password[len(password)-1])
}

// EnsureSystemDatabaseExists creates the application database if it doesn't exist
func EnsureSystemDatabaseExists(dsn string, dbName string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL server: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL server: %w", err)
	}

	return ensureDatabase(db, dbName)
}

func ensureDatabase(db *sql.DB, dbName string) error {
	var exists bool
	if err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		return nil
	}

	// CREATE DATABASE takes no bind parameters
	if _, err := db.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, strings.ReplaceAll(dbName, `"`, `""`))); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	return nil
}
