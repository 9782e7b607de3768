package database

import (
	"context"
	"database/sql"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"tfd/internal/config"
)

// Manager checks and creates the MySQL databases tests run against
type Manager struct {
	config *config.Config
	open   func(dsn string) (*sql.DB, error)
}

// NewManager creates a new Manager
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config: cfg,
		open:   func(dsn string) (*sql.DB, error) { return sql.Open("mysql", dsn) },
	}
}

// Enabled reports whether a database server is configured
func (m *Manager) Enabled() bool {
	return m.config.Database.Enabled
}

// DSN returns the server DSN, without a default database
func (m *Manager) DSN() string {
	db := m.config.Database
	c := mysql.NewConfig()
	c.User = db.User
	c.Passwd = db.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(db.Host, db.Port)
	return c.FormatDSN()
}

func (m *Manager) connect(ctx context.Context) (*sql.DB, error) {
	db, err := m.open(m.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "connect to database server")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database server")
	}
	return db, nil
}

// CheckDatabases verifies the server is reachable and the named databases exist.
// It returns the names that are missing.
func (m *Manager) CheckDatabases(ctx context.Context, names ...string) ([]string, error) {
	db, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var missing []string
	for _, name := range names {
		exists, err := databaseExists(ctx, db, name)
		if err != nil {
			return nil, errors.Wrapf(err, "check database %s", name)
		}
		if !exists {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// CreateDatabases creates the named databases that do not exist yet
func (m *Manager) CreateDatabases(ctx context.Context, names ...string) ([]string, error) {
	db, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var created []string
	for _, name := range names {
		exists, err := databaseExists(ctx, db, name)
		if err != nil {
			return created, errors.Wrapf(err, "check database %s", name)
		}
		if exists {
			continue
		}
		if err := createDatabase(ctx, db, name); err != nil {
			return created, errors.Wrapf(err, "create database %s", name)
		}
		created = append(created, name)
	}
	return created, nil
}

func databaseExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, name).Scan(&exists)
	return exists, err
}

func createDatabase(ctx context.Context, db *sql.DB, name string) error {
	if !IsValidDatabaseName(name) {
		return errors.Errorf("invalid database name: %s", name)
	}
	_, err := db.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS `"+name+"`")
	return err
}

// IsValidDatabaseName accepts 1-64 characters of letters, digits, '_' and '$'
func IsValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool {
		return !(r == '_' || r == '$' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) < 0
}
