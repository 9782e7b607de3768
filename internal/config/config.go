package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string
	MappingFile string

	// Runner tag for tests resolved from the mapping document
	MappingRunner string

	// Per-invocation timeout, zero for none
	Timeout time.Duration

	// PHPUnit binary, empty for the project's vendor/bin/phpunit
	PHPUnitPath string

	// Paths to ignore when finders search the test path
	PathsToIgnore []string

	Database DatabaseConfig

	// Command flags
	Flags Flags
}

// DatabaseConfig locates the MySQL server hosting test databases.
// Enabled is set when DB_HOST is configured.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Prefix   string
}

// Flags holds command-line flags
type Flags struct {
	TestPath        string
	MappingFile     string
	DryRun          bool
	BestEffort      bool
	Inspect         bool
	Verbose         bool
	CreateDatabases bool
	Timeout         time.Duration
	Args            []string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:   DefaultProjectPath,
		TestPath:      DefaultTestPath,
		MappingFile:   DefaultMappingFile,
		MappingRunner: DefaultMappingRunner,
		Timeout:       DefaultTimeout,
		Database: DatabaseConfig{
			Host:   DefaultDatabaseHost,
			Port:   DefaultDatabasePort,
			User:   DefaultDatabaseUser,
			Prefix: DefaultDatabasePrefix,
		},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config from the project's .env file, the environment and flags.
// Flags win over the environment, which wins over .env.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if project := os.Getenv("TFD_PROJECT_PATH"); project != "" {
		cfg.ProjectPath = project
	}

	// godotenv never overrides variables already set in the environment
	envPath := filepath.Join(cfg.ProjectPath, EnvFile)
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "load %s", envPath)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.TestPath, "TFD_TEST_PATH")
	setString(&c.MappingFile, "TFD_MAPPING_FILE")
	setString(&c.MappingRunner, "TFD_MAPPING_RUNNER")
	setString(&c.PHPUnitPath, "TFD_PHPUNIT")
	if v := os.Getenv("TFD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "parse TFD_TIMEOUT")
		}
		c.Timeout = d
	}
	if v := os.Getenv("TFD_IGNORE"); v != "" {
		c.PathsToIgnore = strings.Split(v, ",")
	}

	if os.Getenv("DB_HOST") != "" {
		c.Database.Enabled = true
	}
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USERNAME")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Prefix, "DB_DATABASE_PREFIX")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ApplyFlags stores flags and applies their overrides
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	return c.resolve(c.Flags.TestPath, c.TestPath)
}

// GetMappingPath returns the test-mapping document path, using flag if provided
func (c *Config) GetMappingPath() string {
	return c.resolve(c.Flags.MappingFile, c.MappingFile)
}

// resolve makes override or fallback relative to the project unless absolute
func (c *Config) resolve(override, fallback string) string {
	p := fallback
	if override != "" {
		p = override
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectPath, p)
}

// GetPHPUnitPath returns the path to PHPUnit binary
func (c *Config) GetPHPUnitPath() string {
	if c.PHPUnitPath != "" {
		return c.PHPUnitPath
	}
	return filepath.Join(c.ProjectPath, "vendor", "bin", "phpunit")
}

// GetDatabaseName returns the database name for a worker
func (c *Config) GetDatabaseName(workerID int) string {
	return fmt.Sprintf("%s_%d", c.Database.Prefix, workerID)
}

// ExtraArgs parses the --arg flags. Each flag holds one or more shell words of the form
// key=value; quoting keeps spaces in a value. A bare key maps to an empty value.
func (c *Config) ExtraArgs() (map[string]string, error) {
	args := make(map[string]string, len(c.Flags.Args))
	for _, a := range c.Flags.Args {
		words, err := shellquote.Split(a)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid argument %q", a)
		}
		for _, w := range words {
			k, v, _ := strings.Cut(w, "=")
			if k == "" {
				return nil, errors.Errorf("invalid argument %q: expected key=value", a)
			}
			args[k] = v
		}
	}
	return args, nil
}
