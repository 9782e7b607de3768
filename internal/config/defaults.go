package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path, relative to the project
	DefaultTestPath = "tests"
	// DefaultMappingFile is the test-mapping document looked up in the project
	DefaultMappingFile = "TEST_MAPPING"
	// DefaultMappingRunner is the runner tag given to tests resolved from a mapping document
	DefaultMappingRunner = "ExampleTestRunner"
	// DefaultTimeout is the per-invocation timeout; zero disables it
	DefaultTimeout = 0 * time.Second
	// DefaultDatabasePrefix prefixes per-worker test database names
	DefaultDatabasePrefix = "testing"
	// DefaultDatabaseHost is used when DB_HOST is unset
	DefaultDatabaseHost = "127.0.0.1"
	// DefaultDatabasePort is used when DB_PORT is unset
	DefaultDatabasePort = "3306"
	// DefaultDatabaseUser is used when DB_USERNAME is unset
	DefaultDatabaseUser = "root"
	// EnvFile is read from the project directory before the environment
	EnvFile = ".env"
)

// DefaultPathsToIgnore are the directories never searched by finders
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"public",
	"storage",
	"bootstrap",
	"out",
}
