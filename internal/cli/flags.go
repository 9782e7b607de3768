package cli

import (
	"time"

	"tfd/internal/config"
)

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		TestPath:        f.TestPath,
		MappingFile:     f.MappingFile,
		DryRun:          f.DryRun,
		BestEffort:      f.BestEffort,
		Inspect:         f.Inspect,
		Verbose:         f.Verbose,
		CreateDatabases: f.CreateDatabases,
		Timeout:         f.Timeout,
		Args:            append([]string(nil), f.Args...),
	}
}
