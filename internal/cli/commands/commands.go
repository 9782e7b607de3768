package commands

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"tfd/internal/cli"
	"tfd/internal/config"
	"tfd/internal/database"
	"tfd/internal/dispatch"
	"tfd/internal/execution"
	"tfd/internal/finder"
	"tfd/internal/mapping"
	"tfd/internal/runner"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	List    *ListCommand
	Mapping *MappingCommand
	Check   *CheckCommand
}

// NewCommands creates all commands sharing cfg
func NewCommands(cfg *config.Config) *Commands {
	return &Commands{
		Run:     NewRunCommand(cfg),
		List:    NewListCommand(cfg),
		Mapping: NewMappingCommand(cfg),
		Check:   NewCheckCommand(cfg),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Load .env and the environment once flags are parsed
	loadConfig := func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run [tokens...]",
		Short:   "Resolve test tokens and run them",
		Long:    "Resolve every token through the registered finders, then hand the tests to their runners",
		Args:    cobra.MinimumNArgs(1),
		RunE:    c.Run.Execute,
		PreRunE: loadConfig,
	}
	runCmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false, "Print commands instead of running them")
	runCmd.Flags().BoolVar(&flags.BestEffort, "best-effort", false, "Skip tokens no finder recognises instead of failing")
	runCmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Per-invocation timeout, e.g. 5m (0 disables it)")
	runCmd.Flags().BoolVarP(&flags.Inspect, "inspect", "i", false, "Open the invocation viewer when the run finishes")
	runCmd.Flags().StringArrayVarP(&flags.Args, "arg", "a", nil, "Extra runner arguments as key=value words, shell-quoted (repeatable)")
	addFinderFlags(runCmd, flags)
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list [tokens...]",
		Short:   "List the tests tokens resolve to",
		Long:    "Resolve tokens without running anything and print the tests, runners and build requirements",
		Args:    cobra.MinimumNArgs(1),
		RunE:    c.List.Execute,
		PreRunE: loadConfig,
	}
	listCmd.Flags().BoolVar(&flags.BestEffort, "best-effort", false, "Skip tokens no finder recognises instead of failing")
	addFinderFlags(listCmd, flags)
	rootCmd.AddCommand(listCmd)

	// Mapping command
	mappingCmd := &cobra.Command{
		Use:     "mapping [file]",
		Short:   "Print a test-mapping document",
		Long:    "Parse a test-mapping document and print the canonical form of every test per group",
		Args:    cobra.MaximumNArgs(1),
		RunE:    c.Mapping.Execute,
		PreRunE: loadConfig,
	}
	rootCmd.AddCommand(mappingCmd)

	// Check command
	checkCmd := &cobra.Command{
		Use:     "check",
		Short:   "Check the host environment of every runner",
		Long:    "Run the host environment check of every runner and list their build requirements",
		Args:    cobra.NoArgs,
		RunE:    c.Check.Execute,
		PreRunE: loadConfig,
	}
	checkCmd.Flags().BoolVar(&flags.CreateDatabases, "create-databases", false, "Create missing test databases first")
	checkCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log runner activity to stderr")
	rootCmd.AddCommand(checkCmd)
}

func addFinderFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test lookup should start")
	cmd.Flags().StringVarP(&flags.MappingFile, "mapping", "m", "", "Test-mapping document (default TEST_MAPPING in the project)")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log resolution and invocations to stderr")
}

// finderClasses returns the finder classes in lookup order. The mapping finder is
// only registered when the mapping document exists.
func finderClasses(cfg *config.Config) ([]finder.Class, error) {
	classes := []finder.Class{
		finder.ExampleClass,
		finder.PHPUnitClass(cfg.GetTestPath(), cfg.PathsToIgnore),
	}

	path := cfg.GetMappingPath()
	if _, err := os.Stat(path); err != nil {
		if cfg.Flags.MappingFile != "" {
			return nil, errors.Wrapf(err, "test mapping %s", path)
		}
		return classes, nil
	}
	doc, err := mapping.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return append(classes, finder.MappingClass(doc, cfg.MappingRunner)), nil
}

// runnerTable maps every runner tag to its runner
func runnerTable(cfg *config.Config) map[string]runner.Runner {
	var db *database.Manager
	if cfg.Database.Enabled {
		db = database.NewManager(cfg)
	}
	return map[string]runner.Runner{
		runner.ExampleRunnerName: runner.NewExampleTestRunner(),
		runner.PHPUnitRunnerName: runner.NewPHPUnitRunner(cfg, db),
	}
}

// executor runs commands in the project, or prints them on a dry run
func executor(cfg *config.Config, out io.Writer) execution.Executor {
	if cfg.Flags.DryRun {
		return execution.NewDryRunExecutor(out)
	}
	return execution.NewShellExecutor(cfg.ProjectPath, cfg.Timeout)
}

// logger writes to stderr with -v and discards everything otherwise
func logger(cfg *config.Config, errOut io.Writer) *log.Logger {
	if !cfg.Flags.Verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(errOut, "[tfd] ", log.Ltime)
}

// newDispatcher wires finders, runners and the executor for cmd
func newDispatcher(cmd *cobra.Command, cfg *config.Config, opts ...dispatch.Option) (*dispatch.Dispatcher, error) {
	classes, err := finderClasses(cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]dispatch.Option{dispatch.WithLogger(logger(cfg, cmd.ErrOrStderr()))}, opts...)
	if cfg.Flags.BestEffort {
		opts = append(opts, dispatch.WithBestEffort())
	}
	return dispatch.New(classes, runnerTable(cfg), executor(cfg, cmd.OutOrStdout()), opts...)
}
