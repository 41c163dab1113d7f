package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RevCBH/revwatch/internal/config"
	"github.com/RevCBH/revwatch/internal/logging"
)

// VersionInfo holds build-time version details
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Persistent flags
	repoRoot   string
	configPath string
	logLevel   string
	verbose    bool

	// wire assembles the runtime; replaced in tests
	wire func(cfg *config.Config, log *zap.Logger) (*Runtime, error)

	// Version information
	versionInfo VersionInfo
}

// New creates a new CLI application
func New() *App {
	app := &App{
		wire: Wire,
	}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.versionInfo = VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "revwatch",
		Short: "Pull request review aging and escalation",
		Long: `revwatch classifies the review state of open pull requests, tracks how
long they have waited, and escalates notification severity as they age
without reaching the required approvals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := a.rootCmd.PersistentFlags()
	flags.StringVar(&a.repoRoot, "repo", ".", "Repository root used for config lookup and remote detection")
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default <repo>/"+config.FileName+")")
	flags.StringVar(&a.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output (same as --log-level debug)")

	a.rootCmd.AddCommand(
		NewEvaluateCmd(a),
		NewSweepCmd(a),
		NewServeCmd(a),
		NewDiffstatCmd(a),
		NewVersionCmd(a),
	)
}

// loadRuntime loads configuration, builds the logger and wires components
func (a *App) loadRuntime() (*Runtime, error) {
	cfg, err := config.LoadConfig(a.repoRoot, a.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.verbose {
		level = "debug"
	}
	log, err := logging.New(level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	rt, err := a.wire(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return rt, nil
}
