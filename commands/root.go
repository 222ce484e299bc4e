package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penwyp/go-claude-backup/internal/backup"
	"github.com/penwyp/go-claude-backup/internal/core/title"
	"github.com/penwyp/go-claude-backup/internal/data/scanner"
	"github.com/penwyp/go-claude-backup/internal/presentation/display"
	"github.com/penwyp/go-claude-backup/internal/util"
)

var (
	// Logging related
	debug bool

	// Data paths
	sourceDir string
	outputDir string

	// Run mode
	incremental bool
	silent      bool

	// Conversion tuning
	timezone    string
	minFileSize int64
	titleLength int

	rootCmd = &cobra.Command{
		Use:   "go-claude-backup [flags]",
		Short: "Claude Code conversation backup tool",
		Long: `go-claude-backup converts Claude Code session history into readable
Markdown files, organized per project with index and summary documents.

Examples:
  go-claude-backup                          # Full backup with default paths
  go-claude-backup -i                       # Incremental (new sessions only)
  go-claude-backup --output ~/backup        # Custom output directory
  go-claude-backup --timezone Asia/Shanghai # Render timestamps in a timezone
  go-claude-backup watch                    # Keep the backup current
  go-claude-backup preview <session.jsonl>  # Render one session to the terminal`,
		RunE:          runBackup,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

const (
	defaultLogFile   = "~/.go-claude-backup/logs/app.log"
	defaultSourceDir = "~/.claude/projects"
	defaultOutputDir = "~/claude-backup"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&sourceDir, "dir", defaultSourceDir,
		"Claude project directory path")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", defaultOutputDir,
		"Backup output directory")
	rootCmd.PersistentFlags().BoolVarP(&silent, "silent", "s", false,
		"Suppress output messages")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for rendered timestamps (e.g., Asia/Shanghai, UTC)")
	rootCmd.PersistentFlags().Int64Var(&minFileSize, "min-size", scanner.DefaultMinFileSize,
		"Minimum session file size in bytes")
	rootCmd.PersistentFlags().IntVar(&titleLength, "title-length", title.DefaultMaxLength,
		"Maximum session title length")

	rootCmd.Flags().BoolVarP(&incremental, "incremental", "i", false,
		"Incremental backup (new sessions only)")

	viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))
	viper.BindPFlag("min_size", rootCmd.PersistentFlags().Lookup("min-size"))
	viper.BindPFlag("title_length", rootCmd.PersistentFlags().Lookup("title-length"))
}

func initConfig() {
	viper.SetConfigName("go-claude-backup")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "go-claude-backup"))
	}

	viper.SetEnvPrefix("GO_CLAUDE_BACKUP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		util.LogDebug("Using config file: " + viper.ConfigFileUsed())
	}
}

func runBackup(cmd *cobra.Command, args []string) error {
	config := newBackupConfig()
	setupRuntime(config.Timezone)

	console := display.NewConsole(config.Silent)
	mode := "full"
	if config.Incremental {
		mode = "incremental"
	}
	console.PrintStart(mode, config.SourceDir, config.OutputDir)

	result, err := backup.New(config).Run()
	if err != nil {
		return err
	}

	console.PrintProjectTable(result.PerProject)
	console.PrintResult(result.Processed, result.Skipped, result.Projects, config.OutputDir)
	return nil
}

// newBackupConfig merges flag, env, and config-file settings into a
// run configuration.
func newBackupConfig() *backup.Config {
	return &backup.Config{
		SourceDir:   expandPath(viper.GetString("dir")),
		OutputDir:   expandPath(viper.GetString("output")),
		Incremental: incremental,
		Silent:      silent,
		MinFileSize: viper.GetInt64("min_size"),
		TitleLength: viper.GetInt("title_length"),
		Timezone:    viper.GetString("timezone"),
	}
}

// setupRuntime initializes logging and the timezone provider.
func setupRuntime(tz string) {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)

	if err := util.InitializeTimeProvider(tz); err != nil {
		util.LogWarn(err.Error())
	}
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
