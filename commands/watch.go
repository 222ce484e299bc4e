package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-backup/internal/backup"
	"github.com/penwyp/go-claude-backup/internal/presentation/display"
	"github.com/penwyp/go-claude-backup/internal/util"
)

// debounceDelay batches bursts of file events into one run.
const debounceDelay = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the backup current as sessions change",
	Long: `watch runs an initial incremental backup, then watches the Claude
project directory and re-runs an incremental backup whenever session
files change. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	config := newBackupConfig()
	config.Incremental = true
	setupRuntime(config.Timezone)

	console := display.NewConsole(config.Silent)

	runOnce := func() {
		result, err := backup.New(config).Run()
		if err != nil {
			console.Errorf("Error: %v\n", err)
			util.LogError("Backup run failed: " + err.Error())
			return
		}
		if result.Processed > 0 {
			console.Printf("Converted %d new session(s)\n", result.Processed)
		}
	}

	console.PrintStart("incremental", config.SourceDir, config.OutputDir)
	runOnce()

	watcher, err := backup.NewSourceWatcher(config.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", config.SourceDir, err)
	}
	defer watcher.Close()

	console.Printf("Watching %s for changes...\n", config.SourceDir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var pending *time.Timer
	runs := make(chan struct{}, 1)

	for {
		select {
		case event := <-watcher.Events():
			util.LogDebug(fmt.Sprintf("Session change: %s (%s)", event.Path, event.Operation))
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounceDelay, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})
		case <-runs:
			runOnce()
		case <-stop:
			console.Printf("\nStopping watch\n")
			return nil
		}
	}
}
