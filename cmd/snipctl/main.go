// main.go - Admin control tool for Snippetly
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"snippetly/internal"
	"snippetly/internal/config"
	"snippetly/internal/jobs"
	"snippetly/internal/previews"
	"snippetly/internal/storage"
)

const (
	defaultShutdownTimeout = 30 * time.Second
)

// Command defines the interface for all command implementations
type Command interface {
	// Name returns the command name
	Name() string
	// Description returns the command description
	Description() string
	// Execute runs the command with the given app and args
	Execute(ctx context.Context, app *internal.Application, args []string) error
}

// The set of available commands
var commands = []Command{
	&StatusCommand{},
	&StatsCommand{},
	&PurgeExpiredCommand{},
	&MigrateCommand{},
	&HelpCommand{},
}

// auditLogger records every admin command to a rotated file, separate
// from the application's own logs.
func auditLogger(cfg *config.Config) *logrus.Logger {
	audit := logrus.New()
	audit.SetFormatter(&logrus.JSONFormatter{})
	audit.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogsDirectory, "snipctl-audit.log"),
		MaxSize:    cfg.LogsMaxSizeInMb,
		MaxBackups: cfg.LogsMaxBackups,
		MaxAge:     cfg.LogsMaxAgeInDays,
	})
	return audit
}

func main() {
	flag.Parse()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v, initiating cleanup...", sig)
		cancel()
	}()

	cmdName, args := parseArgs()

	cmd := findCommand(cmdName)
	if cmd == nil {
		showUsageAndExit()
	}

	app, err := internal.NewApp()
	if err != nil {
		log.Printf("Warning: Failed to initialize app: %v", err)
		log.Println("Proceeding with limited functionality...")
	}

	defer func() {
		if app != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
			defer cancel()
			if err := app.Shutdown(shutdownCtx); err != nil {
				log.Printf("Warning: Cleanup error: %v", err)
			}
		}
	}()

	audit := auditLogger(config.GetConfig())
	audit.WithFields(logrus.Fields{
		"command": cmd.Name(),
		"args":    args,
	}).Info("admin command invoked")

	if err := cmd.Execute(ctx, app, args); err != nil {
		audit.WithFields(logrus.Fields{
			"command": cmd.Name(),
			"error":   err.Error(),
		}).Error("admin command failed")
		log.Fatalf("Command failed: %v", err)
	}

	audit.WithField("command", cmd.Name()).Info("admin command completed")
	log.Printf("Command %s completed successfully", cmd.Name())
}

// StatusCommand implements a command to check the system status
type StatusCommand struct{}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Description() string { return "Shows the current system status" }

func (c *StatusCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	if app == nil {
		return fmt.Errorf("cannot check status: app initialization failed")
	}

	db := app.DBManager.GetConnection()

	var total int64
	if err := db.Model(&storage.Entry{}).Count(&total).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	var expired int64
	if err := db.Model(&storage.Entry{}).
		Where("expires_at < ?", time.Now().UTC()).
		Count(&expired).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	log.Println("System Status:")
	log.Println("- Database: Connected")
	log.Printf("- Stored previews: %d", total)
	log.Printf("- Expired (awaiting sweep): %d", expired)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB: %w", err)
	}

	log.Printf("- Max Open Connections: %d", sqlDB.Stats().MaxOpenConnections)
	log.Printf("- Open Connections: %d", sqlDB.Stats().OpenConnections)

	return nil
}

// StatsCommand prints the stored stats of one preview
type StatsCommand struct{}

func (c *StatsCommand) Name() string        { return "stats" }
func (c *StatsCommand) Description() string { return "Prints the stats of a preview: stats <id>" }

func (c *StatsCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s <preview-id>", c.Name())
	}
	if app == nil {
		return fmt.Errorf("app initialization failed, cannot read store")
	}

	cfg := config.GetConfig()
	store := storage.NewFromConfig(cfg, app.DBManager.GetConnection(), slog.Default())

	raw, err := store.Get(ctx, args[0])
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("preview %s not found", args[0])
		}
		return err
	}

	rec, err := previews.DecodeRecord(raw)
	if err != nil {
		return fmt.Errorf("stored value is not a valid preview envelope: %w", err)
	}

	out, err := json.MarshalIndent(map[string]any{
		"previewId":  args[0],
		"fileType":   rec.FileType,
		"uploadTime": rec.UploadTime,
		"size":       rec.OriginalSize,
		"stats":      rec.Stats,
	}, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}

// PurgeExpiredCommand removes expired preview rows immediately
type PurgeExpiredCommand struct{}

func (c *PurgeExpiredCommand) Name() string { return "purge-expired" }
func (c *PurgeExpiredCommand) Description() string {
	return "Hard-deletes expired previews without waiting for the sweep job"
}

func (c *PurgeExpiredCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	if app == nil {
		return fmt.Errorf("app initialization failed, cannot purge")
	}

	cfg := config.GetConfig()
	if cfg.StorageDriver != config.SQLiteStorage {
		return fmt.Errorf("purge-expired only applies to the sqlite driver; %s expires keys natively", cfg.StorageDriver)
	}

	sweeper := jobs.NewSweeperJob(app.DBManager, slog.Default())
	if err := sweeper.Run(); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	return nil
}

// MigrateCommand runs database migrations
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string        { return "migrate" }
func (c *MigrateCommand) Description() string { return "Runs database migrations" }

func (c *MigrateCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	if app == nil {
		return fmt.Errorf("app initialization failed, cannot run migrations")
	}

	log.Println("Running database migrations...")
	if err := app.DBManager.MigrateDatabase(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Migrations completed successfully")
	return nil
}

// HelpCommand implements a command to show usage information
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Shows usage information" }

func (c *HelpCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	fmt.Println("Usage: snipctl [command] [args...]")
	fmt.Println("Available commands:")

	for _, cmd := range commands {
		fmt.Printf("  %s: %s\n", cmd.Name(), cmd.Description())
	}

	return nil
}

// Helper functions

// parseArgs parses the command name and arguments
func parseArgs() (string, []string) {
	args := os.Args[1:]
	if len(args) == 0 {
		return "help", []string{}
	}
	return args[0], args[1:]
}

// findCommand finds a command by name
func findCommand(name string) Command {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

// showUsageAndExit shows usage information and exits
func showUsageAndExit() {
	fmt.Println("Usage: snipctl [command] [args...]")
	fmt.Println("Available commands:")

	for _, cmd := range commands {
		fmt.Printf("  %s: %s\n", cmd.Name(), cmd.Description())
	}

	os.Exit(1)
}
