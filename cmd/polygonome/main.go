package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/polygonome/engine/internal/config"
	"github.com/polygonome/engine/internal/database"
	"github.com/polygonome/engine/internal/dispatcher"
	"github.com/polygonome/engine/internal/influx"
	"github.com/polygonome/engine/internal/logging"
	"github.com/polygonome/engine/internal/storage"
	"github.com/polygonome/engine/pkg/core"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Version can be set at build time via ldflags
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"

	AppName string = "polygonome"
)

var (
	SessionStartTime time.Time = time.Now()

	// LogManager handles all slog-based logging
	LogManager *logging.Manager

	// InfluxManager ships time-series points, nil when disabled
	InfluxManager *influx.Manager

	LogFile *os.File
)

// setup loads config and initializes logging. Called before any subcommand.
func setup() error {
	LogManager = logging.NewManager()

	if err := config.Load("."); err != nil {
		// Defaults still apply, run with them
		LogManager.Info("No config file found, using defaults", "error", err)
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	logPath := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	var err error
	LogFile, err = os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	graylogAddr := ""
	if viper.GetBool("graylog.enabled") {
		graylogAddr = viper.GetString("graylog.address")
	}
	if err := LogManager.Setup(LogFile, viper.GetString("logLevel"), graylogAddr); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	LogManager.Info("Logging to file", "path", logPath)

	return nil
}

// connectInflux brings up the InfluxDB manager when enabled in config.
func connectInflux() {
	if !viper.GetBool("influx.enabled") {
		return
	}

	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()
	backupPath := filepath.Join(viper.GetString("logsDir"), "influx_backup.gz")
	InfluxManager = influx.NewManager(zlog, backupPath)
	if err := InfluxManager.Connect(); err != nil {
		LogManager.Error("InfluxDB connection failed, metrics disabled", "error", err)
		InfluxManager = nil
	}
}

// buildDispatcher wires the storage and influx note handlers.
func buildDispatcher(backend storage.Backend, sessionName string) (*dispatcher.Dispatcher, error) {
	d, err := dispatcher.New(LogManager)
	if err != nil {
		return nil, err
	}

	d.Register("storage", 10, func(n core.NoteEvent) error {
		return backend.RecordNoteEvent(&n)
	}, dispatcher.Buffered(512), dispatcher.Blocking())

	if InfluxManager != nil {
		d.Register("influx", 20, func(n core.NoteEvent) error {
			point := influx.NotePoint(sessionName, &n)
			return InfluxManager.WritePoint(context.Background(), influx.BucketNoteEvents, point)
		}, dispatcher.Buffered(512))
	}

	return d, nil
}

// setupDatabase connects and migrates the configured database.
func setupDatabase() error {
	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()
	mgr := database.NewManager(zlog)
	if err := mgr.Connect(); err != nil {
		return err
	}
	return mgr.Setup()
}

func main() {
	if err := setup(); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer LogManager.Close()

	logger := LogManager.Logger()
	logger.Info("Starting up...", "version", Version, "buildDate", BuildDate)

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Println("usage: polygonome <play [seconds] | setupdb | version>")
		return
	}

	switch strings.ToLower(args[0]) {
	case "play":
		seconds := 10
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
				seconds = n
			}
		}
		connectInflux()
		if err := play(seconds); err != nil {
			logger.Error("Play failed", "error", err)
			os.Exit(1)
		}
		if InfluxManager != nil {
			InfluxManager.Close()
		}
	case "setupdb":
		if err := setupDatabase(); err != nil {
			logger.Error("DB setup failed", "error", err)
			os.Exit(1)
		}
		logger.Info("DB setup complete")
	case "version":
		fmt.Printf("%s %s (%s)\n", AppName, Version, BuildDate)
	default:
		fmt.Printf("unknown command: %s\n", args[0])
		os.Exit(1)
	}
}
