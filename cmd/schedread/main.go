// Package main implements the schedread command: it reads one project
// schedule file and prints a summary of the assembled model.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arkilian/schedread/internal/app"
	"github.com/arkilian/schedread/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile   string
		envFile      string
		dataDir      string
		inputPath    string
		storageType  string
		delimiter    string
		projectID    int
		listProjects bool
		listInputs   bool
		logLevel     string
		logFormat    string
		showVersion  bool
		showHelp     bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML, JSON or TOML)")
	flag.StringVar(&envFile, "env-file", "", "Path to a dotenv file loaded before the environment is read")
	flag.StringVar(&dataDir, "data-dir", "", "Base directory for temporary input copies")
	flag.StringVar(&inputPath, "input", "", "Schedule file: local path or storage object path")
	flag.StringVar(&storageType, "storage", "", "Storage type: local, s3")
	flag.StringVar(&delimiter, "delimiter", "", "Field delimiter for text exports")
	flag.IntVar(&projectID, "project", 0, "Project id to read from a multi-project database")
	flag.BoolVar(&listProjects, "list-projects", false, "List the projects in a database input and exit")
	flag.BoolVar(&listInputs, "list", false, "List the inputs under the -input prefix and exit")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&logFormat, "log-format", "", "Log format: text, json")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showHelp, "help", false, "Show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "schedread - read project schedule exports\n\n")
		fmt.Fprintf(os.Stderr, "Usage: schedread -input <file> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  schedread -input plans/bridge.txt\n")
		fmt.Fprintf(os.Stderr, "  schedread -input site.db -list-projects\n")
		fmt.Fprintf(os.Stderr, "  schedread -storage s3 -input exports/site.db.sz -project 5\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  SCHEDREAD_DATA_DIR      Base directory for temporary files\n")
		fmt.Fprintf(os.Stderr, "  SCHEDREAD_DELIMITER     Text export field delimiter\n")
		fmt.Fprintf(os.Stderr, "  SCHEDREAD_PROJECT_ID    Project id in multi-project databases\n")
		fmt.Fprintf(os.Stderr, "  SCHEDREAD_LOG_LEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  SCHEDREAD_STORAGE_TYPE  Storage type (local, s3)\n")
		fmt.Fprintf(os.Stderr, "  SCHEDREAD_S3_*          S3 bucket, region, endpoint, path style\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("schedread version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	if inputPath == "" && !listInputs {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(configFile, envFile, dataDir, storageType, delimiter, projectID, logLevel, logFormat)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	if err := run(ctx, application, inputPath, listInputs, listProjects); err != nil {
		stop()
		log.Fatalf("Read failed: %v", err)
	}
}

func run(ctx context.Context, a *app.App, inputPath string, listInputs, listProjects bool) error {
	switch {
	case listInputs:
		inputs, err := a.ListInputs(ctx, inputPath)
		if err != nil {
			return err
		}
		for _, in := range inputs {
			fmt.Println(in)
		}
		return nil

	case listProjects:
		projects, err := a.ListProjects(ctx, inputPath)
		if err != nil {
			return err
		}
		for _, p := range projects {
			fmt.Printf("%d\t%s\n", p.ID, p.Name)
		}
		return nil
	}

	res, err := a.Read(ctx, inputPath)
	if err != nil {
		return err
	}
	return app.WriteSummary(os.Stdout, res)
}

// loadConfig loads configuration from file, environment, and command line flags.
func loadConfig(configFile, envFile, dataDir, storageType, delimiter string, projectID int, logLevel, logFormat string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	// Start with defaults or load from file
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return nil, err
		}
	}
	config.LoadFromEnv(cfg)

	// Apply command line flags (highest priority)
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if storageType != "" {
		cfg.Storage.Type = storageType
	}
	if delimiter != "" {
		cfg.Input.Delimiter = delimiter
	}
	if projectID != 0 {
		cfg.Input.ProjectID = projectID
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	return cfg, nil
}
