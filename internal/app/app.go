// Package app wires configuration, storage and the readers into a single
// schedule read.
package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/arkilian/schedread/internal/assembler"
	"github.com/arkilian/schedread/internal/config"
	"github.com/arkilian/schedread/internal/database"
	"github.com/arkilian/schedread/internal/errors"
	"github.com/arkilian/schedread/internal/input"
	"github.com/arkilian/schedread/internal/observability"
	"github.com/arkilian/schedread/internal/schema"
	"github.com/arkilian/schedread/internal/storage"
	"github.com/arkilian/schedread/internal/textfile"
	"github.com/arkilian/schedread/pkg/types"
)

// App reads schedules from the configured storage.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	storage storage.ObjectStorage
}

// Result is the outcome of one read.
type Result struct {
	Schedule *types.Schedule
	Stats    *observability.ReadStats
}

// New resolves and validates cfg, prepares the working directories and
// connects to storage. Logs are written to logW.
func New(ctx context.Context, cfg *config.Config, logW io.Writer) (*App, error) {
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format, logW)
	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("app configured", "storage", cfg.Storage.Type, "data_dir", cfg.DataDir)

	return &App{cfg: cfg, logger: logger, storage: store}, nil
}

// NewWithStorage creates an App over an existing store.
func NewWithStorage(cfg *config.Config, store storage.ObjectStorage, logW io.Writer) (*App, error) {
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return &App{
		cfg:     cfg,
		logger:  newLogger(cfg.Log.Level, cfg.Log.Format, logW),
		storage: store,
	}, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.ObjectStorage, error) {
	switch cfg.Storage.Type {
	case "s3":
		s3cfg := storage.DefaultS3Config()
		if cfg.Storage.S3.Region != "" {
			s3cfg.Region = cfg.Storage.S3.Region
		}
		s3cfg.Endpoint = cfg.Storage.S3.Endpoint
		s3cfg.UsePathStyle = cfg.Storage.S3.UsePathStyle
		store, err := storage.NewS3Storage(ctx, cfg.Storage.S3.Bucket, s3cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCategoryConfig, errors.CodeInvalidConfig, "failed to configure S3 storage", err)
		}
		return store, nil
	default:
		store, err := storage.NewLocalStorage(cfg.Storage.Path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCategoryConfig, errors.CodeInvalidConfig, "failed to configure local storage", err)
		}
		return store, nil
	}
}

// Read fetches objectPath and assembles the schedule it contains. Every
// handle and temporary file acquired along the way is released before
// Read returns.
func (a *App) Read(ctx context.Context, objectPath string) (*Result, error) {
	stats := observability.NewReadStats()
	logger := a.logger.With("input", objectPath)
	logger.Info("reading schedule")

	f, release, err := a.prepare(ctx, objectPath)
	if err != nil {
		return nil, err
	}
	defer release()

	src, props, closeSrc, err := a.open(ctx, f, logger, stats)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	schedule, err := assembler.New(assembler.WithLogger(logger), assembler.WithStats(stats)).Assemble(ctx, src)
	if err != nil {
		return nil, err
	}
	schedule.Properties.Format = props.Format
	schedule.Properties.ProjectID = props.ProjectID
	schedule.Properties.Fingerprint = f.Fingerprint

	logger.Info("schedule read",
		"format", props.Format,
		"compressed", f.Compressed,
		"fingerprint", fmt.Sprintf("%016x", f.Fingerprint))
	return &Result{Schedule: schedule, Stats: stats}, nil
}

// ListProjects returns the projects stored in a database input.
func (a *App) ListProjects(ctx context.Context, objectPath string) ([]database.Project, error) {
	f, release, err := a.prepare(ctx, objectPath)
	if err != nil {
		return nil, err
	}
	defer release()

	if f.Kind != input.KindDatabase {
		return nil, errors.New(errors.ErrCategoryFormat, errors.CodeUnknownInput,
			"input is not a database: "+objectPath)
	}
	db, err := database.Open(ctx, f.Path, database.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.ListProjects(ctx)
}

// ListInputs returns the object paths available under prefix.
func (a *App) ListInputs(ctx context.Context, prefix string) ([]string, error) {
	objects, err := a.storage.ListObjects(ctx, prefix)
	if err != nil {
		return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to list inputs", err)
	}
	return objects, nil
}

// prepare makes objectPath available as a local file and runs it through
// input.Prepare. The returned release func removes everything created.
func (a *App) prepare(ctx context.Context, objectPath string) (*input.File, func(), error) {
	local, cleanup, err := a.fetch(ctx, objectPath)
	if err != nil {
		return nil, nil, err
	}

	f, err := input.Prepare(local, a.cfg.WorkDir())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return f, func() {
		if err := f.Close(); err != nil {
			a.logger.Warn("failed to release input", "error", err)
		}
		cleanup()
	}, nil
}

func (a *App) fetch(ctx context.Context, objectPath string) (string, func(), error) {
	if loc, ok := a.storage.(storage.Locator); ok {
		return loc.Locate(objectPath), func() {}, nil
	}

	dir, err := os.MkdirTemp(a.cfg.WorkDir(), "download-*")
	if err != nil {
		return "", nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to create download directory", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	local := filepath.Join(dir, path.Base(objectPath))
	if err := a.storage.Download(ctx, objectPath, local); err != nil {
		cleanup()
		if stderrors.Is(err, storage.ErrObjectNotFound) {
			return "", nil, errors.NewSourceError(errors.CodeObjectNotFound, "input not found: "+objectPath, err)
		}
		return "", nil, errors.NewSourceError(errors.CodeDownloadFailed, "failed to download input", err)
	}
	a.logger.Debug("input downloaded", "object", objectPath, "path", local)
	return local, cleanup, nil
}

type sourceProps struct {
	Format    string
	ProjectID int
}

func (a *App) open(ctx context.Context, f *input.File, logger *slog.Logger, stats *observability.ReadStats) (assembler.RowSource, sourceProps, func(), error) {
	if f.Kind == input.KindDatabase {
		db, err := database.Open(ctx, f.Path,
			database.WithProject(a.cfg.Input.ProjectID),
			database.WithLogger(logger),
			database.WithStats(stats))
		if err != nil {
			return nil, sourceProps{}, nil, err
		}
		return db, sourceProps{Format: f.Kind.String(), ProjectID: db.ProjectID()}, func() { db.Close() }, nil
	}

	file, err := f.Open()
	if err != nil {
		return nil, sourceProps{}, nil, err
	}
	defer file.Close()

	reader := textfile.NewReader(schema.DefaultRegistry(),
		textfile.WithDelimiter(a.cfg.DelimiterByte()),
		textfile.WithLogger(logger),
		textfile.WithStats(stats))
	tables, err := reader.Read(file)
	if err != nil {
		return nil, sourceProps{}, nil, err
	}
	props := sourceProps{Format: fmt.Sprintf("%s/%d", f.Kind, tables.Format.Version)}
	return tables, props, func() {}, nil
}
