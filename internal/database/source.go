// Package database reads schedules stored in the tool's SQLite database.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/arkilian/schedread/internal/datatype"
	"github.com/arkilian/schedread/internal/errors"
	"github.com/arkilian/schedread/internal/observability"
	"github.com/arkilian/schedread/internal/row"
)

// Magic is the header every SQLite database file starts with.
const Magic = "SQLite format 3\x00"

// Project is one project stored in a database.
type Project struct {
	ID   int
	Name string
}

// Source is a read-only row source over one database file. Rows are fetched
// once per table and cached for the life of the source.
type Source struct {
	db        *sql.DB
	path      string
	projectID int
	logger    *slog.Logger
	stats     *observability.ReadStats
	cache     map[string][]row.Row
}

// Option configures a Source.
type Option func(*Source)

// WithProject selects the project to read. Without it the project with the
// lowest id is read.
func WithProject(id int) Option {
	return func(s *Source) { s.projectID = id }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) { s.logger = logger }
}

// WithStats records fetched row counts into stats.
func WithStats(stats *observability.ReadStats) Option {
	return func(s *Source) { s.stats = stats }
}

// Open opens a database read-only. The caller must Close it.
func Open(ctx context.Context, path string, opts ...Option) (*Source, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to connect to database", err)
	}
	db.SetMaxOpenConns(1)

	s := &Source{
		db:     db,
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:  make(map[string][]row.Row),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.projectID == 0 {
		projects, err := s.ListProjects(ctx)
		if err != nil {
			db.Close()
			return nil, err
		}
		if len(projects) > 0 {
			s.projectID = projects[0].ID
		}
	}
	s.logger.Debug("database opened", "path", path, "project", s.projectID)
	return s, nil
}

// Close releases the database handle.
func (s *Source) Close() error {
	return s.db.Close()
}

// ProjectID returns the project being read.
func (s *Source) ProjectID() int {
	return s.projectID
}

// ListProjects returns every project in the database ordered by id.
func (s *Source) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, listProjectsSQL)
	if err != nil {
		return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to list projects", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var name sql.NullString
		if err := rows.Scan(&p.ID, &name); err != nil {
			return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to scan project", err)
		}
		p.Name = name.String
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewSourceError(errors.CodeAccessFailed, "error iterating projects", err)
	}
	return projects, nil
}

// Rows returns the rows of a logical table. Unknown tables have no rows.
func (s *Source) Rows(ctx context.Context, table string) ([]row.Row, error) {
	if cached, ok := s.cache[table]; ok {
		return cached, nil
	}
	q, ok := queries[table]
	if !ok {
		return nil, nil
	}

	var args []any
	if q.scoped {
		args = append(args, s.projectID)
	}
	result, err := s.query(ctx, table, q.sql, args...)
	if err != nil {
		return nil, err
	}

	s.cache[table] = result
	s.stats.RecordRows(table, len(result))
	return result, nil
}

func (s *Source) query(ctx context.Context, table, query string, args ...any) ([]row.Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewSourceError(errors.CodeAccessFailed,
			fmt.Sprintf("failed to query %s", table), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to read columns", err)
	}

	var result []row.Row
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.NewSourceError(errors.CodeAccessFailed,
				fmt.Sprintf("failed to scan %s row", table), err)
		}
		r := row.NewMapRow(table)
		for i, name := range columns {
			name = strings.ToUpper(name)
			v, err := convert(name, values[i])
			if err != nil {
				return nil, errors.NewFieldDecodeError(table, name, fmt.Sprint(values[i]), columnType(name), err)
			}
			if v != nil {
				r.Set(name, v)
			}
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewSourceError(errors.CodeAccessFailed,
			fmt.Sprintf("error iterating %s rows", table), err)
	}
	return result, nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var timeLayouts = []string{"15:04:05.999999999", "15:04:05", "15:04"}

// convert normalizes a scanned value: text becomes string, date columns
// become UTC times and time-of-day columns are placed on the reference date.
func convert(column string, v any) (any, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if s, ok := v.(string); ok && s == "" && (timeColumns[column] || timestampColumns[column]) {
		return nil, nil
	}

	switch {
	case timeColumns[column]:
		switch x := v.(type) {
		case time.Time:
			return onReferenceDate(x), nil
		case string:
			t, err := parseLayouts(x, timeLayouts)
			if err != nil {
				return nil, err
			}
			return onReferenceDate(t), nil
		}
	case timestampColumns[column]:
		switch x := v.(type) {
		case time.Time:
			return x.UTC(), nil
		case string:
			return parseLayouts(x, timestampLayouts)
		}
	}
	return v, nil
}

func parseLayouts(value string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", value)
}

func onReferenceDate(t time.Time) time.Time {
	return datatype.ReferenceDate.Add(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second)
}

func columnType(column string) string {
	switch {
	case timeColumns[column]:
		return "TIME"
	case timestampColumns[column]:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}
