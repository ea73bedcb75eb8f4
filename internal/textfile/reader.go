// Package textfile reads the line-oriented text export format.
//
// One stream carries many logical tables. Each line is a record: a version
// marker line selects the table layout for the rest of the stream, and every
// other record starts with a "#id:seq:type[:subtype]" header whose type code
// names the table the remaining tokens belong to.
package textfile

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/arkilian/schedread/internal/errors"
	"github.com/arkilian/schedread/internal/observability"
	"github.com/arkilian/schedread/internal/row"
	"github.com/arkilian/schedread/internal/schema"
)

// DefaultDelimiter separates tokens within a record.
const DefaultDelimiter = ','

// Reader tokenizes text exports into per-table rows.
type Reader struct {
	registry  *schema.Registry
	delimiter byte
	logger    *slog.Logger
	stats     *observability.ReadStats
}

// Option configures a Reader.
type Option func(*Reader)

// WithDelimiter overrides the token delimiter.
func WithDelimiter(d byte) Option {
	return func(r *Reader) { r.delimiter = d }
}

// WithLogger sets the logger used for skipped-record diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) { r.logger = logger }
}

// WithStats records row and skip counts into stats.
func WithStats(stats *observability.ReadStats) Option {
	return func(r *Reader) { r.stats = stats }
}

// NewReader creates a reader resolving table layouts from registry.
func NewReader(registry *schema.Registry, opts ...Option) *Reader {
	r := &Reader{
		registry:  registry,
		delimiter: DefaultDelimiter,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tables holds the rows of one text export grouped by table name.
type Tables struct {
	Format *schema.Format
	rows   map[string][]row.Row
}

// Rows returns the rows read for a table in stream order.
func (t *Tables) Rows(_ context.Context, table string) ([]row.Row, error) {
	return t.rows[table], nil
}

// Count returns the number of rows read for a table.
func (t *Tables) Count(table string) int {
	return len(t.rows[table])
}

// Read tokenizes the whole stream. It fails without returning any rows if the
// stream's format version is missing or unsupported, or if a token cannot be
// decoded as its column's declared type.
func (r *Reader) Read(in io.Reader) (*Tables, error) {
	tables := &Tables{rows: make(map[string][]row.Row)}
	br := bufio.NewReaderSize(in, 64*1024)

	lineNo := 0
	for {
		line, readErr := br.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			if err := r.readRecord(tables, strings.TrimRight(line, "\r\n"), lineNo); err != nil {
				return nil, err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to read text stream", readErr)
		}
	}
	if tables.Format == nil {
		return nil, errors.NewVersionMissing("stream has no version marker")
	}

	for name, rows := range tables.rows {
		r.stats.RecordRows(name, len(rows))
	}
	return tables, nil
}

func (r *Reader) readRecord(tables *Tables, line string, lineNo int) error {
	if line == "" {
		return nil
	}
	tokens := strings.Split(line, string(r.delimiter))
	first := tokens[0]
	if first == "" {
		return nil
	}

	switch first[0] {
	case 0:
		version, ok := firstDigitRun(first)
		if !ok {
			return errors.NewVersionMissing("version marker carries no version number")
		}
		format, err := r.registry.Lookup(version)
		if err != nil {
			return err
		}
		tables.Format = format
		r.logger.Debug("text format version selected",
			"version", version, "epoch_dates", format.EpochDates)
		return nil

	case '#':
		if tables.Format == nil {
			return errors.NewVersionMissing("record header before version marker")
		}
		header, ok := parseHeader(first)
		if !ok {
			r.logger.Debug("skipping record with malformed header", "line", lineNo, "header", first)
			r.stats.RecordSkip("record", "malformed_header")
			return nil
		}
		table, ok := tables.Format.Table(header.Type)
		if !ok {
			r.stats.RecordSkip("record", "unknown_table")
			return nil
		}

		data := joinQuoted(tokens[1:], r.delimiter)
		if 1+len(data) < 2 {
			r.stats.RecordSkip("record", "degenerate")
			return nil
		}

		rec, err := row.NewTextRow(table, header, data, tables.Format.EpochDates)
		if err != nil {
			return err
		}
		tables.rows[table.Name] = append(tables.rows[table.Name], rec)
		return nil

	default:
		return nil
	}
}

// parseHeader extracts up to four integers from "#id:seq:type[:subtype]".
// Digit runs are taken wherever they occur, so any non-digit separates them.
func parseHeader(token string) (row.Header, bool) {
	values := make([]int, 0, 4)
	for i := 1; i < len(token) && len(values) < 4; {
		if !isDigit(token[i]) {
			i++
			continue
		}
		j := i
		for j < len(token) && isDigit(token[j]) {
			j++
		}
		n, err := strconv.Atoi(token[i:j])
		if err != nil {
			return row.Header{}, false
		}
		values = append(values, n)
		i = j
	}
	if len(values) < 3 {
		return row.Header{}, false
	}

	h := row.Header{RecordID: values[0], Sequence: values[1], Type: values[2]}
	if len(values) == 4 {
		h.Subtype = values[3]
		h.HasSubtype = true
	}
	return h, true
}

// joinQuoted rejoins quoted values that contained the delimiter. A token
// opening with <" absorbs following tokens until one closes with ">.
func joinQuoted(tokens []string, delimiter byte) []string {
	out := make([]string, 0, len(tokens))
	var pending strings.Builder
	open := false

	for _, tok := range tokens {
		if open {
			pending.WriteByte(delimiter)
			pending.WriteString(tok)
			if strings.HasSuffix(tok, `">`) {
				out = append(out, pending.String())
				pending.Reset()
				open = false
			}
			continue
		}
		if strings.HasPrefix(tok, `<"`) && !strings.HasSuffix(tok, `">`) {
			pending.WriteString(tok)
			open = true
			continue
		}
		out = append(out, tok)
	}

	if open {
		out = append(out, pending.String())
	}
	return out
}

func firstDigitRun(token string) (int, bool) {
	start := strings.IndexFunc(token, func(c rune) bool { return c >= '0' && c <= '9' })
	if start == -1 {
		return 0, false
	}
	end := start
	for end < len(token) && isDigit(token[end]) {
		end++
	}
	n, err := strconv.Atoi(token[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
