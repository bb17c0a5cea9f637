// Package capture persists oscilloscope and logic analyzer captures and
// exports them for analysis.
package capture

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

// ErrNotFound is returned when no capture matches an ID.
var ErrNotFound = errors.New("capture not found")

// ErrAmbiguous is returned by Lookup when a prefix matches several captures.
var ErrAmbiguous = errors.New("capture ID prefix is ambiguous")

// Kind says which instrument produced a capture.
type Kind string

const (
	KindScope Kind = "scope"
	KindLogic Kind = "logic"
)

// Record is a stored capture. Exactly one of Scope and Logic is set,
// matching Kind.
type Record struct {
	ID        uuid.UUID
	Kind      Kind
	Device    string
	Label     string
	CreatedAt time.Time
	Scope     *dwf.Capture
	Logic     *dwf.LogicCapture
	// Lines is the number of DIO lines in a logic capture.
	Lines int
}

// NewScopeRecord wraps an oscilloscope capture for saving.
func NewScopeRecord(device, label string, c *dwf.Capture) *Record {
	return &Record{Kind: KindScope, Device: device, Label: label, Scope: c}
}

// NewLogicRecord wraps a logic analyzer capture of lines DIO lines.
func NewLogicRecord(device, label string, c *dwf.LogicCapture, lines int) *Record {
	return &Record{Kind: KindLogic, Device: device, Label: label, Logic: c, Lines: lines}
}

// Rate returns the sample rate of the capture.
func (r *Record) Rate() units.Frequency {
	switch {
	case r.Scope != nil:
		return r.Scope.Rate
	case r.Logic != nil:
		return r.Logic.Rate
	}
	return 0
}

// Samples returns the number of samples per channel.
func (r *Record) Samples() int {
	switch {
	case r.Scope != nil:
		return r.Scope.Len()
	case r.Logic != nil:
		return len(r.Logic.Samples)
	}
	return 0
}

// Channels returns the number of analog channels or DIO lines.
func (r *Record) Channels() int {
	switch {
	case r.Scope != nil:
		return len(r.Scope.Channels)
	case r.Logic != nil:
		return r.Lines
	}
	return 0
}

func (r *Record) validate() error {
	switch r.Kind {
	case KindScope:
		if r.Scope == nil || r.Logic != nil {
			return fmt.Errorf("scope record must carry only scope data")
		}
	case KindLogic:
		if r.Logic == nil || r.Scope != nil {
			return fmt.Errorf("logic record must carry only logic data")
		}
		if r.Lines < 1 || r.Lines > 32 {
			return fmt.Errorf("logic record has %d lines, want 1..32", r.Lines)
		}
	default:
		return fmt.Errorf("unknown capture kind %q", r.Kind)
	}
	return nil
}

// Summary describes a stored capture without its samples.
type Summary struct {
	ID        uuid.UUID
	Kind      Kind
	Device    string
	Label     string
	CreatedAt time.Time
	Rate      units.Frequency
	Samples   int
	Channels  int
}

// Store keeps captures in a SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS captures (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	device TEXT NOT NULL DEFAULT '',
	label TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	rate REAL NOT NULL,
	samples INTEGER NOT NULL,
	channels INTEGER NOT NULL,
	data BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_captures_created ON captures(created_at);
`

// Open opens or creates the store at path. The path ":memory:" gives a
// private in-memory store.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	// one connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores r, assigning a new ID and creation time when they are unset.
func (s *Store) Save(ctx context.Context, r *Record) error {
	if err := r.validate(); err != nil {
		return err
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	var payload any = r.Scope
	if r.Kind == KindLogic {
		payload = r.Logic
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode capture: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO captures (id, kind, device, label, created_at, rate, samples, channels, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), string(r.Kind), r.Device, r.Label, r.CreatedAt.UnixNano(),
		r.Rate().Hertz(), r.Samples(), r.Channels(), data)
	if err != nil {
		return fmt.Errorf("failed to save capture %s: %w", r.ID, err)
	}
	return nil
}

// Get loads the capture with the given ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	var (
		r       Record
		kind    string
		created int64
		data    []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT kind, device, label, created_at, channels, data FROM captures WHERE id = ?`,
		id.String()).Scan(&kind, &r.Device, &r.Label, &created, &r.Lines, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load capture %s: %w", id, err)
	}

	r.ID = id
	r.Kind = Kind(kind)
	r.CreatedAt = time.Unix(0, created)
	switch r.Kind {
	case KindScope:
		r.Scope = new(dwf.Capture)
		err = json.Unmarshal(data, r.Scope)
		r.Lines = 0
	case KindLogic:
		r.Logic = new(dwf.LogicCapture)
		err = json.Unmarshal(data, r.Logic)
	default:
		err = fmt.Errorf("unknown capture kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode capture %s: %w", id, err)
	}
	return &r, nil
}

// List returns summaries of all captures, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, device, label, created_at, rate, samples, channels
		 FROM captures ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list captures: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			id      string
			kind    string
			created int64
			rate    float64
		)
		if err := rows.Scan(&id, &kind, &sum.Device, &sum.Label, &created, &rate, &sum.Samples, &sum.Channels); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		if sum.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt capture id %q: %w", id, err)
		}
		sum.Kind = Kind(kind)
		sum.CreatedAt = time.Unix(0, created)
		sum.Rate = units.Hertz(rate)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Lookup resolves a full ID or a unique ID prefix.
func (s *Store) Lookup(ctx context.Context, prefix string) (uuid.UUID, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if id, err := uuid.Parse(prefix); err == nil {
		return id, nil
	}
	if prefix == "" || strings.ContainsAny(prefix, "%_") {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrNotFound, prefix)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM captures WHERE id LIKE ? LIMIT 2`, prefix+"%")
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up capture: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, err
	}
	switch len(ids) {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %q", ErrNotFound, prefix)
	case 1:
		return uuid.Parse(ids[0])
	default:
		return uuid.Nil, fmt.Errorf("%w: %q", ErrAmbiguous, prefix)
	}
}

// Delete removes the capture with the given ID.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM captures WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete capture %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
