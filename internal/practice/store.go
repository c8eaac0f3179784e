package practice

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/logging"
	"github.com/abhisek/methodo/internal/store"
)

// DefaultRecentLimit is used by GetRecent when limit <= 0.
const DefaultRecentLimit = 10

// Store is the practice history, persisted as one JSON array (newest first)
// under store.KeyPracticeHistory. Every mutation rewrites the whole array.
type Store struct {
	kv  store.KV
	log *logging.Logger

	// Now returns the current time. Stats uses its location for calendar days.
	Now func() time.Time
}

// NewStore creates a Store backed by kv.
func NewStore(kv store.KV, log *logging.Logger) *Store {
	return &Store{
		kv:  kv,
		log: logging.OrNop(log).With("component", "practice"),
		Now: time.Now,
	}
}

// GetAll returns every record, newest first. A corrupt blob is logged and
// yields an empty list.
func (s *Store) GetAll(ctx context.Context) ([]Record, error) {
	raw, ok, err := s.kv.Get(ctx, store.KeyPracticeHistory)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		perr := &ParseError{Key: store.KeyPracticeHistory, Err: err}
		s.log.Error("practice history unreadable, treating as empty", "error", perr)
		return []Record{}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Save prepends r to the history. Timestamps are not checked for duplicates.
func (s *Store) Save(ctx context.Context, r Record) error {
	records, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	records = append([]Record{r}, records...)
	if err := s.write(ctx, records); err != nil {
		return err
	}
	s.log.Info("practice saved", "methodology", r.Methodology, "timestamp", r.Timestamp)
	return nil
}

// GetByMethodology returns the records for one methodology, newest first.
func (s *Store) GetByMethodology(ctx context.Context, key catalog.Key) ([]Record, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []Record{}
	for _, r := range records {
		if r.Methodology == key {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetRecent returns the newest limit records. limit <= 0 means
// DefaultRecentLimit.
func (s *Store) GetRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Get returns the record with the exact timestamp.
func (s *Store) Get(ctx context.Context, timestamp string) (Record, bool, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return Record{}, false, err
	}
	for _, r := range records {
		if r.Timestamp == timestamp {
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

// Delete removes the record with the exact timestamp. Absent timestamps are
// a no-op.
func (s *Store) Delete(ctx context.Context, timestamp string) error {
	records, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Timestamp != timestamp {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	if err := s.write(ctx, kept); err != nil {
		return err
	}
	s.log.Info("practice deleted", "timestamp", timestamp)
	return nil
}

// Clear empties the history.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, store.KeyPracticeHistory); err != nil {
		return err
	}
	s.log.Info("practice history cleared")
	return nil
}

// Stats computes UserStats from the current history.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(records, s.Now()), nil
}

// ExportAll serializes the full history as indented JSON.
func (s *Store) ExportAll(ctx context.Context) (string, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal practice history: %w", err)
	}
	return string(data), nil
}

// ImportAll merges serialized records into the history. Imported records
// win over existing ones with the same timestamp. Payloads that are not a
// JSON array of objects fail with ErrImport.
func (s *Store) ImportAll(ctx context.Context, serialized string) error {
	imported, skipped, err := decodeImport(serialized)
	if err != nil {
		return err
	}
	if skipped > 0 {
		s.log.Warn("skipped undecodable import entries", "skipped", skipped)
	}
	existing, err := s.GetAll(ctx)
	if err != nil {
		return err
	}

	merged := dedupByTimestamp(append(imported, existing...))
	if err := s.write(ctx, merged); err != nil {
		return err
	}
	s.log.Info("practice history imported",
		"imported", len(imported),
		"existing", len(existing),
		"total", len(merged),
	)
	return nil
}

func (s *Store) write(ctx context.Context, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal practice history: %w", err)
	}
	return s.kv.Set(ctx, store.KeyPracticeHistory, string(data))
}

// dedupByTimestamp keeps the first record seen for each timestamp.
func dedupByTimestamp(records []Record) []Record {
	seen := make(map[string]bool, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if seen[r.Timestamp] {
			continue
		}
		seen[r.Timestamp] = true
		out = append(out, r)
	}
	return out
}

const importSchemaURL = "schema://practice-import.json"

var importSchema = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "object"},
}

var (
	importOnce     sync.Once
	importCompiled *jsonschema.Schema
	importErr      error
)

func compiledImportSchema() (*jsonschema.Schema, error) {
	importOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(importSchemaURL, importSchema); err != nil {
			importErr = fmt.Errorf("add resource: %w", err)
			return
		}
		importCompiled, importErr = c.Compile(importSchemaURL)
	})
	return importCompiled, importErr
}

// decodeImport checks the payload is an array of objects, then decodes each
// entry on its own. Entries whose fields have the wrong type are counted in
// skipped rather than failing the whole import.
func decodeImport(serialized string) (records []Record, skipped int, err error) {
	var parsed any
	if err := json.Unmarshal([]byte(serialized), &parsed); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrImport, err)
	}
	schema, err := compiledImportSchema()
	if err != nil {
		return nil, 0, fmt.Errorf("compile import schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrImport, err)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(serialized), &entries); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrImport, err)
	}
	records = make([]Record, 0, len(entries))
	for _, e := range entries {
		var r Record
		if err := json.Unmarshal(e, &r); err != nil {
			skipped++
			continue
		}
		records = append(records, r)
	}
	return records, skipped, nil
}
