package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"resume-penelitian/exporter"
	"resume-penelitian/logger"
	"resume-penelitian/models"
)

// ResearchStore keeps research records in a single JSON document. Every save
// rewrites the whole document and then hands a snapshot to the backup sink.
//
// Ids come from a counter kept in <path>.meta.json and never go backwards,
// even when the file itself loses records.
type ResearchStore struct {
	path     string
	metaPath string
	backup   BackupSink
	now      func() time.Time

	mu sync.Mutex
}

type storeMeta struct {
	NextID int `json:"next_id"`
}

// Option configures a ResearchStore.
type Option func(*ResearchStore)

// WithClock overrides the time source used for tanggal_input and backup names.
func WithClock(now func() time.Time) Option {
	return func(s *ResearchStore) { s.now = now }
}

func NewResearchStore(path string, backup BackupSink, opts ...Option) *ResearchStore {
	s := &ResearchStore{
		path:     path,
		metaPath: path + ".meta.json",
		backup:   backup,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ResearchStore) Path() string { return s.path }

// Load returns every record in insertion order. It never fails: a missing file
// is created empty and unreadable or malformed content yields an empty slice.
func (s *ResearchStore) Load(_ context.Context) []models.Research {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		logger.Warnf("research store: load %s: %v", s.path, err)
		return []models.Research{}
	}
	return records
}

// Append assigns the next id and tanggal_input, then rewrites the document.
// A malformed document is left untouched and reported as an error.
func (s *ResearchStore) Append(ctx context.Context, record models.Research) (models.Research, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return models.Research{}, fmt.Errorf("read research store: %w", err)
	}

	id, err := s.nextID(records)
	if err != nil {
		return models.Research{}, err
	}
	record.ID = id
	record.InputAt = s.now().Format(models.InputTimeLayout)
	normalize(&record)

	records = append(records, record)
	if err := s.write(ctx, records); err != nil {
		return models.Research{}, err
	}
	if err := s.writeMeta(storeMeta{NextID: id + 1}); err != nil {
		logger.Warnf("research store: update id counter: %v", err)
	}
	return record, nil
}

// ImportResult counts what an import did to the document.
type ImportResult struct {
	Received int
	Added    int
	Total    int
}

// Import merges incoming into the document under one lock: existing ids win,
// records without an id get fresh ones above both the counter and the highest
// incoming id. An unreadable document is refused and left untouched.
func (s *ResearchStore) Import(ctx context.Context, incoming []models.Research) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read research store: %w", err)
	}

	incoming = append([]models.Research(nil), incoming...)
	missing, highest := 0, 0
	for _, r := range incoming {
		if r.ID <= 0 {
			missing++
		} else if r.ID > highest {
			highest = r.ID
		}
	}
	if missing > 0 {
		next, err := s.nextID(existing)
		if err != nil {
			return ImportResult{}, err
		}
		if next <= highest {
			next = highest + 1
		}
		for i := range incoming {
			if incoming[i].ID <= 0 {
				incoming[i].ID = next
				next++
			}
		}
		if err := s.writeMeta(storeMeta{NextID: next}); err != nil {
			return ImportResult{}, fmt.Errorf("update id counter: %w", err)
		}
	}

	merged := Merge(existing, incoming)
	for i := range merged {
		normalize(&merged[i])
	}
	if err := s.write(ctx, merged); err != nil {
		return ImportResult{}, err
	}

	next, err := s.nextID(merged)
	if err != nil {
		logger.Warnf("research store: read id counter: %v", err)
	} else if err := s.writeMeta(storeMeta{NextID: next}); err != nil {
		logger.Warnf("research store: update id counter: %v", err)
	}

	return ImportResult{
		Received: len(incoming),
		Added:    len(merged) - len(existing),
		Total:    len(merged),
	}, nil
}

func (s *ResearchStore) read() ([]models.Research, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.create(); err != nil {
			return nil, err
		}
		return []models.Research{}, nil
	}
	if err != nil {
		return nil, err
	}
	return exporter.ParseResearchJSON(data)
}

func (s *ResearchStore) create() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte("[]\n"), 0o644)
}

func (s *ResearchStore) write(ctx context.Context, records []models.Research) error {
	if records == nil {
		records = []models.Research{}
	}
	var buf bytes.Buffer
	if err := exporter.WriteJSON(&buf, records); err != nil {
		return fmt.Errorf("encode research records: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write research store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write research store: %w", err)
	}

	if s.backup != nil {
		// primary write already landed; a failed snapshot is still reported
		if err := s.backup.WriteBackup(ctx, BackupName(s.now()), buf.Bytes()); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
	}
	return nil
}

func (s *ResearchStore) nextID(records []models.Research) (int, error) {
	meta, err := s.readMeta()
	if err != nil {
		return 0, fmt.Errorf("read id counter: %w", err)
	}
	next := maxID(records) + 1
	if meta.NextID > next {
		next = meta.NextID
	}
	return next, nil
}

func (s *ResearchStore) readMeta() (storeMeta, error) {
	var meta storeMeta
	data, err := os.ReadFile(s.metaPath)
	if errors.Is(err, os.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return storeMeta{}, err
	}
	return meta, nil
}

func (s *ResearchStore) writeMeta(meta storeMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath, data, 0o644)
}

func maxID(records []models.Research) int {
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}

func normalize(r *models.Research) {
	if r.Fields == nil {
		r.Fields = []string{}
	}
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
}
