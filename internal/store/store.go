// Package store persists leads, search history and settings as three
// JSON blobs behind a pluggable Blobs backend.
package store

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/config"
	"github.com/sells-group/lead-scout/internal/model"
)

// HistoryLimit caps the number of retained search history entries.
const HistoryLimit = 50

// LeadStore is the canonical lead collection. Leads are kept newest first.
// Every method reads and writes whole blobs; mu serializes writers so a
// read-modify-write cycle is never interleaved.
type LeadStore struct {
	blobs Blobs
	now   func() time.Time

	mu sync.Mutex
}

// New creates a LeadStore over blobs.
func New(blobs Blobs) *LeadStore {
	return &LeadStore{blobs: blobs, now: time.Now}
}

// Open builds the configured backend, migrates it and wraps it in a
// LeadStore.
func Open(ctx context.Context, cfg config.StoreConfig) (*LeadStore, error) {
	var (
		blobs Blobs
		err   error
	)
	switch cfg.Driver {
	case "sqlite":
		blobs, err = NewSQLite(cfg.Path)
	case "postgres":
		blobs, err = NewPostgres(ctx, cfg.DatabaseURL)
	case "memory":
		blobs = NewMemoryBlobs()
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := blobs.Migrate(ctx); err != nil {
		blobs.Close() //nolint:errcheck
		return nil, err
	}
	zap.L().Debug("store: opened", zap.String("driver", cfg.Driver))
	return New(blobs), nil
}

// Close releases the backend.
func (s *LeadStore) Close() error {
	return s.blobs.Close()
}

// InsertWithDedup prepends the candidates that do not share name and
// address with a stored lead, keeping their order, and returns how many
// were inserted. Candidates are checked against the stored leads only, so
// repeats within one batch are all kept.
func (s *LeadStore) InsertWithDedup(ctx context.Context, candidates []model.Lead) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadLeads(ctx)
	if err != nil {
		return 0, err
	}

	stored := make(map[dedupKey]bool, len(existing))
	for _, l := range existing {
		stored[keyOf(l)] = true
	}

	fresh := make([]model.Lead, 0, len(candidates))
	for _, c := range candidates {
		if stored[keyOf(c)] {
			continue
		}
		fresh = append(fresh, c)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := s.saveLeads(ctx, append(fresh, existing...)); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

// Update merges patch into the lead with id and refreshes UpdatedAt. An
// unknown id is a no-op reported as false.
func (s *LeadStore) Update(ctx context.Context, id string, patch model.LeadPatch) (bool, error) {
	if err := patch.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.loadLeads(ctx)
	if err != nil {
		return false, err
	}
	for i := range leads {
		if leads[i].ID != id {
			continue
		}
		patch.Apply(&leads[i])
		leads[i].UpdatedAt = s.now().UnixMilli()
		return true, s.saveLeads(ctx, leads)
	}
	return false, nil
}

// Delete removes the lead with id. An unknown id is a no-op reported as
// false.
func (s *LeadStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.loadLeads(ctx)
	if err != nil {
		return false, err
	}
	kept := leads[:0]
	for _, l := range leads {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(leads) {
		return false, nil
	}
	return true, s.saveLeads(ctx, kept)
}

// Get returns the lead with id, or nil when there is none.
func (s *LeadStore) Get(ctx context.Context, id string) (*model.Lead, error) {
	leads, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range leads {
		if leads[i].ID == id {
			return &leads[i], nil
		}
	}
	return nil, nil
}

// GetAll returns a copy of every lead in storage order.
func (s *LeadStore) GetAll(ctx context.Context) ([]model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLeads(ctx)
}

// AddHistory records a completed search at the front of the history and
// evicts entries beyond HistoryLimit.
func (s *LeadStore) AddHistory(ctx context.Context, params model.SearchParams, resultCount int) (*model.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadHistory(ctx)
	if err != nil {
		return nil, err
	}

	item := model.HistoryItem{
		ID:           uuid.NewString(),
		Timestamp:    s.now().UnixMilli(),
		SearchParams: params,
		ResultCount:  resultCount,
	}
	history = append([]model.HistoryItem{item}, history...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}

	if err := s.putJSON(ctx, KeyHistory, history); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetHistory returns past searches, most recent first.
func (s *LeadStore) GetHistory(ctx context.Context) ([]model.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHistory(ctx)
}

// GetStats aggregates the lead collection and search history.
func (s *LeadStore) GetStats(ctx context.Context) (*model.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.loadLeads(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.loadHistory(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{
		TotalLeads:    len(leads),
		TotalSearches: len(history),
	}
	sum := 0
	for _, l := range leads {
		sum += l.Score.Total
		switch l.Status {
		case model.StatusNew:
			stats.LeadsByStatus.New++
		case model.StatusContacted:
			stats.LeadsByStatus.Contacted++
		case model.StatusQualified:
			stats.LeadsByStatus.Qualified++
		case model.StatusClosed:
			stats.LeadsByStatus.Closed++
		}
	}
	if len(leads) > 0 {
		stats.AvgScore = int(math.Round(float64(sum) / float64(len(leads))))
	}
	return stats, nil
}

// GetSettings returns the stored settings map, empty when unset.
func (s *LeadStore) GetSettings(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := map[string]string{}
	if err := s.getJSON(ctx, KeySettings, &settings); err != nil {
		return nil, err
	}
	if settings == nil {
		settings = map[string]string{}
	}
	return settings, nil
}

// SaveSettings replaces the stored settings map.
func (s *LeadStore) SaveSettings(ctx context.Context, settings map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putJSON(ctx, KeySettings, settings)
}

type dedupKey struct {
	name    string
	address string
}

func keyOf(l model.Lead) dedupKey {
	return dedupKey{name: l.Name, address: l.Address}
}

func (s *LeadStore) loadLeads(ctx context.Context) ([]model.Lead, error) {
	var leads []model.Lead
	if err := s.getJSON(ctx, KeyLeads, &leads); err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	return leads, nil
}

func (s *LeadStore) saveLeads(ctx context.Context, leads []model.Lead) error {
	return s.putJSON(ctx, KeyLeads, leads)
}

func (s *LeadStore) loadHistory(ctx context.Context) ([]model.HistoryItem, error) {
	var history []model.HistoryItem
	if err := s.getJSON(ctx, KeyHistory, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []model.HistoryItem{}
	}
	return history, nil
}

// getJSON decodes the blob at key into v. A missing blob leaves v as is;
// a corrupt one is logged and treated as missing.
func (s *LeadStore) getJSON(ctx context.Context, key string, v any) error {
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		return eris.Wrapf(err, "store: load %s", key)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		zap.L().Warn("store: corrupt blob, treating as empty",
			zap.String("key", key),
			zap.Error(err),
		)
		rv := reflect.ValueOf(v).Elem()
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	return nil
}

func (s *LeadStore) putJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "store: marshal %s", key)
	}
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return eris.Wrapf(err, "store: save %s", key)
	}
	return nil
}
