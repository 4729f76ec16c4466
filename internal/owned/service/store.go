package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/narwhalmedia/marquee/internal/owned/domain"
	"github.com/narwhalmedia/marquee/internal/owned/repository"
	apperrors "github.com/narwhalmedia/marquee/pkg/errors"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// Store manages the own-movie collection. The whole collection lives in
// one blob that is read and rewritten on every mutation; mutations from
// this process are serialized, writers in other processes are not.
type Store struct {
	blobs    repository.BlobStore
	key      string
	eventBus interfaces.EventBus
	logger   interfaces.Logger
	now      func() time.Time

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the id clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a new own-movie store
func NewStore(
	blobs repository.BlobStore,
	key string,
	eventBus interfaces.EventBus,
	logger interfaces.Logger,
	opts ...Option,
) *Store {
	s := &Store{
		blobs:    blobs,
		key:      key,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every decodable record in stored order. An absent or
// malformed blob reads as an empty collection.
func (s *Store) List(ctx context.Context) ([]domain.OwnMovie, error) {
	results, err := s.decode(ctx)
	if err != nil {
		return nil, err
	}

	movies := make([]domain.OwnMovie, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			s.logger.Warn("Skipping stored movie entry",
				interfaces.Int("index", r.Index),
				interfaces.Error(r.Err))
			continue
		}
		movies = append(movies, r.Movie)
	}
	return movies, nil
}

// Get returns one record by id.
func (s *Store) Get(ctx context.Context, id string) (domain.OwnMovie, error) {
	results, err := s.decode(ctx)
	if err != nil {
		return domain.OwnMovie{}, err
	}

	for _, r := range results {
		if id != "" && r.OK() && r.Movie.ID == id {
			return r.Movie, nil
		}
	}
	return domain.OwnMovie{}, apperrors.Wrap(apperrors.ErrorTypeNotFound, "own movie not found", domain.ErrOwnMovieNotFound)
}

// Create validates the form, appends a new record and persists the collection.
func (s *Store) Create(ctx context.Context, form domain.MovieFormValues) (domain.OwnMovie, error) {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return domain.OwnMovie{}, apperrors.Validation(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForWrite(ctx)
	if err != nil {
		return domain.OwnMovie{}, err
	}

	id := s.nextID(entries)
	raw, err := json.Marshal(domain.NewStoredRecord(id, form))
	if err != nil {
		return domain.OwnMovie{}, apperrors.Internal("failed to encode movie", err)
	}

	if err := s.save(ctx, append(entries, raw)); err != nil {
		return domain.OwnMovie{}, err
	}

	movie, err := domain.DecodeRecord(raw)
	if err != nil {
		return domain.OwnMovie{}, apperrors.Internal("failed to decode created movie", err)
	}

	s.eventBus.PublishAsync(ctx, domain.NewOwnMovieCreatedEvent(id, form))

	s.logger.Info("Own movie created",
		interfaces.String("id", id),
		interfaces.String("title", form.Title))

	return movie, nil
}

// Update merges the form into the record with id and returns the merged
// card. Other records keep their stored bytes. A missing id is reported
// as (OwnMovie{}, false, nil).
func (s *Store) Update(ctx context.Context, id string, form domain.MovieFormValues) (domain.OwnMovie, bool, error) {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return domain.OwnMovie{}, false, apperrors.Validation(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForWrite(ctx)
	if err != nil {
		return domain.OwnMovie{}, false, err
	}

	index := indexOf(entries, id)
	if index < 0 {
		s.logger.Debug("Update of unknown own movie ignored", interfaces.String("id", id))
		return domain.OwnMovie{}, false, nil
	}

	merged, err := domain.MergeForm(entries[index], form)
	if err != nil {
		return domain.OwnMovie{}, false, apperrors.Internal("failed to merge movie", err)
	}
	movie, err := domain.DecodeRecord(merged)
	if err != nil {
		return domain.OwnMovie{}, false, apperrors.Internal("failed to decode updated movie", err)
	}
	entries[index] = merged

	if err := s.save(ctx, entries); err != nil {
		return domain.OwnMovie{}, false, err
	}

	s.eventBus.PublishAsync(ctx, domain.NewOwnMovieUpdatedEvent(id, form))

	s.logger.Info("Own movie updated", interfaces.String("id", id))

	return movie, true, nil
}

// Delete removes the record with id. A missing id is reported as (false, nil).
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForWrite(ctx)
	if err != nil {
		return false, err
	}

	index := indexOf(entries, id)
	if index < 0 {
		return false, nil
	}

	remaining := make([]json.RawMessage, 0, len(entries)-1)
	remaining = append(remaining, entries[:index]...)
	remaining = append(remaining, entries[index+1:]...)

	if err := s.save(ctx, remaining); err != nil {
		return false, err
	}

	s.eventBus.PublishAsync(ctx, domain.NewOwnMovieDeletedEvent(id))

	s.logger.Info("Own movie deleted", interfaces.String("id", id))

	return true, nil
}

// decode reads the collection for display.
func (s *Store) decode(ctx context.Context) ([]domain.DecodeResult, error) {
	blob, err := s.blobs.Load(ctx, s.key)
	if err != nil {
		s.logger.Error("Failed to load movie collection", interfaces.Error(err))
		return nil, apperrors.Internal("failed to load movie collection", err)
	}

	entries, err := domain.SplitCollection(blob)
	if err != nil {
		s.logger.Warn("Stored movie collection is malformed, reading as empty",
			interfaces.String("key", s.key),
			interfaces.Error(err))
		return nil, nil
	}
	return domain.DecodeCollection(entries), nil
}

// loadForWrite reads the raw entries a mutation rewrites. A malformed blob
// is refused so that the mutation cannot discard it.
func (s *Store) loadForWrite(ctx context.Context) ([]json.RawMessage, error) {
	blob, err := s.blobs.Load(ctx, s.key)
	if err != nil {
		s.logger.Error("Failed to load movie collection", interfaces.Error(err))
		return nil, apperrors.Internal("failed to load movie collection", err)
	}

	entries, err := domain.SplitCollection(blob)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptCollection) {
			return nil, apperrors.Wrap(apperrors.ErrorTypeConflict, "stored movie collection is corrupt", err)
		}
		return nil, apperrors.Internal("failed to parse movie collection", err)
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, entries []json.RawMessage) error {
	if err := s.blobs.Save(ctx, s.key, domain.JoinCollection(entries)); err != nil {
		s.logger.Error("Failed to save movie collection", interfaces.Error(err))
		return apperrors.Internal("failed to save movie collection", err)
	}
	return nil
}

// nextID derives an id from the clock in milliseconds, bumped until it is
// unused in the collection.
func (s *Store) nextID(entries []json.RawMessage) string {
	taken := make(map[string]struct{}, len(entries))
	for _, raw := range entries {
		if id, ok := domain.EntryID(raw); ok {
			taken[id] = struct{}{}
		}
	}

	ms := s.now().UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, exists := taken[id]; !exists {
			return id
		}
		ms++
	}
}

func indexOf(entries []json.RawMessage, id string) int {
	if id == "" {
		return -1
	}
	for i, raw := range entries {
		if entryID, ok := domain.EntryID(raw); ok && entryID == id {
			return i
		}
	}
	return -1
}
