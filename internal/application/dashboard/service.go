package dashboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/narwhalmedia/marquee/internal/catalog"
	ownservice "github.com/narwhalmedia/marquee/internal/owned/service"
	apperrors "github.com/narwhalmedia/marquee/pkg/errors"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// ErrExplainerDisabled is returned by Explain when no explainer is configured.
var ErrExplainerDisabled = errors.New("movie explanations are not configured")

// Section titles of the collections view, in display order.
const (
	SectionOwn        = "My Movies"
	SectionPopular    = "Popular Movies"
	SectionTopRated   = "Top Rated Movies"
	SectionTrending   = "Trending Movies"
	SectionUpcoming   = "Upcoming Movies"
	SectionNowPlaying = "Now Playing"
)

// CatalogService is the aggregation side the dashboard reads from.
type CatalogService interface {
	FetchCatalogSnapshot(ctx context.Context) (*catalog.AggregatedMetrics, error)
	FetchMovieLists(ctx context.Context) (*catalog.MovieLists, error)
	SnapshotFingerprint() string
	ListsFingerprint() string
}

// Explainer writes a short paragraph about a movie.
type Explainer interface {
	Explain(ctx context.Context, title string) (string, error)
}

// Section is one titled row of the collections view. Movies holds either
// catalog movies or own movies.
type Section struct {
	Title  string      `json:"title"`
	Movies interface{} `json:"movies"`
}

// Service combines cached catalog data with the own-movie store
type Service struct {
	catalog   CatalogService
	store     ownservice.StoreInterface
	cache     interfaces.SnapshotCache
	explainer Explainer
	ttl       time.Duration
	logger    interfaces.Logger
}

// NewService creates a new dashboard service. explainer may be nil.
func NewService(
	catalogService CatalogService,
	store ownservice.StoreInterface,
	cache interfaces.SnapshotCache,
	explainer Explainer,
	ttl time.Duration,
	logger interfaces.Logger,
) *Service {
	return &Service{
		catalog:   catalogService,
		store:     store,
		cache:     cache,
		explainer: explainer,
		ttl:       ttl,
		logger:    logger,
	}
}

// Metrics returns the dashboard summary. refresh bypasses a cached value.
func (s *Service) Metrics(ctx context.Context, refresh bool) (*catalog.AggregatedMetrics, error) {
	v, err := s.cached(ctx, s.catalog.SnapshotFingerprint(), refresh, func(ctx context.Context) (interface{}, error) {
		return s.catalog.FetchCatalogSnapshot(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog.AggregatedMetrics), nil
}

// Lists returns every catalog list. refresh bypasses a cached value.
func (s *Service) Lists(ctx context.Context, refresh bool) (*catalog.MovieLists, error) {
	v, err := s.cached(ctx, s.catalog.ListsFingerprint(), refresh, func(ctx context.Context) (interface{}, error) {
		return s.catalog.FetchMovieLists(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog.MovieLists), nil
}

// Collections returns the movies page rows. The own row comes first and
// is left out when the collection is empty.
func (s *Service) Collections(ctx context.Context) ([]Section, error) {
	lists, err := s.Lists(ctx, false)
	if err != nil {
		return nil, err
	}

	own, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	sections := make([]Section, 0, 6)
	if len(own) > 0 {
		sections = append(sections, Section{Title: SectionOwn, Movies: own})
	}
	sections = append(sections,
		Section{Title: SectionPopular, Movies: lists.Popular},
		Section{Title: SectionTopRated, Movies: lists.TopRated},
		Section{Title: SectionTrending, Movies: lists.Trending},
		Section{Title: SectionUpcoming, Movies: lists.Upcoming},
		Section{Title: SectionNowPlaying, Movies: lists.NowPlaying},
	)
	return sections, nil
}

// Explain asks the explainer for a paragraph about title.
func (s *Service) Explain(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.BadRequest("title is required")
	}
	if s.explainer == nil {
		return "", apperrors.Wrap(apperrors.ErrorTypeUnavailable, "explainer unavailable", ErrExplainerDisabled)
	}

	text, err := s.explainer.Explain(ctx, title)
	if err != nil {
		s.logger.Warn("Explanation failed",
			interfaces.String("title", title),
			interfaces.Error(err))
		return "", apperrors.Unavailable("explanation failed", err)
	}
	return text, nil
}

func (s *Service) cached(ctx context.Context, key string, refresh bool, load interfaces.Loader) (interface{}, error) {
	if refresh {
		s.logger.Debug("Refreshing catalog snapshot", interfaces.String("fingerprint", key))
		return s.cache.Refresh(ctx, key, s.ttl, load)
	}

	return s.cache.Get(ctx, key, s.ttl, load)
}
