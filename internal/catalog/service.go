package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	apperrors "github.com/narwhalmedia/marquee/pkg/errors"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// Endpoint is a catalog path relative to the API base URL.
type Endpoint string

const (
	EndpointPopular      Endpoint = "/movie/popular"
	EndpointTopRated     Endpoint = "/movie/top_rated"
	EndpointUpcoming     Endpoint = "/movie/upcoming"
	EndpointNowPlaying   Endpoint = "/movie/now_playing"
	EndpointTrendingDay  Endpoint = "/trending/movie/day"
	EndpointTrendingWeek Endpoint = "/trending/movie/week"
	EndpointGenres       Endpoint = "/genre/movie/list"
)

// ErrCatalogUnavailable is wrapped by every failed aggregation.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

var (
	snapshotEndpoints = []Endpoint{EndpointPopular, EndpointTopRated, EndpointTrendingDay}
	listEndpoints     = []Endpoint{EndpointPopular, EndpointTrendingWeek, EndpointTopRated, EndpointUpcoming, EndpointNowPlaying}
)

// Provider fetches raw catalog pages.
type Provider interface {
	// FetchMovies returns the first page of a list endpoint with GenreIDs set.
	FetchMovies(ctx context.Context, endpoint Endpoint) ([]CatalogMovie, error)
	// FetchGenres returns the movie genre list.
	FetchGenres(ctx context.Context) ([]Genre, error)
}

// Service aggregates catalog endpoints into snapshots. It keeps no state
// between calls.
type Service struct {
	provider Provider
	language string
	logger   interfaces.Logger
}

// NewService creates a new aggregation service
func NewService(provider Provider, language string, logger interfaces.Logger) *Service {
	return &Service{
		provider: provider,
		language: language,
		logger:   logger,
	}
}

// SnapshotFingerprint is the cache key of FetchCatalogSnapshot.
func (s *Service) SnapshotFingerprint() string {
	return Fingerprint(append(slices.Clone(snapshotEndpoints), EndpointGenres), s.params())
}

// ListsFingerprint is the cache key of FetchMovieLists.
func (s *Service) ListsFingerprint() string {
	return Fingerprint(append(slices.Clone(listEndpoints), EndpointGenres), s.params())
}

func (s *Service) params() map[string]string {
	return map[string]string{"language": s.language, "page": "1"}
}

// FetchCatalogSnapshot computes dashboard metrics from the popular,
// top-rated and daily trending pages.
func (s *Service) FetchCatalogSnapshot(ctx context.Context) (*AggregatedMetrics, error) {
	pages, genres, err := s.fetchAll(ctx, snapshotEndpoints)
	if err != nil {
		return nil, err
	}

	return ComputeMetrics(
		ResolveGenres(pages[EndpointPopular], genres),
		ResolveGenres(pages[EndpointTopRated], genres),
		ResolveGenres(pages[EndpointTrendingDay], genres),
	), nil
}

// FetchMovieLists returns every list page with genre names resolved.
func (s *Service) FetchMovieLists(ctx context.Context) (*MovieLists, error) {
	pages, genres, err := s.fetchAll(ctx, listEndpoints)
	if err != nil {
		return nil, err
	}

	return &MovieLists{
		Popular:    ResolveGenres(pages[EndpointPopular], genres),
		Trending:   ResolveGenres(pages[EndpointTrendingWeek], genres),
		TopRated:   ResolveGenres(pages[EndpointTopRated], genres),
		Upcoming:   ResolveGenres(pages[EndpointUpcoming], genres),
		NowPlaying: ResolveGenres(pages[EndpointNowPlaying], genres),
	}, nil
}

// fetchAll issues the genre request and every list request at once and
// waits for all of them. The first failure cancels the rest.
func (s *Service) fetchAll(ctx context.Context, endpoints []Endpoint) (map[Endpoint][]CatalogMovie, GenreCatalog, error) {
	start := time.Now()

	var (
		mu     sync.Mutex
		pages  = make(map[Endpoint][]CatalogMovie, len(endpoints))
		genres []Genre
	)

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	p.Go(func(ctx context.Context) error {
		list, err := s.provider.FetchGenres(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", EndpointGenres, err)
		}
		genres = list
		return nil
	})

	for _, endpoint := range endpoints {
		p.Go(func(ctx context.Context) error {
			movies, err := s.provider.FetchMovies(ctx, endpoint)
			if err != nil {
				return fmt.Errorf("%s: %w", endpoint, err)
			}
			mu.Lock()
			pages[endpoint] = movies
			mu.Unlock()
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		s.logger.Warn("catalog aggregation failed",
			interfaces.Int("requests", len(endpoints)+1),
			interfaces.Duration("elapsed", time.Since(start)),
			interfaces.Error(err),
		)
		return nil, nil, apperrors.Unavailable("catalog request failed", fmt.Errorf("%w: %w", ErrCatalogUnavailable, err))
	}

	s.logger.Debug("catalog aggregation completed",
		interfaces.Int("requests", len(endpoints)+1),
		interfaces.Duration("elapsed", time.Since(start)),
	)

	return pages, NewGenreCatalog(genres), nil
}
