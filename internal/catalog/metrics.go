package catalog

// ResolveGenres fills Genres from GenreIDs and applies the catalog defaults
// to fields the endpoint left empty. The input slice is not modified.
func ResolveGenres(movies []CatalogMovie, genres GenreCatalog) []CatalogMovie {
	out := make([]CatalogMovie, len(movies))
	for i, m := range movies {
		if m.GenreIDs == nil {
			m.GenreIDs = []int{}
		}
		m.Genres = genres.ResolveAll(m.GenreIDs)
		if m.ReleaseDate == "" {
			m.ReleaseDate = UnknownReleaseDate
		}
		out[i] = m
	}
	return out
}

// ComputeMetrics summarizes resolved lists. The average and histogram
// cover exactly the popular page.
func ComputeMetrics(popular, topRated, trending []CatalogMovie) *AggregatedMetrics {
	metrics := &AggregatedMetrics{
		AverageRating: averageRating(popular),
		TopRated:      make([]RatedEntry, 0, TopN),
		Trending:      make([]TrendingEntry, 0, TopN),
	}

	for _, m := range popular {
		for _, name := range m.Genres {
			metrics.GenreDistribution.Add(name)
		}
	}

	for _, m := range firstN(topRated, TopN) {
		metrics.TopRated = append(metrics.TopRated, RatedEntry{Title: m.Title, VoteAverage: m.VoteAverage})
	}
	for _, m := range firstN(trending, TopN) {
		metrics.Trending = append(metrics.Trending, TrendingEntry{Title: m.Title, Popularity: m.Popularity})
	}

	return metrics
}

func averageRating(movies []CatalogMovie) *float64 {
	if len(movies) == 0 {
		return nil
	}
	var sum float64
	for _, m := range movies {
		sum += m.VoteAverage
	}
	avg := sum / float64(len(movies))
	return &avg
}

func firstN(movies []CatalogMovie, n int) []CatalogMovie {
	if len(movies) > n {
		return movies[:n]
	}
	return movies
}
