package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// UnknownGenre is the label for genre ids missing from the genre list.
	UnknownGenre = "Unknown"
	// UnknownReleaseDate marks a movie whose release date the catalog omitted.
	UnknownReleaseDate = "unknown"
	// TopN bounds the top-rated and trending slices of a snapshot.
	TopN = 5
)

// CatalogMovie is one movie from a catalog list endpoint with its genre names resolved.
type CatalogMovie struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"original_title"`
	Overview         string   `json:"overview"`
	Popularity       float64  `json:"popularity"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	ReleaseDate      string   `json:"release_date"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	GenreIDs         []int    `json:"genre_ids"`
	Genres           []string `json:"genres"`
	Adult            bool     `json:"adult"`
	OriginalLanguage string   `json:"original_language"`
	Video            bool     `json:"video"`
}

// Genre is a catalog genre id and its display name.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreCatalog maps genre ids to display names.
type GenreCatalog map[int]string

// NewGenreCatalog builds the lookup from a genre list. Later duplicates win.
func NewGenreCatalog(genres []Genre) GenreCatalog {
	catalog := make(GenreCatalog, len(genres))
	for _, g := range genres {
		catalog[g.ID] = g.Name
	}
	return catalog
}

// Resolve returns the name for id, or UnknownGenre.
func (g GenreCatalog) Resolve(id int) string {
	if name, ok := g[id]; ok {
		return name
	}
	return UnknownGenre
}

// ResolveAll maps every id to a name, keeping order and length.
func (g GenreCatalog) ResolveAll(ids []int) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = g.Resolve(id)
	}
	return names
}

// MovieLists holds the first page of every list endpoint.
type MovieLists struct {
	Popular    []CatalogMovie `json:"popular"`
	Trending   []CatalogMovie `json:"trending"`
	TopRated   []CatalogMovie `json:"top_rated"`
	Upcoming   []CatalogMovie `json:"upcoming"`
	NowPlaying []CatalogMovie `json:"now_playing"`
}

// RatedEntry is one row of the top-rated chart.
type RatedEntry struct {
	Title       string  `json:"title"`
	VoteAverage float64 `json:"vote_average"`
}

// TrendingEntry is one row of the trending chart.
type TrendingEntry struct {
	Title      string  `json:"title"`
	Popularity float64 `json:"popularity"`
}

// AggregatedMetrics is the dashboard summary of one snapshot.
// AverageRating is nil when the popular page was empty.
type AggregatedMetrics struct {
	AverageRating     *float64        `json:"average_rating"`
	GenreDistribution GenreHistogram  `json:"genre_distribution"`
	TopRated          []RatedEntry    `json:"top_rated"`
	Trending          []TrendingEntry `json:"trending"`
}

// GenreCount is one histogram bucket.
type GenreCount struct {
	Name  string
	Count int
}

// GenreHistogram counts genres in order of first appearance and
// serializes as a JSON object with keys in that order.
type GenreHistogram struct {
	buckets []GenreCount
	index   map[string]int
}

// Add increments the counter for name.
func (h *GenreHistogram) Add(name string) {
	if h.index == nil {
		h.index = make(map[string]int)
	}
	if i, ok := h.index[name]; ok {
		h.buckets[i].Count++
		return
	}
	h.index[name] = len(h.buckets)
	h.buckets = append(h.buckets, GenreCount{Name: name, Count: 1})
}

// Count returns the counter for name.
func (h GenreHistogram) Count(name string) int {
	if i, ok := h.index[name]; ok {
		return h.buckets[i].Count
	}
	return 0
}

// Len returns the number of distinct genres.
func (h GenreHistogram) Len() int {
	return len(h.buckets)
}

// Buckets returns a copy of the counters in first-appearance order.
func (h GenreHistogram) Buckets() []GenreCount {
	out := make([]GenreCount, len(h.buckets))
	copy(out, h.buckets)
	return out
}

// MarshalJSON writes the histogram as an ordered JSON object.
func (h GenreHistogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range h.buckets {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", b.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping the key order of the document.
func (h *GenreHistogram) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("genre histogram: expected object, got %v", tok)
	}

	*h = GenreHistogram{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("genre histogram: count for %q: %w", name, err)
		}
		if _, dup := h.index[name]; dup {
			h.buckets[h.index[name]].Count = count
			continue
		}
		if h.index == nil {
			h.index = make(map[string]int)
		}
		h.index[name] = len(h.buckets)
		h.buckets = append(h.buckets, GenreCount{Name: name, Count: count})
	}
	_, err = dec.Token()
	return err
}
