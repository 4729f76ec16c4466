package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DecodeResult is the outcome of decoding one collection entry.
type DecodeResult struct {
	Index int
	Raw   json.RawMessage
	Movie OwnMovie
	Err   error
}

// OK reports whether the entry decoded into a movie.
func (r DecodeResult) OK() bool {
	return r.Err == nil
}

// SplitCollection parses a blob into its raw entries. Each entry keeps its
// exact stored bytes. An empty blob is an empty collection.
func SplitCollection(blob []byte) ([]json.RawMessage, error) {
	if len(bytes.TrimSpace(blob)) == 0 {
		return []json.RawMessage{}, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCollection, err)
	}
	if entries == nil {
		// literal null
		entries = []json.RawMessage{}
	}
	return entries, nil
}

// JoinCollection serializes entries as a JSON array without re-encoding them.
func JoinCollection(entries []json.RawMessage) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(e)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// DecodeCollection decodes every entry independently.
func DecodeCollection(entries []json.RawMessage) []DecodeResult {
	results := make([]DecodeResult, len(entries))
	for i, raw := range entries {
		movie, err := DecodeRecord(raw)
		results[i] = DecodeResult{Index: i, Raw: raw, Movie: movie, Err: err}
	}
	return results
}

// DecodeRecord maps one stored entry onto the canonical read shape,
// filling defaults for absent or mistyped fields. It fails only when the
// entry is not a JSON object.
func DecodeRecord(raw json.RawMessage) (OwnMovie, error) {
	obj, err := asObject(raw)
	if err != nil {
		return OwnMovie{}, err
	}

	title, hasTitle := stringField(obj, "title")
	image, _ := stringField(obj, "image")

	movie := OwnMovie{
		Adult:            boolField(obj, "adult", false),
		BackdropPath:     image,
		GenreIDs:         intsField(obj, "genre_ids"),
		Genres:           genresField(obj),
		ID:               RecordID(obj),
		OriginalLanguage: stringFieldOr(obj, "original_language", DefaultOriginalLanguage),
		Overview:         stringFieldOr(obj, "overview", DefaultOverview),
		Popularity:       numberField(obj, "popularity", 0),
		PosterPath:       image,
		ReleaseDate:      stringFieldOr(obj, "releaseDate", DefaultReleaseDate),
		Title:            stringFieldOr(obj, "title", DefaultTitle),
		Video:            boolField(obj, "video", false),
		VoteAverage:      numberField(obj, "rating", 0),
		VoteCount:        int(numberField(obj, "vote_count", 0)),
	}

	if original, ok := stringField(obj, "original_title"); ok {
		movie.OriginalTitle = original
	} else if hasTitle {
		movie.OriginalTitle = title
	} else {
		movie.OriginalTitle = DefaultTitle
	}

	if v, ok := obj["isOwn"]; ok {
		var own bool
		if json.Unmarshal(v, &own) == nil {
			movie.IsOwn = &own
		}
	}

	movie.Form = MovieFormValues{
		Title:       title,
		Image:       image,
		Rating:      numberField(obj, "rating", 0),
		ReleaseDate: stringFieldOr(obj, "releaseDate", ""),
		Overview:    stringFieldOr(obj, "overview", ""),
	}
	if len(movie.Genres) > 0 {
		movie.Form.Genre = movie.Genres[0]
	}

	return movie, nil
}

// RecordID returns the stored id as a string. Legacy numeric ids become
// their decimal form; a missing id is "".
func RecordID(obj map[string]json.RawMessage) string {
	raw, ok := obj["id"]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := n.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return ""
}

// EntryID returns the id of a raw entry, or false when it is not an object.
func EntryID(raw json.RawMessage) (string, bool) {
	obj, err := asObject(raw)
	if err != nil {
		return "", false
	}
	return RecordID(obj), true
}

// MergeForm overlays form values onto a stored object, keeping every other
// stored field as is.
func MergeForm(raw json.RawMessage, form MovieFormValues) (json.RawMessage, error) {
	obj, err := asObject(raw)
	if err != nil {
		return nil, err
	}

	set := func(key string, v interface{}) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		obj[key] = b
		return nil
	}
	for key, v := range map[string]interface{}{
		"title":       form.Title,
		"image":       form.Image,
		"rating":      form.Rating,
		"genre":       form.Genre,
		"releaseDate": form.ReleaseDate,
		"overview":    form.Overview,
		"isOwn":       true,
	} {
		if err := set(key, v); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
	}

	return json.Marshal(obj)
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotAnObject
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnObject, err)
	}
	return obj, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func stringFieldOr(obj map[string]json.RawMessage, key, fallback string) string {
	if s, ok := stringField(obj, key); ok {
		return s
	}
	return fallback
}

func numberField(obj map[string]json.RawMessage, key string, fallback float64) float64 {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return fallback
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f
	}
	// some older forms stored numbers as strings
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return fallback
}

func boolField(obj map[string]json.RawMessage, key string, fallback bool) bool {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return fallback
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	return fallback
}

func intsField(obj map[string]json.RawMessage, key string) []int {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return []int{}
	}
	var ids []int
	if json.Unmarshal(raw, &ids) != nil || ids == nil {
		return []int{}
	}
	return ids
}

// genresField reads "genre" as a single name or a list of names.
func genresField(obj map[string]json.RawMessage) []string {
	raw, ok := obj["genre"]
	if !ok || isNull(raw) {
		return []string{}
	}
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return []string{single}
	}
	var list []interface{}
	if json.Unmarshal(raw, &list) != nil {
		return []string{}
	}
	genres := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			genres = append(genres, s)
		}
	}
	return genres
}
