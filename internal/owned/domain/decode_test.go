package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord_FullRecord(t *testing.T) {
	raw := json.RawMessage(`{"id":"1718000000000","title":"X","image":"https://img/x.jpg","rating":7.5,
		"genre":"Drama","releaseDate":"2024-06-10","overview":"Something happens here.","isOwn":true}`)

	movie, err := DecodeRecord(raw)
	require.NoError(t, err)

	own := true
	assert.Equal(t, OwnMovie{
		Adult:            false,
		BackdropPath:     "https://img/x.jpg",
		GenreIDs:         []int{},
		Genres:           []string{"Drama"},
		ID:               "1718000000000",
		OriginalLanguage: DefaultOriginalLanguage,
		OriginalTitle:    "X",
		Overview:         "Something happens here.",
		Popularity:       0,
		PosterPath:       "https://img/x.jpg",
		ReleaseDate:      "2024-06-10",
		Title:            "X",
		Video:            false,
		VoteAverage:      7.5,
		VoteCount:        0,
		IsOwn:            &own,
		Form: MovieFormValues{
			Title:       "X",
			Image:       "https://img/x.jpg",
			Rating:      7.5,
			Genre:       "Drama",
			ReleaseDate: "2024-06-10",
			Overview:    "Something happens here.",
		},
	}, movie)
}

func TestDecodeRecord_PartialRecordGetsDefaults(t *testing.T) {
	movie, err := DecodeRecord(json.RawMessage(`{"id":1718000000001}`))
	require.NoError(t, err)

	assert.Equal(t, "1718000000001", movie.ID)
	assert.Equal(t, DefaultTitle, movie.Title)
	assert.Equal(t, DefaultTitle, movie.OriginalTitle)
	assert.Equal(t, DefaultOverview, movie.Overview)
	assert.Equal(t, DefaultReleaseDate, movie.ReleaseDate)
	assert.Equal(t, DefaultOriginalLanguage, movie.OriginalLanguage)
	assert.Equal(t, "", movie.PosterPath)
	assert.Equal(t, "", movie.BackdropPath)
	assert.Equal(t, []int{}, movie.GenreIDs)
	assert.Equal(t, []string{}, movie.Genres)
	assert.Zero(t, movie.VoteAverage)
	assert.Nil(t, movie.IsOwn)

	data, err := json.Marshal(movie)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "isOwn")
	assert.Contains(t, string(data), `"genre_ids":[]`)
}

func TestDecodeRecord_FieldVariants(t *testing.T) {
	t.Run("genre list", func(t *testing.T) {
		movie, err := DecodeRecord(json.RawMessage(`{"genre":["Action",3,"Crime"]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Action", "Crime"}, movie.Genres)
		assert.Equal(t, "Action", movie.Form.Genre)
	})

	t.Run("genre of another type", func(t *testing.T) {
		movie, err := DecodeRecord(json.RawMessage(`{"genre":{"name":"Action"}}`))
		require.NoError(t, err)
		assert.Equal(t, []string{}, movie.Genres)
	})

	t.Run("original title wins over title", func(t *testing.T) {
		movie, err := DecodeRecord(json.RawMessage(`{"title":"Le Samourai","original_title":"Le Samouraï"}`))
		require.NoError(t, err)
		assert.Equal(t, "Le Samouraï", movie.OriginalTitle)
		assert.Equal(t, "Le Samourai", movie.Title)
	})

	t.Run("empty overview is kept", func(t *testing.T) {
		movie, err := DecodeRecord(json.RawMessage(`{"overview":""}`))
		require.NoError(t, err)
		assert.Equal(t, "", movie.Overview)
	})

	t.Run("null fields use defaults", func(t *testing.T) {
		movie, err := DecodeRecord(json.RawMessage(`{"title":null,"rating":null,"overview":null}`))
		require.NoError(t, err)
		assert.Equal(t, DefaultTitle, movie.Title)
		assert.Equal(t, DefaultOverview, movie.Overview)
		assert.Zero(t, movie.VoteAverage)
	})

	t.Run("string rating", func(t *testing.T) {
		movie, err := DecodeRecord(json.RawMessage(`{"rating":"8.2"}`))
		require.NoError(t, err)
		assert.Equal(t, 8.2, movie.VoteAverage)
	})

	t.Run("stored card fields", func(t *testing.T) {
		movie, err := DecodeRecord(json.RawMessage(`{"adult":true,"popularity":3.5,"vote_count":12,"genre_ids":[28],"original_language":"fr","video":true}`))
		require.NoError(t, err)
		assert.True(t, movie.Adult)
		assert.Equal(t, 3.5, movie.Popularity)
		assert.Equal(t, 12, movie.VoteCount)
		assert.Equal(t, []int{28}, movie.GenreIDs)
		assert.Equal(t, "fr", movie.OriginalLanguage)
		assert.True(t, movie.Video)
	})
}

func TestDecodeCollection_TagsNonObjects(t *testing.T) {
	entries, err := SplitCollection([]byte(`[{"id":"1"}, 42, "text", null, {"id":"2"}]`))
	require.NoError(t, err)

	results := DecodeCollection(entries)
	require.Len(t, results, 5)

	var ok []string
	for _, r := range results {
		if r.OK() {
			ok = append(ok, r.Movie.ID)
			continue
		}
		assert.ErrorIs(t, r.Err, ErrNotAnObject)
	}
	assert.Equal(t, []string{"1", "2"}, ok)
	assert.Equal(t, 4, results[4].Index)
}

func TestSplitCollection(t *testing.T) {
	entries, err := SplitCollection(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = SplitCollection([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	_, err = SplitCollection([]byte(`{"movies":[]}`))
	assert.ErrorIs(t, err, ErrCorruptCollection)

	_, err = SplitCollection([]byte(`[{"id":1},`))
	assert.ErrorIs(t, err, ErrCorruptCollection)
}

func TestJoinCollection_PreservesEntryBytes(t *testing.T) {
	blob := []byte(`[ {"id": "1",  "title": "spaced"} ,{"id":"2"}]`)

	entries, err := SplitCollection(blob)
	require.NoError(t, err)

	joined := JoinCollection(entries)
	assert.Equal(t, `[{"id": "1",  "title": "spaced"},{"id":"2"}]`, string(joined))
	assert.Equal(t, "[]", string(JoinCollection(nil)))
}

func TestRecordID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"id":"abc"}`, "abc"},
		{`{"id":1718000000000}`, "1718000000000"},
		{`{"id":1.718e12}`, "1718000000000"},
		{`{"id":null}`, ""},
		{`{}`, ""},
	}
	for _, tt := range tests {
		id, ok := EntryID(json.RawMessage(tt.raw))
		require.True(t, ok)
		assert.Equal(t, tt.want, id, tt.raw)
	}

	_, ok := EntryID(json.RawMessage(`[1]`))
	assert.False(t, ok)
}

func TestMergeForm_KeepsUnknownFields(t *testing.T) {
	raw := json.RawMessage(`{"id":1718000000000,"title":"Old","rating":5,"custom":{"watched":true}}`)
	form := validForm()

	merged, err := MergeForm(raw, form)
	require.NoError(t, err)

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal(merged, &obj))
	assert.Equal(t, float64(1718000000000), obj["id"])
	assert.Equal(t, "Arrival", obj["title"])
	assert.Equal(t, 7.9, obj["rating"])
	assert.Equal(t, true, obj["isOwn"])
	assert.Equal(t, map[string]interface{}{"watched": true}, obj["custom"])

	_, err = MergeForm(json.RawMessage(`"nope"`), form)
	assert.ErrorIs(t, err, ErrNotAnObject)
}
