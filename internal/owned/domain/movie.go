package domain

// Read-side defaults for fields a stored record leaves out.
const (
	DefaultTitle            = "Untitled"
	DefaultOverview         = "No overview available."
	DefaultOriginalLanguage = "unknown"
	DefaultReleaseDate      = "0000-00-00"
)

// Vocabulary is the fixed genre list offered by the add/edit form.
// Genre input is not restricted to it.
var Vocabulary = []string{
	"Action",
	"Adventure",
	"Animation",
	"Comedy",
	"Crime",
	"Documentary",
	"Drama",
	"Fantasy",
	"Horror",
	"Mystery",
	"Romance",
	"Sci-Fi",
	"Thriller",
	"Western",
}

// MovieFormValues is the write-side shape of an own movie.
type MovieFormValues struct {
	Title       string  `json:"title"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	Genre       string  `json:"genre"`
	ReleaseDate string  `json:"releaseDate"`
	Overview    string  `json:"overview"`
}

// StoredRecord is the persisted shape written for a new own movie.
type StoredRecord struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	Genre       string  `json:"genre"`
	ReleaseDate string  `json:"releaseDate"`
	Overview    string  `json:"overview"`
	IsOwn       bool    `json:"isOwn"`
}

// NewStoredRecord builds the record persisted for a created movie.
func NewStoredRecord(id string, form MovieFormValues) StoredRecord {
	return StoredRecord{
		ID:          id,
		Title:       form.Title,
		Image:       form.Image,
		Rating:      form.Rating,
		Genre:       form.Genre,
		ReleaseDate: form.ReleaseDate,
		Overview:    form.Overview,
		IsOwn:       true,
	}
}

// OwnMovie is the canonical read shape of a stored record. It has the
// same card fields as a catalog movie plus the isOwn marker.
type OwnMovie struct {
	Adult            bool     `json:"adult"`
	BackdropPath     string   `json:"backdrop_path"`
	GenreIDs         []int    `json:"genre_ids"`
	Genres           []string `json:"genres"`
	ID               string   `json:"id"`
	OriginalLanguage string   `json:"original_language"`
	OriginalTitle    string   `json:"original_title"`
	Overview         string   `json:"overview"`
	Popularity       float64  `json:"popularity"`
	PosterPath       string   `json:"poster_path"`
	ReleaseDate      string   `json:"release_date"`
	Title            string   `json:"title"`
	Video            bool     `json:"video"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	IsOwn            *bool    `json:"isOwn,omitempty"`

	// Form holds the stored values without read defaults, for edit forms.
	Form MovieFormValues `json:"-"`
}
