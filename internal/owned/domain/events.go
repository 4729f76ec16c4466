package domain

import "github.com/narwhalmedia/marquee/pkg/events"

// Event types published for own-movie changes.
const (
	EventOwnMovieCreated = "own_movie.created"
	EventOwnMovieUpdated = "own_movie.updated"
	EventOwnMovieDeleted = "own_movie.deleted"
)

// NewOwnMovieCreatedEvent is published after a created movie is persisted
func NewOwnMovieCreatedEvent(id string, form MovieFormValues) *events.BaseEvent {
	return events.NewAggregateEvent(EventOwnMovieCreated, id, formData(form))
}

// NewOwnMovieUpdatedEvent is published after an update is persisted
func NewOwnMovieUpdatedEvent(id string, form MovieFormValues) *events.BaseEvent {
	return events.NewAggregateEvent(EventOwnMovieUpdated, id, formData(form))
}

// NewOwnMovieDeletedEvent is published after a delete is persisted
func NewOwnMovieDeletedEvent(id string) *events.BaseEvent {
	return events.NewAggregateEvent(EventOwnMovieDeleted, id, nil)
}

func formData(form MovieFormValues) map[string]interface{} {
	return map[string]interface{}{
		"title":       form.Title,
		"image":       form.Image,
		"rating":      form.Rating,
		"genre":       form.Genre,
		"releaseDate": form.ReleaseDate,
		"overview":    form.Overview,
	}
}

// EventTypes lists every own-movie event type.
var EventTypes = []string{
	EventOwnMovieCreated,
	EventOwnMovieUpdated,
	EventOwnMovieDeleted,
}
