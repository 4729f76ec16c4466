package domain

import (
	"math"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minTitleLength    = 2
	maxTitleLength    = 100
	minOverviewLength = 10
	maxRating         = 10.0
)

// Validate checks every field and reports all failures at once.
func (f MovieFormValues) Validate() error {
	var errs ValidationErrors
	for _, check := range []func() *ValidationError{
		f.validateTitle,
		f.validateImage,
		f.validateRating,
		f.validateGenre,
		f.validateReleaseDate,
		f.validateOverview,
	} {
		if err := check(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalize trims surrounding whitespace from the text fields.
func (f MovieFormValues) Normalize() MovieFormValues {
	f.Title = strings.TrimSpace(f.Title)
	f.Image = strings.TrimSpace(f.Image)
	f.Genre = strings.TrimSpace(f.Genre)
	f.ReleaseDate = strings.TrimSpace(f.ReleaseDate)
	f.Overview = strings.TrimSpace(f.Overview)
	return f
}

func (f MovieFormValues) validateTitle() *ValidationError {
	n := utf8.RuneCountInString(strings.TrimSpace(f.Title))
	if n < minTitleLength {
		return NewValidationError("title", "Title is too short")
	}
	if n > maxTitleLength {
		return NewValidationError("title", "Title cannot be longer than 100 characters")
	}
	return nil
}

func (f MovieFormValues) validateImage() *ValidationError {
	u, err := url.ParseRequestURI(strings.TrimSpace(f.Image))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NewValidationError("image", "Invalid image URL")
	}
	return nil
}

func (f MovieFormValues) validateRating() *ValidationError {
	r := f.Rating
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 || r > maxRating {
		return NewValidationError("rating", "Rating must be between 0 and 10")
	}
	if tenths := r * 10; math.Abs(tenths-math.Round(tenths)) > 1e-9 {
		return NewValidationError("rating", "Rating must be a multiple of 0.1")
	}
	return nil
}

func (f MovieFormValues) validateGenre() *ValidationError {
	if strings.TrimSpace(f.Genre) == "" {
		return NewValidationError("genre", "Genre is required")
	}
	return nil
}

func (f MovieFormValues) validateReleaseDate() *ValidationError {
	if _, ok := ParseReleaseDate(f.ReleaseDate); !ok {
		return NewValidationError("releaseDate", "Invalid date")
	}
	return nil
}

func (f MovieFormValues) validateOverview() *ValidationError {
	if utf8.RuneCountInString(strings.TrimSpace(f.Overview)) < minOverviewLength {
		return NewValidationError("overview", "Overview is too short")
	}
	return nil
}

// ParseReleaseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
