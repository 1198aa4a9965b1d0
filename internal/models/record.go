// ABOUTME: Record model for a single Astronomy Picture of the Day entry
// ABOUTME: Mirrors the upstream JSON shape and exposes typed date and media helpers

package models

import (
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 calendar date format used by the APOD API.
const DateLayout = "2006-01-02"

// MediaType is the kind of media an APOD entry points at.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Valid reports whether m is one of the known media types.
func (m MediaType) Valid() bool {
	return m == MediaImage || m == MediaVideo
}

// Record is the content and metadata published for one calendar date.
// Records are never mutated after they are decoded.
type Record struct {
	Date           string    `json:"date"`
	Title          string    `json:"title"`
	Explanation    string    `json:"explanation"`
	MediaType      MediaType `json:"media_type"`
	URL            string    `json:"url"`
	HDURL          *string   `json:"hdurl,omitempty"`
	Copyright      *string   `json:"copyright,omitempty"`
	ServiceVersion string    `json:"service_version"`
}

// Day parses the record's date in loc.
func (r *Record) Day(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, r.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid record date %q: %w", r.Date, err)
	}
	return d, nil
}

// Validate checks that the fields the viewer depends on are present.
func (r *Record) Validate() error {
	if r.Date == "" {
		return fmt.Errorf("record has no date")
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("record date %q is not YYYY-MM-DD", r.Date)
	}
	if r.Title == "" {
		return fmt.Errorf("record %s has no title", r.Date)
	}
	if !r.MediaType.Valid() {
		return fmt.Errorf("record %s has unknown media type %q", r.Date, r.MediaType)
	}
	if r.URL == "" {
		return fmt.Errorf("record %s has no media URL", r.Date)
	}
	return nil
}

// BestURL returns the high resolution URL when present and requested,
// otherwise the standard media URL.
func (r *Record) BestURL(preferHD bool) string {
	if preferHD && r.HDURL != nil && *r.HDURL != "" {
		return *r.HDURL
	}
	return r.URL
}

// CopyrightHolder returns the credited copyright holder, or "Public Domain".
func (r *Record) CopyrightHolder() string {
	if r.Copyright != nil && *r.Copyright != "" {
		return *r.Copyright
	}
	return "Public Domain"
}
