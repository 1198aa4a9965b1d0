// ABOUTME: Tests for APOD presentation helpers
// ABOUTME: Validates HTML detection, Markdown conversion, documents, and date notices

package content

import (
	"strings"
	"testing"
	"time"

	"github.com/harper/apod/internal/models"
)

func TestIsHTML(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{"plain text", "This is just plain text without any HTML.", false},
		{"paragraph tag", "<p>This is a paragraph.</p>", true},
		{"link tag", "Check out <a href=\"https://example.com\">this link</a>.", true},
		{"DOCTYPE", "<!DOCTYPE html><html><body>Test</body></html>", true},
		{"br tag", "Line one<br>Line two", true},
		{"empty string", "", false},
		{"angle brackets but not HTML", "5 < 10 and 10 > 5", false},
		{"unknown tag", "the <galaxy> is big", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHTML(tt.content); got != tt.expected {
				t.Errorf("IsHTML(%q) = %v, want %v", tt.content, got, tt.expected)
			}
		})
	}
}

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "plain text unchanged",
			input:    "Just plain text here.",
			contains: []string{"Just plain text here."},
		},
		{
			name:     "link to markdown",
			input:    "See <a href=\"https://apod.nasa.gov/\">APOD</a> for more.",
			contains: []string{"[APOD]", "(https://apod.nasa.gov/)"},
			excludes: []string{"<a", "</a>"},
		},
		{
			name:     "bold to markdown",
			input:    "<strong>Bold text</strong>",
			contains: []string{"**Bold text**"},
			excludes: []string{"<strong>"},
		},
		{
			name:  "empty string",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToMarkdown(tt.input)
			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("ToMarkdown() result should contain %q, got %q", s, result)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(result, s) {
					t.Errorf("ToMarkdown() result should NOT contain %q, got %q", s, result)
				}
			}
		})
	}
}

func TestDocument(t *testing.T) {
	hd := "https://apod.nasa.gov/apod/image/2403/pi_big.jpg"
	rec := &models.Record{
		Date:        "2024-03-14",
		Title:       "Pi in the Sky",
		Explanation: "A circular <em>halo</em>.",
		MediaType:   models.MediaImage,
		URL:         "https://apod.nasa.gov/apod/image/2403/pi.jpg",
		HDURL:       &hd,
	}

	doc := Document(rec)
	for _, want := range []string{"# Pi in the Sky", "2024-03-14", "Public Domain", "**Image:**", "**HD:** " + hd, "*halo*"} {
		if !strings.Contains(doc, want) {
			t.Errorf("Document() missing %q:\n%s", want, doc)
		}
	}

	rec.MediaType = models.MediaVideo
	rec.HDURL = nil
	rec.Explanation = ""
	doc = Document(rec)
	if !strings.Contains(doc, "**Video:**") {
		t.Errorf("expected video label:\n%s", doc)
	}
	if strings.Contains(doc, "**HD:**") {
		t.Errorf("unexpected HD line:\n%s", doc)
	}
	if !strings.Contains(doc, "No explanation available") {
		t.Errorf("expected placeholder for empty explanation:\n%s", doc)
	}
}

func TestNotice(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC) }
	today := day(10)

	tests := []struct {
		name      string
		requested time.Time
		effective time.Time
		want      string
	}{
		{"exact", day(8), day(8), ""},
		{"today fell back to yesterday", today, day(9), "Today's APOD hasn't been published yet. Showing yesterday's picture."},
		{"today fell back further", today, day(7), "Showing the most recent available APOD from May 7, 2024."},
		{"past date fell back", day(5), day(4), "No APOD was found for May 5, 2024. Showing the most recent available APOD from May 4, 2024."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Notice(tt.requested, tt.effective, today)
			if tt.want == "" {
				if got != "" {
					t.Errorf("expected no notice, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Notice() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
