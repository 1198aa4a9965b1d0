// ABOUTME: Presentation helpers for APOD records
// ABOUTME: Converts HTML explanations to Markdown, builds display documents, and date notices

package content

import (
	"fmt"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/harper/apod/internal/models"
	"github.com/harper/apod/internal/timeutil"
)

// htmlTags are the elements that mark an explanation as HTML.
var htmlTags = map[string]bool{
	"html": true, "body": true, "p": true, "div": true, "span": true, "a": true,
	"br": true, "img": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "ul": true, "ol": true, "li": true, "table": true,
	"tr": true, "td": true, "th": true, "strong": true, "em": true, "b": true,
	"i": true, "code": true, "pre": true, "blockquote": true,
}

// IsHTML checks if content appears to be HTML
func IsHTML(content string) bool {
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.DoctypeToken:
			return true
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if htmlTags[string(name)] {
				return true
			}
		}
	}
}

// ToMarkdown converts HTML content to Markdown
// If the content doesn't appear to be HTML, returns it unchanged
func ToMarkdown(content string) string {
	if content == "" {
		return content
	}

	if !IsHTML(content) {
		return content
	}

	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return content
	}

	return strings.TrimSpace(markdown)
}

// Document renders a record as a Markdown document for terminal display.
func Document(rec *models.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rec.Title)
	fmt.Fprintf(&b, "*%s · © %s*\n\n", rec.Date, rec.CopyrightHolder())

	label := "Image"
	if rec.MediaType == models.MediaVideo {
		label = "Video"
	}
	fmt.Fprintf(&b, "**%s:** %s\n\n", label, rec.URL)
	if rec.HDURL != nil && *rec.HDURL != "" {
		fmt.Fprintf(&b, "**HD:** %s\n\n", *rec.HDURL)
	}

	if rec.Explanation != "" {
		b.WriteString(ToMarkdown(rec.Explanation))
		b.WriteString("\n")
	} else {
		b.WriteString("_(No explanation available)_\n")
	}

	return b.String()
}

// Notice explains why the displayed date differs from the one requested.
// It returns "" when they match.
func Notice(requested, effective, today time.Time) string {
	if timeutil.SameDay(requested, effective) {
		return ""
	}
	if timeutil.SameDay(requested, today) && timeutil.SameDay(effective, timeutil.PreviousDay(today)) {
		return "Today's APOD hasn't been published yet. Showing yesterday's picture."
	}
	if timeutil.SameDay(requested, today) {
		return fmt.Sprintf("Today's APOD hasn't been published yet. Showing the most recent available APOD from %s.", timeutil.FormatDisplay(effective))
	}
	return fmt.Sprintf("No APOD was found for %s. Showing the most recent available APOD from %s.",
		timeutil.FormatDisplay(requested), timeutil.FormatDisplay(effective))
}
