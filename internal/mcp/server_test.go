// ABOUTME: Tests for MCP server handlers
// ABOUTME: Runs tools, the today resource, and the prompt against a resolver over a scripted source

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/apod/internal/fetch"
	"github.com/harper/apod/internal/models"
	"github.com/harper/apod/internal/resolve"
	"github.com/harper/apod/internal/timeutil"
)

type stubSource struct {
	have    map[string]bool
	down    bool
	queried []string
}

func (s *stubSource) Fetch(_ context.Context, d time.Time) (*models.Record, error) {
	ds := timeutil.Format(d)
	s.queried = append(s.queried, ds)
	if s.down {
		return nil, &fetch.Error{Kind: fetch.KindTransport, Date: ds, Msg: "service unavailable", StatusCode: 503}
	}
	if !s.have[ds] {
		return nil, &fetch.Error{Kind: fetch.KindNotFound, Date: ds, Err: fetch.ErrNotFound}
	}
	return &models.Record{
		Date:        ds,
		Title:       "Picture " + ds,
		Explanation: "A <b>galaxy</b> far away.",
		MediaType:   models.MediaImage,
		URL:         "https://apod.nasa.gov/apod/image/" + ds + ".jpg",
	}, nil
}

// testServer returns a server whose resolver thinks today is 2024-05-10 in UTC.
func testServer(t *testing.T, have ...string) (*Server, *stubSource) {
	t.Helper()

	src := &stubSource{have: map[string]bool{}}
	for _, d := range have {
		src.have[d] = true
	}
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	r := resolve.New(src, resolve.WithClock(func() time.Time { return now }), resolve.WithLocation(time.UTC))

	return NewServer(r, "test", nil), src
}

func decodeOutput(t *testing.T, result *mcp.CallToolResult) APODOutput {
	t.Helper()
	var output APODOutput
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	return output
}

func TestHandleGetAPOD_NoDateUsesInitialMode(t *testing.T) {
	s, src := testServer(t, "2024-05-09")

	result, err := s.handleGetAPOD(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetAPOD: %v", err)
	}
	output := decodeOutput(t, result)

	if output.Status != "resolved" {
		t.Fatalf("status = %q, want resolved", output.Status)
	}
	if output.Mode != "initial" {
		t.Errorf("mode = %q, want initial", output.Mode)
	}
	if output.EffectiveDate != "2024-05-09" {
		t.Errorf("effective_date = %q, want 2024-05-09", output.EffectiveDate)
	}
	if !strings.Contains(output.Notice, "yesterday") {
		t.Errorf("unexpected notice %q", output.Notice)
	}
	if !strings.Contains(output.Markdown, "**galaxy**") {
		t.Errorf("expected explanation converted to markdown, got %q", output.Markdown)
	}
	if len(src.queried) != 2 {
		t.Errorf("expected 2 queries, got %v", src.queried)
	}
}

func TestHandleGetAPOD_ExplicitDateFallsBack(t *testing.T) {
	s, _ := testServer(t, "2024-03-01")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"date": "2024-03-03"}
	result, err := s.handleGetAPOD(context.Background(), req)
	if err != nil {
		t.Fatalf("handleGetAPOD: %v", err)
	}
	output := decodeOutput(t, result)

	if output.RequestedDate != "2024-03-03" || output.EffectiveDate != "2024-03-01" {
		t.Errorf("requested/effective = %s/%s, want 2024-03-03/2024-03-01", output.RequestedDate, output.EffectiveDate)
	}
	if output.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", output.Attempts)
	}
	if output.Record == nil || output.Record.Title != "Picture 2024-03-01" {
		t.Errorf("unexpected record %+v", output.Record)
	}
}

func TestHandleGetAPOD_Exhausted(t *testing.T) {
	s, src := testServer(t)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"date": "2024-01-20"}
	result, err := s.handleGetAPOD(context.Background(), req)
	if err != nil {
		t.Fatalf("handleGetAPOD: %v", err)
	}
	output := decodeOutput(t, result)

	if output.Status != "unresolved" || output.Reason != "exhausted" {
		t.Errorf("status/reason = %s/%s, want unresolved/exhausted", output.Status, output.Reason)
	}
	if len(src.queried) != resolve.MaxBackwardSteps+1 {
		t.Errorf("expected %d queries, got %d", resolve.MaxBackwardSteps+1, len(src.queried))
	}
}

func TestHandleGetAPOD_Transport(t *testing.T) {
	s, src := testServer(t)
	src.down = true

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"date": "2024-01-20"}
	result, err := s.handleGetAPOD(context.Background(), req)
	if err != nil {
		t.Fatalf("handleGetAPOD: %v", err)
	}
	output := decodeOutput(t, result)

	if output.Reason != "transport" {
		t.Errorf("reason = %q, want transport", output.Reason)
	}
	if !strings.Contains(output.Error, "service unavailable") {
		t.Errorf("expected upstream error in output, got %q", output.Error)
	}
	if output.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", output.Attempts)
	}
}

func TestHandleGetAPOD_InvalidInput(t *testing.T) {
	s, src := testServer(t)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"unparseable date", map[string]interface{}{"date": "May 3rd"}},
		{"before floor", map[string]interface{}{"date": "1995-06-15"}},
		{"after today", map[string]interface{}{"date": "2024-05-11"}},
		{"unknown mode", map[string]interface{}{"mode": "sideways"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = tt.args
			if _, err := s.handleGetAPOD(context.Background(), req); err == nil {
				t.Error("expected error")
			}
		})
	}

	if len(src.queried) != 0 {
		t.Errorf("invalid input must not query upstream, got %v", src.queried)
	}
}

func TestHandleGetAPOD_InvalidDateWrapsSentinel(t *testing.T) {
	s, _ := testServer(t)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"date": "1990-01-01"}
	_, err := s.handleGetAPOD(context.Background(), req)
	if !errors.Is(err, resolve.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestHandleCheckToday(t *testing.T) {
	t.Run("published", func(t *testing.T) {
		s, _ := testServer(t, "2024-05-10")
		result, err := s.handleCheckToday(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("handleCheckToday: %v", err)
		}
		output := decodeOutput(t, result)
		if output.Status != "resolved" || output.EffectiveDate != "2024-05-10" {
			t.Errorf("unexpected output %+v", output)
		}
	})

	t.Run("not yet published", func(t *testing.T) {
		s, src := testServer(t, "2024-05-09")
		result, err := s.handleCheckToday(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("handleCheckToday: %v", err)
		}
		output := decodeOutput(t, result)
		if output.Status != "needs_confirmation" {
			t.Errorf("status = %q, want needs_confirmation", output.Status)
		}
		if output.Record != nil {
			t.Error("today check must not fall back")
		}
		if len(src.queried) != 1 {
			t.Errorf("expected only today to be queried, got %v", src.queried)
		}
	})
}

func TestHandleGetAPOD_ExplicitModeWithoutDateStartsToday(t *testing.T) {
	s, _ := testServer(t, "2024-05-07")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"mode": "explicit"}
	result, err := s.handleGetAPOD(context.Background(), req)
	if err != nil {
		t.Fatalf("handleGetAPOD: %v", err)
	}
	output := decodeOutput(t, result)

	if output.RequestedDate != "2024-05-10" || output.EffectiveDate != "2024-05-07" {
		t.Errorf("requested/effective = %s/%s", output.RequestedDate, output.EffectiveDate)
	}
}

func TestHandleTodayResource(t *testing.T) {
	s, _ := testServer(t, "2024-05-10")

	req := mcp.ReadResourceRequest{}
	req.Params.URI = todayResourceURI
	contents, err := s.handleTodayResource(context.Background(), req)
	if err != nil {
		t.Fatalf("handleTodayResource: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(contents))
	}

	text := contents[0].(*mcp.TextResourceContents).Text
	var data struct {
		Metadata ResourceMetadata `json:"metadata"`
		Data     APODOutput       `json:"data"`
	}
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		t.Fatalf("unmarshal resource: %v", err)
	}
	if data.Metadata.ResourceURI != todayResourceURI {
		t.Errorf("resource_uri = %q", data.Metadata.ResourceURI)
	}
	if data.Data.EffectiveDate != "2024-05-10" {
		t.Errorf("effective_date = %q, want 2024-05-10", data.Data.EffectiveDate)
	}
}

func TestHandleExplainPrompt(t *testing.T) {
	s, _ := testServer(t)

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"date": "2024-01-01", "audience": "a ten year old"}
	result, err := s.handleExplainPrompt(context.Background(), req)
	if err != nil {
		t.Fatalf("handleExplainPrompt: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Messages))
	}
	text := result.Messages[0].Content.(mcp.TextContent).Text
	for _, want := range []string{`"2024-01-01"`, "a ten year old", "get_apod"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	result, err = s.handleExplainPrompt(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("handleExplainPrompt (defaults): %v", err)
	}
	if !strings.Contains(result.Description, "most recent") {
		t.Errorf("unexpected description %q", result.Description)
	}
}
