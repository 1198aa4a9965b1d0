// ABOUTME: MCP tool definitions and handlers for APOD lookups
// ABOUTME: get_apod resolves a date with fallback; check_today never falls back silently

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/apod/internal/content"
	"github.com/harper/apod/internal/models"
	"github.com/harper/apod/internal/resolve"
	"github.com/harper/apod/internal/timeutil"
)

type GetAPODInput struct {
	Date *string `json:"date,omitempty"`
	Mode *string `json:"mode,omitempty"`
}

// APODOutput is the JSON shape returned by every tool and the today resource.
type APODOutput struct {
	Status        string         `json:"status"`
	Mode          string         `json:"mode"`
	RequestedDate string         `json:"requested_date"`
	EffectiveDate string         `json:"effective_date,omitempty"`
	Notice        string         `json:"notice,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Error         string         `json:"error,omitempty"`
	Message       string         `json:"message,omitempty"`
	Attempts      int            `json:"attempts"`
	Record        *models.Record `json:"record,omitempty"`
	Markdown      string         `json:"markdown,omitempty"`
}

func (s *Server) registerTools() {
	s.registerGetAPODTool()
	s.registerCheckTodayTool()
}

func (s *Server) registerGetAPODTool() {
	tool := mcp.Tool{
		Name:        "get_apod",
		Description: "Get NASA's Astronomy Picture of the Day. With no date, returns today's picture or yesterday's if today's is not published yet. With a date, returns that day's picture, falling back up to 7 earlier days when the date has no entry. The response reports both the requested and the effective date.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Date to look up: 'today', 'yesterday', or YYYY-MM-DD between 1995-06-16 and today. Omit for the most recent picture.",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Resolution mode: 'initial', 'explicit', or 'today-check'. Defaults to 'initial' without a date and 'explicit' with one.",
					"enum":        []string{"initial", "explicit", "today-check"},
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleGetAPOD)
}

func (s *Server) registerCheckTodayTool() {
	tool := mcp.Tool{
		Name:        "check_today",
		Description: "Check whether today's Astronomy Picture of the Day has been published. Returns the picture when it exists. Otherwise returns status 'needs_confirmation' without falling back; ask the user before calling get_apod with mode 'explicit' and date 'today' to get the latest available picture.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleCheckToday)
}

func (s *Server) handleGetAPOD(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetAPODInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	date := time.Time{}
	mode := resolve.ModeInitial
	if input.Date != nil && strings.TrimSpace(*input.Date) != "" {
		d, err := timeutil.ParseDay(*input.Date, time.Now(), s.resolver.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		date = d
		mode = resolve.ModeExplicit
	}
	if input.Mode != nil && strings.TrimSpace(*input.Mode) != "" {
		m, err := resolve.ParseMode(*input.Mode)
		if err != nil {
			return nil, fmt.Errorf("invalid mode: %w", err)
		}
		mode = m
	}
	if mode == resolve.ModeExplicit && date.IsZero() {
		date = s.resolver.Today()
	}

	return s.resolveToResult(ctx, date, mode)
}

func (s *Server) handleCheckToday(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.resolveToResult(ctx, s.resolver.Today(), resolve.ModeTodayCheck)
}

func (s *Server) resolveToResult(ctx context.Context, date time.Time, mode resolve.Mode) (*mcp.CallToolResult, error) {
	output, err := s.resolveOutput(ctx, date, mode)
	if err != nil {
		return nil, err
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// resolveOutput runs one resolution and converts it to APODOutput.
// Out-of-range dates are the only error; upstream failures are reported
// in the output so agents can decide whether to retry.
func (s *Server) resolveOutput(ctx context.Context, date time.Time, mode resolve.Mode) (APODOutput, error) {
	res, err := s.resolver.Resolve(ctx, date, mode)
	if err != nil {
		if errors.Is(err, resolve.ErrInvalidDate) {
			return APODOutput{}, fmt.Errorf("invalid date: %w", err)
		}
		return APODOutput{}, fmt.Errorf("failed to resolve APOD: %w", err)
	}
	s.logger.Debug("mcp resolution", "mode", mode, "status", res.Status, "attempts", res.Attempts)

	return buildOutput(res, s.resolver.Today()), nil
}

func buildOutput(res resolve.Result, today time.Time) APODOutput {
	output := APODOutput{
		Status:        res.Status.String(),
		Mode:          res.Mode.String(),
		RequestedDate: timeutil.Format(res.RequestedDate),
		Reason:        res.Reason.String(),
		Attempts:      res.Attempts,
	}

	switch res.Status {
	case resolve.StatusResolved:
		output.EffectiveDate = timeutil.Format(res.EffectiveDate)
		output.Notice = content.Notice(res.RequestedDate, res.EffectiveDate, today)
		output.Record = res.Record
		output.Markdown = content.Document(res.Record)
	case resolve.StatusNeedsConfirmation:
		output.Message = "Today's APOD hasn't been published yet. Ask the user before fetching the latest available picture with get_apod (mode 'explicit', date 'today')."
	case resolve.StatusUnresolved:
		if res.Reason == resolve.ReasonExhausted {
			output.Message = "No APOD found in the searched range. Try a different date."
		} else {
			output.Message = "The APOD service could not be reached. Retrying may help."
		}
		if res.Err != nil {
			output.Error = res.Err.Error()
		}
	}

	return output
}
