// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides a workflow template for explaining an APOD to the user

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerExplainPrompt()
}

func (s *Server) registerExplainPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "explain-apod",
			Description: "Explain an Astronomy Picture of the Day in plain language, with the science behind it",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "date",
					Description: "Date of the picture: 'today', 'yesterday', or YYYY-MM-DD (default: most recent)",
					Required:    false,
				},
				{
					Name:        "audience",
					Description: "Who the explanation is for, e.g. 'a ten year old' (default: a curious adult)",
					Required:    false,
				},
			},
		},
		s.handleExplainPrompt,
	)
}

func (s *Server) handleExplainPrompt(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	date := ""
	audience := "a curious adult"
	if req.Params.Arguments != nil {
		if d, ok := req.Params.Arguments["date"]; ok && strings.TrimSpace(d) != "" {
			date = strings.TrimSpace(d)
		}
		if a, ok := req.Params.Arguments["audience"]; ok && strings.TrimSpace(a) != "" {
			audience = strings.TrimSpace(a)
		}
	}

	lookup := "Call `get_apod` with no arguments to get the most recent picture."
	subject := "the most recent picture"
	if date != "" {
		lookup = fmt.Sprintf("Call `get_apod` with `date` set to %q.", date)
		subject = "the picture for " + date
	}

	template := fmt.Sprintf(`# Explain an Astronomy Picture of the Day

## Overview
Explain %s to %s. Use NASA's own explanation as the source of truth and add context only where it helps understanding.

## Workflow Steps

### Step 1: Fetch the Picture
%s

**Check the response:**
- status "resolved": continue with the record
- a non-empty notice: the picture is from an earlier day than asked; tell the user which day it is from
- status "unresolved" with reason "exhausted": no picture exists near that date, suggest a different date
- status "unresolved" with reason "transport": the service could not be reached, offer to retry

### Step 2: Describe What Is Shown
- State the title and the effective date
- Say whether it is an image or a video and give the link (prefer the HD link for images)
- Credit the copyright holder

### Step 3: Explain the Science
- Summarize the explanation in your own words for %s
- Define any astronomy terms the explanation uses
- Give a sense of scale: distances, sizes, or timescales mentioned

### Step 4: Suggest Follow-ups
- One question the user might ask next
- Offer to look at the previous or next day's picture

## Tips
- Do not invent details that are not in the explanation
- Keep the summary shorter than the original explanation
`, subject, audience, lookup, audience)

	return &mcp.GetPromptResult{
		Description: "Workflow for explaining " + subject,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
