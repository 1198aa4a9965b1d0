// ABOUTME: MCP resource providers for apod
// ABOUTME: Exposes the most recent picture as a read-only JSON resource

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/apod/internal/resolve"
)

const todayResourceURI = "apod://today"

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	ResourceURI string    `json:"resource_uri"`
}

func (s *Server) registerResources() {
	s.registerTodayResource()
}

func (s *Server) registerTodayResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         todayResourceURI,
			Name:        "Today's Astronomy Picture",
			Description: "Today's Astronomy Picture of the Day, or yesterday's when today's has not been published yet. Includes title, explanation, media URLs, and the effective date.",
			MIMEType:    "application/json",
		},
		s.handleTodayResource,
	)
}

func (s *Server) handleTodayResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	output, err := s.resolveOutput(ctx, time.Time{}, resolve.ModeInitial)
	if err != nil {
		return nil, err
	}

	resourceData := ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   time.Now(),
			ResourceURI: todayResourceURI,
		},
		Data: output,
		Links: map[string]string{
			"nasa_apod": "https://apod.nasa.gov/apod/astropix.html",
		},
	}

	jsonBytes, err := json.MarshalIndent(resourceData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
