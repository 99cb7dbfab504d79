package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ykvlv/hydration-bot/assets"
	"github.com/ykvlv/hydration-bot/internal/tracker"
)

// StatusURI addresses the JSON status snapshot.
const StatusURI = "hydration://status"

// Resources serves read-only hydration data to the host.
type Resources struct {
	tracker   *tracker.Tracker
	profileID int64
}

// NewResources creates a resource handler bound to one profile.
func NewResources(tr *tracker.Tracker, profileID int64) *Resources {
	return &Resources{tracker: tr, profileID: profileID}
}

// StatusResource returns the MCP resource definition for the status snapshot.
func (r *Resources) StatusResource() mcp.Resource {
	return mcp.NewResource(
		StatusURI,
		"Hydration Status",
		mcp.WithResourceDescription("Today's intake, goal progress, settings and next reminder"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the current status as JSON.
func (r *Resources) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	st, err := r.tracker.Status(ctx, r.profileID)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	data, err := marshalStatus(st)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     data,
		},
	}, nil
}

// WidgetResource returns the MCP resource definition for the embeddable widget.
func (r *Resources) WidgetResource() mcp.Resource {
	return mcp.NewResource(
		assets.WidgetURI,
		"Hydration Widget",
		mcp.WithResourceDescription("Progress bar and next reminder, rendered inline by chat hosts"),
		mcp.WithMIMEType(assets.WidgetMIME),
	)
}

// HandleWidget returns the embedded widget markup.
func (r *Resources) HandleWidget(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      assets.WidgetURI,
			MIMEType: assets.WidgetMIME,
			Text:     assets.WidgetHTML(),
		},
	}, nil
}

func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
