package assets

import (
	_ "embed"
)

// WidgetURI is the resource address the MCP server publishes the widget under.
const WidgetURI = "ui://widget/hydration.html"

// WidgetMIME is the MIME type chat hosts expect for embeddable widgets.
const WidgetMIME = "text/html+skybridge"

//go:embed widget.html
var widgetHTML string

// WidgetHTML returns the embedded hydration widget markup.
func WidgetHTML() string {
	return widgetHTML
}
