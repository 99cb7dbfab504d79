package assets

import (
	"strings"
	"testing"
)

func TestWidgetHTML_Embedded(t *testing.T) {
	html := WidgetHTML()
	if !strings.Contains(html, `id="hydration-root"`) {
		t.Fatalf("widget markup missing root element: %q", html)
	}
}
