package ui

import (
	"strings"
	"testing"

	"github.com/alfredjeanlab/carbon/internal/model"
)

func TestRenderBadge(t *testing.T) {
	SetColor(true)
	defer SetColor(true)

	for badge, code := range map[model.Badge]string{
		model.BadgeGreen:  "38;5;71m",
		model.BadgeYellow: "38;5;178m",
		model.BadgeRed:    "38;5;167m",
		"Purple":          "38;5;245m",
	} {
		got := RenderBadge(badge)
		if !strings.Contains(got, code) || !strings.Contains(got, string(badge)) {
			t.Errorf("RenderBadge(%q) = %q, want code %s", badge, got, code)
		}
	}

	ForceNoColor()
	if got := RenderBadge(model.BadgeRed); got != "Red" {
		t.Errorf("without color RenderBadge = %q", got)
	}
	if got := RenderAccent("x"); got != "x" {
		t.Errorf("without color RenderAccent = %q", got)
	}
}

func TestShouldUseColor(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		force    string
		clicolor string
		want     bool
	}{
		{"NoColorWins", "1", "1", "", false},
		{"Forced", "", "1", "", true},
		{"ClicolorOff", "", "", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("CLICOLOR_FORCE", tt.force)
			t.Setenv("CLICOLOR", tt.clicolor)
			if got := ShouldUseColor(); got != tt.want {
				t.Errorf("ShouldUseColor() = %v, want %v", got, tt.want)
			}
		})
	}
}
