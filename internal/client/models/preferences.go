package models

import (
	"fmt"
	"strings"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeMixed Theme = "mixed"
)

// AllThemes lists the theme markers; exactly one is active at a time.
var AllThemes = []Theme{ThemeLight, ThemeDark, ThemeMixed}

func ParseTheme(s string) (Theme, error) {
	for _, t := range AllThemes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

type MenuPosition string

const (
	MenuVertical   MenuPosition = "vertical"
	MenuHorizontal MenuPosition = "horizontal"
)

func ParseMenuPosition(s string) (MenuPosition, error) {
	switch MenuPosition(strings.ToLower(s)) {
	case MenuVertical:
		return MenuVertical, nil
	case MenuHorizontal:
		return MenuHorizontal, nil
	}
	return "", fmt.Errorf("unknown menu position %q", s)
}

type LayoutWidth string

const (
	LayoutFull      LayoutWidth = "full"
	LayoutContained LayoutWidth = "contained"
)

func ParseLayoutWidth(s string) (LayoutWidth, error) {
	switch LayoutWidth(strings.ToLower(s)) {
	case LayoutFull:
		return LayoutFull, nil
	case LayoutContained:
		return LayoutContained, nil
	}
	return "", fmt.Errorf("unknown layout width %q", s)
}

// Preferences is the UI-only state persisted per installation.
type Preferences struct {
	Theme        Theme
	MenuPosition MenuPosition
	LayoutWidth  LayoutWidth
	// SelectedBranchID is nil when no branch is selected.
	SelectedBranchID *int64
}

// DefaultPreferences is what a fresh installation starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:        ThemeLight,
		MenuPosition: MenuVertical,
		LayoutWidth:  LayoutFull,
	}
}
