// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the client. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected channel row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Pane chrome.
	BorderColor        lipgloss.Color
	FocusedBorderColor lipgloss.Color
	TitleForeground    lipgloss.Color

	// Fatal error banner.
	ErrorForeground lipgloss.Color
	ErrorBackground lipgloss.Color
}

// DefaultTheme is the built-in palette: muted chrome, bright titles,
// and a red error banner.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("238"),
	SelectedForeground: lipgloss.Color("255"),
	BorderColor:        lipgloss.Color("240"),
	FocusedBorderColor: lipgloss.Color("75"),
	TitleForeground:    lipgloss.Color("75"),
	ErrorForeground:    lipgloss.Color("231"),
	ErrorBackground:    lipgloss.Color("124"),
}
