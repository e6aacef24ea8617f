// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dominod-dev/talkoxid/chat"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusInput means keystrokes go to the message input.
	FocusInput FocusRegion = iota
	// FocusChannels means navigation keys move the channel cursor.
	FocusChannels
	// FocusMessages means navigation keys scroll the message log.
	FocusMessages
)

// channelPaneWidth is the fixed width of the left channel list;
// memberPaneWidth the fixed width of the right member list. The
// message log takes the remainder.
const (
	channelPaneWidth = 24
	memberPaneWidth  = 20
)

// EventMsg wraps a session event for delivery through the bubbletea
// message loop. The main program pumps the session's event channel
// into tea.Program.Send as EventMsg values.
type EventMsg struct {
	Event chat.UIEvent
}

// commandSentMsg is returned by the tea.Cmd that hands a command to
// the session, confirming delivery. Carries no data.
type commandSentMsg struct{}

// Model is the top-level bubbletea model for the chat client.
type Model struct {
	theme    Theme
	keys     KeyMap
	commands chan<- chat.Command

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	focusRegion FocusRegion

	// Channel list state.
	channels []chat.ChannelEntry
	cursor   int
	current  chat.Channel

	// Member list for the current channel.
	members []chat.RoomMember

	// Message log.
	log      viewport.Model
	logLines []string

	input textinput.Model

	// fatal, when non-empty, replaces the whole view with an error
	// banner. Any key exits.
	fatal string
}

// NewModel creates a Model that emits commands on the given channel.
// The session must drain the channel for the UI to stay responsive.
func NewModel(commands chan<- chat.Command) Model {
	input := textinput.New()
	input.Placeholder = "Message"
	input.Prompt = "> "
	input.Focus()

	return Model{
		theme:    DefaultTheme,
		keys:     DefaultKeyMap,
		commands: commands,
		input:    input,
	}
}

// Fail puts the model into the blocking error state. Used by the main
// program when startup fails before any session events arrive.
func (model *Model) Fail(text string) {
	model.fatal = text
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return textinput.Blink
}

// sendCommand returns a tea.Cmd that hands a command to the session.
// The send happens on the command goroutine bubbletea spawns, so a
// momentarily busy session never blocks rendering.
func (model Model) sendCommand(command chat.Command) tea.Cmd {
	commands := model.commands
	return func() tea.Msg {
		commands <- command
		return commandSentMsg{}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.layout()
		return model, nil

	case EventMsg:
		return model.applyEvent(message.Event)

	case tea.KeyMsg:
		if model.fatal != "" {
			return model, tea.Quit
		}
		return model.handleKey(message)
	}

	return model, nil
}

// applyEvent folds a session event into the model.
func (model Model) applyEvent(event chat.UIEvent) (tea.Model, tea.Cmd) {
	switch event := event.(type) {
	case chat.MessagesReplaced:
		model.logLines = nil
		if event.Content != "" {
			model.logLines = strings.Split(event.Content, "\n")
		}
		model.log.SetContent(strings.Join(model.logLines, "\n"))
		model.log.GotoBottom()

	case chat.MessageAppended:
		follow := model.log.AtBottom()
		model.logLines = append(model.logLines, event.Message.String())
		model.log.SetContent(strings.Join(model.logLines, "\n"))
		if follow {
			model.log.GotoBottom()
		}

	case chat.ChannelsUpdated:
		model.channels = sortedChannels(event.Channels)
		model.clampCursor()

	case chat.RoomMembersUpdated:
		model.members = event.Members

	case chat.ChannelSelected:
		model.current = event.Channel
		model.members = nil
		// Move the cursor to the selected channel so the list
		// highlight tracks selections made outside the list (the
		// initial channel, /direct).
		for index, entry := range model.channels {
			if entry.Channel == event.Channel {
				model.cursor = index
				break
			}
		}

	case chat.FatalError:
		model.fatal = event.Text
	}

	return model, nil
}

// sortedChannels orders entries for display: groups first, then
// private groups, then direct chats, ties broken by id.
func sortedChannels(entries []chat.ChannelEntry) []chat.ChannelEntry {
	sorted := make([]chat.ChannelEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(left, right int) bool {
		return sorted[left].Channel.Compare(sorted[right].Channel) > 0
	})
	return sorted
}

func (model *Model) clampCursor() {
	if model.cursor >= len(model.channels) {
		model.cursor = len(model.channels) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.Quit) {
		return model, tea.Quit
	}
	if key.Matches(message, model.keys.FocusNext) {
		model.focusRegion = (model.focusRegion + 1) % 3
		if model.focusRegion == FocusInput {
			model.input.Focus()
		} else {
			model.input.Blur()
		}
		return model, nil
	}

	switch model.focusRegion {
	case FocusChannels:
		switch {
		case key.Matches(message, model.keys.ChannelUp):
			if model.cursor > 0 {
				model.cursor--
			}
		case key.Matches(message, model.keys.ChannelDown):
			if model.cursor < len(model.channels)-1 {
				model.cursor++
			}
		case key.Matches(message, model.keys.OpenChannel):
			if model.cursor < len(model.channels) {
				selected := model.channels[model.cursor].Channel
				return model, model.sendCommand(chat.Init{Channel: selected})
			}
		}
		return model, nil

	case FocusMessages:
		var command tea.Cmd
		model.log, command = model.log.Update(message)
		return model, command

	default:
		if key.Matches(message, model.keys.Send) {
			text := strings.TrimSpace(model.input.Value())
			if text == "" {
				return model, nil
			}
			model.input.Reset()
			return model, model.sendCommand(chat.SendMessage{
				Text:    text,
				Channel: model.current,
			})
		}
		var command tea.Cmd
		model.input, command = model.input.Update(message)
		return model, command
	}
}

// layout sizes the message viewport from the terminal dimensions: the
// side panes have fixed widths, the input takes one line plus borders.
func (model *Model) layout() {
	logWidth := model.width - channelPaneWidth - memberPaneWidth - 6
	if logWidth < 10 {
		logWidth = 10
	}
	logHeight := model.height - 5
	if logHeight < 3 {
		logHeight = 3
	}
	model.log.Width = logWidth
	model.log.Height = logHeight
	model.log.SetContent(strings.Join(model.logLines, "\n"))
	model.log.GotoBottom()
	model.input.Width = model.width - 8
}

// View implements tea.Model.
func (model Model) View() string {
	if model.fatal != "" {
		return model.errorView()
	}
	if !model.ready {
		return "connecting..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		model.channelView(),
		model.logView(),
		model.memberView(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, model.inputView())
}

func (model Model) errorView() string {
	banner := lipgloss.NewStyle().
		Foreground(model.theme.ErrorForeground).
		Background(model.theme.ErrorBackground).
		Padding(1, 2).
		Render(model.fatal + "\n\npress any key to exit")
	if model.width == 0 {
		return banner
	}
	return lipgloss.Place(model.width, model.height, lipgloss.Center, lipgloss.Center, banner)
}

// paneStyle builds the bordered box for a pane, highlighting the
// border when the pane has focus.
func (model Model) paneStyle(focused bool) lipgloss.Style {
	borderColor := model.theme.BorderColor
	if focused {
		borderColor = model.theme.FocusedBorderColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor)
}

func (model Model) channelView() string {
	title := lipgloss.NewStyle().Foreground(model.theme.TitleForeground).Render("Channels")
	lines := []string{title}
	for index, entry := range model.channels {
		label := entry.Label
		style := lipgloss.NewStyle().Foreground(model.theme.NormalText)
		if entry.Channel == model.current {
			style = style.Foreground(model.theme.TitleForeground)
		}
		if model.focusRegion == FocusChannels && index == model.cursor {
			style = style.
				Background(model.theme.SelectedBackground).
				Foreground(model.theme.SelectedForeground)
		}
		lines = append(lines, style.Render(label))
	}
	return model.paneStyle(model.focusRegion == FocusChannels).
		Width(channelPaneWidth).
		Height(model.log.Height).
		Render(strings.Join(lines, "\n"))
}

func (model Model) logView() string {
	return model.paneStyle(model.focusRegion == FocusMessages).
		Width(model.log.Width).
		Height(model.log.Height).
		Render(model.log.View())
}

func (model Model) memberView() string {
	title := lipgloss.NewStyle().Foreground(model.theme.TitleForeground).Render("Users")
	lines := []string{title}
	style := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	for _, member := range model.members {
		lines = append(lines, style.Render(member.Username))
	}
	return model.paneStyle(false).
		Width(memberPaneWidth).
		Height(model.log.Height).
		Render(strings.Join(lines, "\n"))
}

func (model Model) inputView() string {
	return model.paneStyle(model.focusRegion == FocusInput).
		Width(model.width - 2).
		Render(model.input.View())
}
