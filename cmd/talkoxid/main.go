// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

// talkoxid is a terminal client for RocketChat. It connects to the
// server's realtime websocket API, logs in with the configured
// credentials, and presents channels, messages, and room members in a
// three-pane TUI.
//
// Configuration comes from a YAML file (default
// ~/.config/talkoxid/talkoxid.yaml), environment variables
// (TALKOXID_*), and command-line flags, in increasing precedence.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/dominod-dev/talkoxid/chat"
	"github.com/dominod-dev/talkoxid/config"
	"github.com/dominod-dev/talkoxid/rocketchat"
	"github.com/dominod-dev/talkoxid/tui"
)

// defaultChannel is the room every RocketChat deployment starts with;
// the client opens it until the user picks another.
const defaultChannel = "GENERAL"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var host string
	var username string
	var password string
	var insecureSkipVerify bool
	var logOutput string

	flagSet := pflag.NewFlagSet("talkoxid", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: ~/.config/talkoxid/talkoxid.yaml)")
	flagSet.StringVar(&host, "host", "", "server base URL, e.g. https://chat.example.com")
	flagSet.StringVar(&username, "username", "", "account username")
	flagSet.StringVar(&password, "password", "", "account password")
	flagSet.BoolVar(&insecureSkipVerify, "insecure-skip-verify", false, "disable TLS certificate verification")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if host != "" {
		settings.Hostname = host
	}
	if username != "" {
		settings.Username = username
	}
	if password != "" {
		settings.Password = password
	}
	if insecureSkipVerify {
		settings.InsecureSkipVerify = true
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if logOutput != "" {
		// The alt-screen display owns the terminal, so log records go
		// to a file rather than stderr.
		file, err := os.Create(logOutput)
		if err != nil {
			return fmt.Errorf("cannot open log file %s: %w", logOutput, err)
		}
		defer file.Close()
		logger = slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return runClient(settings, logger)
}

// runClient connects the session and runs the TUI until either side
// finishes. Session events flow into the program as tui.EventMsg;
// commands flow back through the channel the model emits on.
func runClient(settings *config.Config, logger *slog.Logger) error {
	events := make(chan chat.UIEvent, 64)
	commands := make(chan chat.Command, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := rocketchat.Connect(ctx, rocketchat.Config{
		Host:               settings.Hostname,
		Username:           settings.Username,
		Password:           settings.Password,
		InsecureSkipVerify: settings.InsecureSkipVerify,
		Events:             events,
		Commands:           commands,
		Logger:             logger,
	})
	if err != nil {
		// Startup failed before the TUI could show anything useful;
		// render the blocking error view so the user sees why.
		model := tui.NewModel(commands)
		model.Fail(err.Error())
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, runErr := program.Run(); runErr != nil {
			return runErr
		}
		return err
	}

	model := tui.NewModel(commands)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Pump session events into the bubbletea loop.
	go func() {
		for event := range events {
			program.Send(tui.EventMsg{Event: event})
		}
	}()

	// Run the session. When it fails while the TUI is up, the error
	// surfaces as the blocking fatal view; a clean end quits the
	// program. Sends to a finished program are no-ops, so the
	// post-quit cancellation error never reaches the user.
	sessionDone := make(chan error, 1)
	go func() {
		runErr := session.Run(ctx)
		sessionDone <- runErr
		if runErr != nil {
			logger.Error("session ended", "error", runErr)
			program.Send(tui.EventMsg{Event: chat.FatalError{Text: runErr.Error()}})
		} else {
			program.Quit()
		}
	}()

	// Open the default channel once the session is live.
	commands <- chat.Init{Channel: chat.GroupChannel(defaultChannel)}

	_, err = program.Run()

	// Stop the session loops and wait for them. The command channel
	// stays open: a late send from an in-flight tea.Cmd must not
	// panic, and cancellation alone ends the command loop.
	cancel()
	<-sessionDone
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `talkoxid — terminal client for RocketChat.

Connects to the server's realtime websocket API and shows channels,
messages, and room members in a three-pane terminal UI. Type a message
and press enter to send it; "/direct <username>" opens a direct chat.

Configuration is read from ~/.config/talkoxid/talkoxid.yaml (see
--config), overridden by TALKOXID_* environment variables, overridden
by flags.

Usage:
  talkoxid [flags]

Examples:
  # Connect with explicit credentials
  talkoxid --host https://chat.example.com --username alice --password secret

  # Use a config file and capture debug logs
  talkoxid --config ./talkoxid.yaml --log-output /tmp/talkoxid.log

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
