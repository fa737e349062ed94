// Command chatstream is a terminal client for a streaming chat backend.
//
// Usage:
//
//	chatstream [flags]
//
// Flags:
//
//	-base-url string  Backend base URL (overrides CHATSTREAM_BASE_URL; default http://localhost:8000)
//	-greeting string  Assistant greeting that seeds the conversation
//	-log string       Path to a debug log file (the TUI owns the terminal, so logs never go to stderr)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/fwojciec/chatstream"
	bt "github.com/fwojciec/chatstream/bubbletea"
	"github.com/fwojciec/chatstream/sse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chatstream: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		baseURL  = flag.String("base-url", "", "Backend base URL (overrides CHATSTREAM_BASE_URL)")
		greeting = flag.String("greeting", chatstream.DefaultGreeting, "Assistant greeting that seeds the conversation")
		logPath  = flag.String("log", "", "Path to a debug log file")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, closeLog, err := newLogger(*logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	client := sse.New(
		resolveBaseURL(*baseURL, os.Getenv("CHATSTREAM_BASE_URL")),
		sse.WithLogger(logger),
	)
	ctrl := chatstream.New(client,
		chatstream.WithGreeting(*greeting),
		chatstream.WithLogger(logger),
	)

	m := bt.New(ctrl, chatstream.DefaultTheme())
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// resolveBaseURL prefers the flag, then the environment, then the default
// loopback endpoint.
func resolveBaseURL(flagVal, envVal string) string {
	switch {
	case flagVal != "":
		return flagVal
	case envVal != "":
		return envVal
	default:
		return sse.DefaultBaseURL
	}
}

func newLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := zerolog.New(f).With().Timestamp().Logger()
	return logger, func() { _ = f.Close() }, nil
}
