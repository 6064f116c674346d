package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
)

func TestServeUntilDoneReturnsListenerFailure(t *testing.T) {
	logger := zerolog.Nop()
	listenErr := errors.New("listen tcp :8080: bind: address already in use")

	shutdowns := 0
	err := serveUntilDone(t.Context(), &logger,
		func() error { return listenErr },
		func(context.Context) error { shutdowns++; return nil },
	)
	if !errors.Is(err, listenErr) {
		t.Fatalf("serveUntilDone() error = %v, want %v", err, listenErr)
	}
	if shutdowns != 1 {
		t.Errorf("shutdown called %d times, want 1", shutdowns)
	}
}

func TestServeUntilDoneStopsOnCancel(t *testing.T) {
	logger := zerolog.Nop()
	ctx, cancel := context.WithCancel(t.Context())

	stopped := make(chan struct{})
	start := func() error {
		<-stopped
		return http.ErrServerClosed
	}
	shutdown := func(context.Context) error {
		close(stopped)
		return nil
	}

	cancel()
	if err := serveUntilDone(ctx, &logger, start, shutdown); err != nil {
		t.Fatalf("serveUntilDone() error = %v, want nil", err)
	}
}

func TestServeUntilDoneReportsShutdownFailure(t *testing.T) {
	logger := zerolog.Nop()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	shutdownErr := errors.New("failed to close database connection")
	block := make(chan struct{})
	defer close(block)

	err := serveUntilDone(ctx, &logger,
		func() error { <-block; return http.ErrServerClosed },
		func(context.Context) error { return shutdownErr },
	)
	if !errors.Is(err, shutdownErr) {
		t.Fatalf("serveUntilDone() error = %v, want %v", err, shutdownErr)
	}
}
