package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// serve runs server on listener until ctx is cancelled, then shuts it down
// and returns only after in-flight requests have drained or timeout expired.
func serve(ctx context.Context, server *http.Server, listener net.Listener, timeout time.Duration, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	drained := make(chan error, 1)
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		drained <- server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-drained; err != nil {
		return errors.Join(errors.New("graceful shutdown failed"), err)
	}
	return nil
}
