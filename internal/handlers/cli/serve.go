package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabapcia/chainledger/internal/handlers/httpapi"
	"github.com/gabapcia/chainledger/internal/pkg/logger"
	"github.com/gabapcia/chainledger/internal/txpoll"

	"github.com/urfave/cli/v3"
)

const (
	serverReadTimeout     = 15 * time.Second
	serverWriteTimeout    = 60 * time.Second
	serverShutdownTimeout = 10 * time.Second
)

// serveCommand returns the CLI command that runs the full service: the
// background poll scheduler plus the verification HTTP API.
//
// Usage example:
//
//	chainledger serve --listen :8080
//
// The process runs until it receives SIGINT or SIGTERM.
func serveCommand(poller txpoll.Service, api *httpapi.Server, listenAddr string) *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Description: "Runs the wallet poll scheduler and the claim/payment verification HTTP API.",
		Usage:       "Starts the service. Terminates gracefully on Ctrl+C or termination signals.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address the HTTP API listens on",
				Value: listenAddr,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			if err := poller.Start(ctx); err != nil {
				return err
			}
			defer poller.Close()

			server := &http.Server{
				Addr:         c.String("listen"),
				Handler:      api.Router(),
				ReadTimeout:  serverReadTimeout,
				WriteTimeout: serverWriteTimeout,
			}

			serverErrCh := make(chan error, 1)
			go func() {
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					serverErrCh <- err
				}
			}()

			logger.Info(ctx, "chainledger serving", "listen", c.String("listen"))

			select {
			case err := <-serverErrCh:
				return err
			case <-quit:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		},
	}
}

// pollOnceCommand returns the CLI command that runs one synchronous poll
// pass over every registered wallet, useful for cron-style deployments and
// smoke tests.
//
// Usage example:
//
//	chainledger poll
func pollOnceCommand(poller txpoll.Service) *cli.Command {
	return &cli.Command{
		Name:        "poll",
		Description: "Fetches and records recent transactions for every registered wallet, then exits.",
		Usage:       "Runs a single reconciliation pass.",
		Action: func(ctx context.Context, c *cli.Command) error {
			return poller.Poll(ctx)
		},
	}
}
