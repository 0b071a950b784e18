package cli

import (
	"context"
	"os"

	"github.com/gabapcia/chainledger/internal/handlers/httpapi"
	"github.com/gabapcia/chainledger/internal/txpoll"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the chainledger CLI application.
//
// It registers the available commands:
//
//   - `serve`: runs the poll scheduler and the verification HTTP API.
//   - `poll`: performs one synchronous reconciliation pass and exits.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - poller: the txpoll service implementation used by both commands.
//   - api: the HTTP handler surface started by the serve command.
//   - listenAddr: the default address the serve command binds to.
func Run(ctx context.Context, poller txpoll.Service, api *httpapi.Server, listenAddr string) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "chainledger",
		Description:           "Command-line interface for running the chainledger reconciliation service.",
		Usage:                 "chainledger [command] [flags]",
		Commands: []*cli.Command{
			serveCommand(poller, api, listenAddr),
			pollOnceCommand(poller),
		},
	}

	return app.Run(ctx, os.Args)
}
