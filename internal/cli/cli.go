// Package cli is the command line entry point.
//
// It parses flags, bootstraps the application container and calls the
// service layer. The root command runs the demo script.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/deppfellow/usercrud/internal/app"
	"github.com/deppfellow/usercrud/internal/config"
	"github.com/deppfellow/usercrud/internal/errs"
	"github.com/deppfellow/usercrud/internal/lib/render"
	"github.com/deppfellow/usercrud/internal/logger"
	"github.com/deppfellow/usercrud/internal/model"
	"github.com/deppfellow/usercrud/internal/service"
	"github.com/deppfellow/usercrud/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Pinger checks that the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options replaces the default bootstrap. When Users is set no config is
// loaded and no database connection is opened.
type Options struct {
	Users  service.Service[model.User]
	Pinger Pinger
	Logger *zerolog.Logger
	NewID  func() string
}

// connectError marks failures to reach the database at startup.
type connectError struct {
	err error
}

func (e *connectError) Error() string { return e.err.Error() }
func (e *connectError) Unwrap() error { return e.err }

// runtime is the state shared by all commands of one invocation.
type runtime struct {
	opts          Options
	output        string
	format        render.Format
	logger        *zerolog.Logger
	loggerService *logger.LoggerService
	app           *app.App
	users         service.Service[model.User]
	pinger        Pinger
}

// bootstrap resolves the output format and, unless Options supplied a
// service, loads config and connects to the database.
func (rt *runtime) bootstrap(ctx context.Context) error {
	format, err := render.ParseFormat(rt.output)
	if err != nil {
		return err
	}
	rt.format = format

	if rt.opts.Users != nil {
		rt.users = rt.opts.Users
		rt.pinger = rt.opts.Pinger
		rt.logger = rt.opts.Logger
		if rt.logger == nil {
			nop := zerolog.Nop()
			rt.logger = &nop
		}
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return err
	}
	rt.loggerService = loggerService

	log := logger.NewLoggerWithService(cfg.Observability, loggerService, os.Stderr)
	rt.logger = &log

	a, err := app.New(ctx, cfg, rt.logger, loggerService)
	if err != nil {
		return &connectError{err: err}
	}
	rt.app = a
	rt.users = a.Services.Users
	rt.pinger = a.DB

	return nil
}

func (rt *runtime) close() {
	if rt.app != nil {
		if err := rt.app.Close(); err != nil {
			rt.logger.Error().Err(err).Msg("failed to close application")
		}
		return
	}
	rt.loggerService.Shutdown()
}

// run executes fn with a command-scoped logger on the context, inside a New
// Relic transaction when the agent is enabled.
func (rt *runtime) run(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx := cmd.Context()

	log := rt.logger.With().
		Str("run_id", uuid.NewString()).
		Str("command", cmd.CommandPath()).
		Logger()

	var txn *newrelic.Transaction
	if nrApp := rt.loggerService.GetApplication(); nrApp != nil {
		txn = nrApp.StartTransaction(cmd.CommandPath())
		defer txn.End()
		ctx = newrelic.NewContext(ctx, txn)
		log = logger.WithTraceContext(log, txn)
	}

	ctx = log.WithContext(ctx)
	log.Debug().Msg("running command")

	err := fn(ctx)
	if err != nil {
		event := log.Error().Stack().
			Err(err).
			Str("error_code", errs.CodeOf(err))
		if sqlCode := sqlerr.ErrCode(err); sqlCode != sqlerr.Other {
			event = event.Str("sql_code", string(sqlCode))
		}
		event.
			Dur("duration", time.Since(start)).
			Msg("command failed")
		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
		}
		return err
	}

	log.Debug().
		Dur("duration", time.Since(start)).
		Msg("command completed")
	return nil
}

func newRootCommand(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:   "usercrud",
		Short: "CRUD example for users stored in PostgreSQL",
		Long: `usercrud creates, reads, updates and deletes users in the "users" table.

Run without arguments to execute the demo script.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.bootstrap(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rt, cmd)
		},
	}

	root.PersistentFlags().StringVarP(&rt.output, "output", "o", string(render.FormatTable), "output format: table or json")

	root.AddCommand(
		newDemoCommand(rt),
		newCreateCommand(rt),
		newGetCommand(rt),
		newListCommand(rt),
		newUpdateCommand(rt),
		newDeleteCommand(rt),
		newStatusCommand(rt),
	)

	return root
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	rt := &runtime{}
	root := newRootCommand(rt)
	return execute(ctx, rt, root, os.Stderr)
}

func execute(ctx context.Context, rt *runtime, root *cobra.Command, stderr io.Writer) int {
	err := root.ExecuteContext(ctx)
	if rt.logger != nil {
		rt.close()
	}

	if err == nil {
		return 0
	}

	var connErr *connectError
	if errors.As(err, &connErr) {
		fmt.Fprintf(stderr, "Failed to connect to DB: %v\n", connErr.err)
		return 1
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	// constraint violations carry the offending columns
	var appErr *errs.Error
	if errors.Is(err, errs.ErrBadRequest) && errors.As(err, &appErr) {
		for _, fieldErr := range appErr.Errors {
			fmt.Fprintf(stderr, "  %s: %s\n", fieldErr.Field, fieldErr.Error)
		}
	}
	return 1
}
