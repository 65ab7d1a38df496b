package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/usercrud/internal/demo"
	"github.com/deppfellow/usercrud/internal/lib/render"
	"github.com/deppfellow/usercrud/internal/logger"
	"github.com/deppfellow/usercrud/internal/model"
	"github.com/spf13/cobra"
)

func newDemoCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the create, get, update, delete, list script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rt, cmd)
		},
	}
}

// runDemo prints a failing step and stops; it does not change the exit code.
func runDemo(rt *runtime, cmd *cobra.Command) error {
	return rt.run(cmd, func(ctx context.Context) error {
		err := demo.Run(ctx, rt.users, cmd.OutOrStdout(), rt.opts.NewID)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("demo stopped early")
			fmt.Fprintln(cmd.ErrOrStderr(), capitalize(err.Error()))
		}
		return nil
	})
}

func newCreateCommand(rt *runtime) *cobra.Command {
	var user model.User

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, func(ctx context.Context) error {
				if user.ID == "" {
					user.ID = newID(rt)
				}
				created, err := rt.users.Create(ctx, user)
				if err != nil {
					return fmt.Errorf("failed to create user: %w", err)
				}
				return render.Users(cmd.OutOrStdout(), rt.format, created)
			})
		},
	}

	cmd.Flags().StringVar(&user.ID, "id", "", "user id (a random UUID when empty)")
	cmd.Flags().StringVar(&user.Username, "username", "", "username")
	cmd.Flags().StringVar(&user.Email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newGetCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show the user with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, func(ctx context.Context) error {
				user, err := rt.users.GetByID(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to get user by id: %w", err)
				}
				return render.Users(cmd.OutOrStdout(), rt.format, user)
			})
		},
	}
}

func newListCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, func(ctx context.Context) error {
				users, err := rt.users.GetAll(ctx)
				if err != nil {
					return fmt.Errorf("failed to get all users: %w", err)
				}
				return render.Users(cmd.OutOrStdout(), rt.format, users...)
			})
		},
	}
}

func newUpdateCommand(rt *runtime) *cobra.Command {
	var user model.User

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace username and email of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, func(ctx context.Context) error {
				user.ID = args[0]
				updated, err := rt.users.Update(ctx, user)
				if err != nil {
					return fmt.Errorf("failed to update user: %w", err)
				}
				return render.Users(cmd.OutOrStdout(), rt.format, updated)
			})
		},
	}

	cmd.Flags().StringVar(&user.Username, "username", "", "new username")
	cmd.Flags().StringVar(&user.Email, "email", "", "new email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete the user with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, func(ctx context.Context) error {
				if err := rt.users.Delete(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to delete user: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted User ID: %q\n", args[0])
				return nil
			})
		},
	}
}

func newStatusCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check database connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, func(ctx context.Context) error {
				if rt.pinger == nil {
					return errors.New("no database configured")
				}

				start := time.Now()
				err := rt.pinger.Ping(ctx)
				elapsed := time.Since(start).Round(time.Millisecond)

				status := map[string]any{
					"database":      "healthy",
					"response_time": elapsed.String(),
				}
				if err != nil {
					status["database"] = "unhealthy"
					status["error"] = err.Error()
				}

				if rt.format == render.FormatJSON {
					if renderErr := render.JSON(cmd.OutOrStdout(), status); renderErr != nil {
						return renderErr
					}
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "database: %s (%s)\n", status["database"], elapsed)
				}

				if err != nil {
					return fmt.Errorf("database health check failed: %w", err)
				}
				return nil
			})
		},
	}
}

func newID(rt *runtime) string {
	if rt.opts.NewID != nil {
		return rt.opts.NewID()
	}
	return demo.NewID()
}

// capitalize turns "failed to create user: ..." into "Failed to create user: ...".
func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
