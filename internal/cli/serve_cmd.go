package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/taskday/internal/api"
	"github.com/sadopc/taskday/internal/auth"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := app.Config()
			if err != nil {
				return err
			}
			if cfg.Auth.Secret == "" {
				return errors.New("auth.secret (TASKDAY_AUTH_SECRET) is required to serve")
			}
			if addr != "" {
				cfg.HTTP.Address = addr
			}

			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			server := api.NewServer(sess, auth.Config{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer}, app.registry)
			srv := api.NewHTTPServer(cfg.HTTP, server.Handler())
			return api.Serve(ctx, srv, cfg.HTTP.ShutdownTimeout, app.Logger())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides http.address)")
	return cmd
}

func newTokenCmd(app *App) *cobra.Command {
	var scopes string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token SUBJECT",
		Short: "Issue an API bearer token signed with the configured secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			if cfg.Auth.Secret == "" {
				return errors.New("auth.secret (TASKDAY_AUTH_SECRET) is required to issue tokens")
			}

			var list []string
			for _, s := range strings.Split(scopes, ",") {
				switch s = strings.TrimSpace(s); s {
				case "":
				case "read":
					list = append(list, auth.ScopeRead)
				case "write":
					list = append(list, auth.ScopeWrite)
				default:
					list = append(list, s)
				}
			}

			token, err := auth.Issue(auth.Config{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer}, args[0], list, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&scopes, "scopes", "read,write", "Comma-separated scopes (read, write or full names)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
