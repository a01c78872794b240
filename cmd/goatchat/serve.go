package main

import (
	"github.com/spf13/cobra"

	"github.com/mandalnilabja/goatchat/internal/app"
	"github.com/mandalnilabja/goatchat/internal/config"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.ServerPort = addr
			}
			if err := config.EnsureConfigFile(); err != nil {
				c.logger.Warn("could not create default config file", "path", config.ConfigPath(), "error", err)
			}

			svc, err := c.services()
			if err != nil {
				return err
			}

			repo := handler.NewRepo(handler.Deps{
				Gateway: svc.gateway,
				Router:  svc.router,
				Chat:    svc.chat,
				Storage: svc.store,
				Cache:   svc.creds,
				Logger:  c.logger,
				Stream:  c.cfg.Stream,
			})
			router := app.NewRouter(repo, app.RouterOptions{
				Logger:     c.logger,
				AdminToken: c.cfg.AdminToken,
			})

			printStartupBanner(cmd.ErrOrStderr(), c.cfg)
			return app.NewServer(c.cfg, router, c.logger).Start(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address, e.g. :8080 (overrides server_port)")
	return cmd
}
