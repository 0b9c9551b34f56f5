package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/speakboard/internal/web"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var (
		addr    string
		origins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board to a UI shell",
		Long:  "Serve exposes the board over a local REST and websocket API until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.GetString(cfgKeyServerAddr)
			}
			if !cmd.Flags().Changed("allow-origin") {
				origins = a.cfg.GetStringSlice(cfgKeyAllowOrigins)
			}
			if !a.flags.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			return a.withBoard(func(board types.Board) error {
				ctx := cmd.Context()
				announcer, closeFn, err := a.newAnnouncer(ctx, a.stderr)
				if err != nil {
					return err
				}
				defer closeFn()

				srv := web.NewServer(web.Deps{
					Store:        board,
					Announcer:    announcer,
					Catalog:      a.catalog(),
					Logger:       a.logger,
					Language:     a.cfg.GetString(cfgKeyLanguage),
					AllowOrigins: origins,
				})
				httpServer := &http.Server{
					Addr:              addr,
					Handler:           srv,
					ReadHeaderTimeout: 10 * time.Second,
				}
				return a.runServer(ctx, httpServer)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultServerAddr, "listen address")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "UI origin allowed by CORS (repeatable)")
	return cmd
}

// runServer serves until ctx ends, then shuts down gracefully.
func (a *app) runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return systemError(fmt.Errorf("serving: %w", err))
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return systemError(fmt.Errorf("shutting down: %w", err))
	}
	return nil
}
