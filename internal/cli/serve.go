package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"composegen/internal/config"
	"composegen/internal/httpapi"
)

const defaultAddr = ":8090"

type serveFlags struct {
	addr         string
	maxBodyBytes int64
	cors         bool
	corsOrigins  string
	corsMethods  string
	corsHeaders  string
}

func (a *app) serveCmd() *cobra.Command {
	var f serveFlags
	addr := defaultAddr
	if v := a.getenv("COMPOSEGEN_ADDR"); v != "" {
		addr = v
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API (POST /render, /healthz, /metrics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, cfg, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.addr, "addr", addr, "HTTP listen address (defaults COMPOSEGEN_ADDR or "+defaultAddr+")")
	fl.Int64Var(&f.maxBodyBytes, "max-body-bytes", 1<<20, "Maximum request body size")
	fl.BoolVar(&f.cors, "cors", false, "Enable CORS")
	fl.StringVar(&f.corsOrigins, "cors-origins", a.getenv("COMPOSEGEN_CORS_ORIGINS"), "Comma separated allowed origins (default *)")
	fl.StringVar(&f.corsMethods, "cors-methods", "", "Comma separated allowed methods")
	fl.StringVar(&f.corsHeaders, "cors-headers", "", "Comma separated allowed headers")
	return cmd
}

// handler configures the HTTP layer and returns the router.
func (a *app) handler(cfg config.Config, f serveFlags) http.Handler {
	httpapi.SetLogger(a.log)
	httpapi.SetMaxBodyBytes(f.maxBodyBytes)
	httpapi.SetCORSOptions(f.cors, splitCSV(f.corsOrigins), splitCSV(f.corsMethods), splitCSV(f.corsHeaders))
	r := httpapi.NewRenderer(a.log)
	r.Defaults = cfg.ComposeOptions()
	return httpapi.NewMux(r)
}

// serve runs until ctx is canceled, then shuts down gracefully.
func (a *app) serve(ctx context.Context, cfg config.Config, f serveFlags) error {
	srv := &http.Server{
		Addr:              f.addr,
		Handler:           a.handler(cfg, f),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", f.addr).Msg("composegen listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	a.log.Info().Msg("server stopped")
	return nil
}
