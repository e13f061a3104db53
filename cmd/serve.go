package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zjrosen/acro/internal/glossary"
	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/query"
	"github.com/zjrosen/acro/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the glossary over HTTP",
	Long: `Load the glossary, keep it current as the file changes, and answer
queries over HTTP until interrupted.

Endpoints:
  GET /acronyms              list every acronym
  GET /acronyms/{id}?class=  resolve one acronym with optional classes
  GET /classes               list every class
  GET /health                liveness and entry count

Example:
  acro serve                        # Listen on server.addr from config
  acro serve --addr localhost:0     # Pick a free port`,
	RunE: runServe,
}

var (
	serveAddr    string
	serveNoWatch bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not reload the glossary when it changes")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cleanupLog, err := initLogging("acro-serve", false)
	if err != nil {
		return err
	}
	defer cleanupLog()

	tp, err := tracing.NewProvider(tracingConfig(cfg.Tracing))
	if err != nil {
		return fmt.Errorf("creating tracer: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	watch := cfg.Glossary.Watch && !serveNoWatch
	prov, err := bootProvider(ctx, watch, glossary.WithTracer(tp.Tracer()))
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return err
	}

	cached := query.NewInMemoryCached(prov.Store(), cfg.Cache.TTL, cfg.Cache.Enabled)

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	server, err := query.NewServer(query.ServerConfig{
		Addr:    addr,
		Querier: cached,
	})
	if err != nil {
		_ = prov.Shutdown(context.Background())
		_ = tp.Shutdown(context.Background())
		return fmt.Errorf("creating server: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "acro serving %s on %s\n", cfg.GlossaryPath(), server.URL())
	_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info(log.CatServer, "Shutting down query server", "port", server.Port())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Stop(shutdownCtx); err != nil {
			log.ErrorErr(log.CatServer, "Error stopping query server", err)
		}
		if err := prov.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatProvider, "Error shutting down provider", err)
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatTracing, "Error flushing traces", err)
		}
		return nil
	})

	serveErr := g.Wait()
	_, _ = fmt.Fprintln(out, "acro stopped")

	if serveErr != nil {
		return fmt.Errorf("server error: %w", serveErr)
	}
	return nil
}
