package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/EmmanuelR15/portfolio/internal/analytics"
	"github.com/EmmanuelR15/portfolio/internal/config"
	"github.com/EmmanuelR15/portfolio/internal/contact"
	"github.com/EmmanuelR15/portfolio/internal/content"
	"github.com/EmmanuelR15/portfolio/internal/db"
	"github.com/EmmanuelR15/portfolio/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override server.port")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	gin.SetMode(cfg.Server.Mode)

	database, err := db.Open(cfg.Data.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	store, err := content.Open(cfg.Content.File)
	if err != nil {
		return fmt.Errorf("loading portfolio content: %w", err)
	}

	tracker, err := analytics.NewTracker(database, log)
	if err != nil {
		return err
	}
	defer tracker.Wait()

	sender, err := contact.NewSender(cfg.Contact, log.Named("mail"))
	if err != nil {
		return err
	}
	messages := contact.NewStore(database)

	srv, err := web.New(web.Deps{
		Config:   cfg,
		Log:      log,
		DB:       database,
		Content:  store,
		Sender:   contact.NewService(messages, sender, log),
		Messages: messages,
		Tracker:  tracker,
	})
	if err != nil {
		return err
	}
	defer srv.Navigation().Close()

	if cfg.Content.Watch {
		w, err := content.NewWatcher(store, log.Named("content"))
		if err != nil {
			return err
		}
		w.OnReload(func(p *content.Portfolio) {
			srv.RefreshAssets()
			log.Info("portfolio reloaded", zap.Int("projects", len(p.Projects)), zap.Int("skills", len(p.Skills)))
		})
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	httpSrv := srv.HTTPServer()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", zap.String("addr", httpSrv.Addr), zap.String("delivery", string(cfg.Contact.Delivery)))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		runEvery(gctx, cfg.Data.CleanupInterval, func() {
			if _, err := tracker.Cleanup(gctx, cfg.Data.Retention()); err != nil {
				log.Warn("retention cleanup", zap.Error(err))
			}
		})
		return nil
	})

	g.Go(func() error {
		runEvery(gctx, cfg.Data.SessionTTL, func() {
			if n := srv.Sightings().Prune(cfg.Data.SessionTTL); n > 0 {
				log.Debug("pruned section sightings", zap.Int("entries", n))
			}
			if n := srv.Navigation().Prune(cfg.Data.SessionTTL); n > 0 {
				log.Debug("pruned navigation sessions", zap.Int("sessions", n))
			}
		})
		return nil
	})

	return g.Wait()
}

// runEvery calls fn immediately and then every interval until ctx is done.
// A non-positive interval runs fn once.
func runEvery(ctx context.Context, interval time.Duration, fn func()) {
	fn()
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}
}
