package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/revisely/dkt/internal/api"
	"github.com/revisely/dkt/internal/catalog"
	"github.com/revisely/dkt/internal/insights"
	"github.com/revisely/dkt/internal/knowledgemap"
	"github.com/revisely/dkt/internal/maintenance"
	"github.com/revisely/dkt/internal/mastery"
	"github.com/revisely/dkt/internal/spacedrep"
	"github.com/revisely/dkt/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// runServe opens the store, wires the components, and serves until
// interrupted.
func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Catalog.Path != "" {
		n, err := catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		log.Printf("catalog loaded: %d skills from %s", n, cfg.Catalog.Path)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	interactions := st.Interactions()
	masteryRepo := st.Mastery()
	snapshots := st.Snapshots()

	aggregator := insights.NewAggregator(masteryRepo, interactions)
	insightsSvc := insights.NewService(aggregator, snapshots, cfg.Insights.CacheTTL, cfg.Insights.ReadTimeout)
	estimator := mastery.NewEstimator(interactions, masteryRepo, insightsSvc.Invalidate)

	deps := api.Deps{
		Estimator:   estimator,
		Projector:   knowledgemap.NewProjector(masteryRepo),
		Queue:       spacedrep.NewQueue(masteryRepo, cfg.Scheduler.PageSize),
		Insights:    insightsSvc,
		ReadTimeout: cfg.Insights.ReadTimeout,
	}
	engine := api.NewEngine(cfg.Server.Mode, deps)

	runner := maintenance.NewRunner(snapshots, insightsSvc, cfg.Insights.SnapshotsKept)
	if err := runner.Start(); err != nil {
		return fmt.Errorf("start maintenance jobs: %w", err)
	}
	defer runner.Stop()

	srv := &http.Server{
		Addr:    cfg.GetServerAddr(),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
