package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/logger"
	"github.com/jobradar/jobradar/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the standing queries on a cron interval until interrupted",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	logger.Info("starting the jobradar scheduler", zap.String("version", version))

	app, cleanup, err := newApplication(ctx, logger)
	if err != nil {
		logger.Fatal("initializing", zap.Error(err))
	}
	defer cleanup()

	if app.config.Scheduler == nil || len(app.config.Scheduler.Queries) == 0 {
		logger.Fatal("scheduler.queries is required for serve mode")
	}

	p, err := app.buildPipeline()
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	sched := scheduler.New(p, app.config.Scheduler.Queries, app.config.Scheduler.IntervalHours, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Fatal("starting the scheduler", zap.Error(err))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	cancel()
	sched.Stop()
}
