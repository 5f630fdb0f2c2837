package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/ai"
	"github.com/jobradar/jobradar/internal/logger"
)

var screenCmd = &cobra.Command{
	Use:   "screen <query>",
	Short: "Scrape for a query and screen every accepted posting with the AI",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		screen(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().IntP("limit", "l", 25, "maximum results per source")
}

func screen(cmd *cobra.Command, query string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	app, cleanup, err := newApplication(ctx, logger)
	if err != nil {
		logger.Fatal("initializing", zap.Error(err))
	}
	defer cleanup()

	p, err := app.buildPipeline()
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	limit, _ := cmd.Flags().GetInt("limit")
	accepted, err := p.SearchAndSave(ctx, query, limit)
	if err != nil {
		logger.Fatal("search pipeline failed", zap.Error(err))
	}
	if len(accepted) == 0 {
		logger.Info("exiting", zap.String("reason", "no new postings to screen"))
		return
	}

	screener := ai.NewScreener(app.aiClient, logger)
	screened, err := screener.ScreenAll(ctx, app.config.Profile, accepted)
	if err != nil {
		logger.Fatal("screening failed", zap.Error(err))
	}

	for _, s := range screened {
		fmt.Printf("[%-8s %3d] %s / %s\n",
			s.Verdict.Recommendation, s.Verdict.Score, s.Posting.Title, s.Posting.Company)
		if s.Verdict.Reason != "" {
			fmt.Printf("      %s\n", s.Verdict.Reason)
		}
		if s.Verdict.EstimatedSalary != "" {
			fmt.Printf("      est. salary: %s\n", s.Verdict.EstimatedSalary)
		}
	}
}
