package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/logger"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <job-id>",
	Short: "Run an AI fit analysis of one stored posting against the stored resume",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		analyze(args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyze(jobID string) {
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

	posting, err := app.jobStore.GetByID(ctx, jobID)
	if err != nil {
		logger.Fatal("loading posting", zap.Error(err))
	}
	if posting == nil {
		logger.Fatal("posting not found", zap.String("job_id", jobID))
	}

	digest, err := app.resumeStore.LatestDigest(ctx)
	if err != nil {
		logger.Fatal("loading resume digest", zap.Error(err))
	}
	if digest == nil {
		logger.Fatal("no analyzed resume found",
			zap.String("hint", "run 'jobradar resume <file>' first"),
		)
	}

	analysis := app.aiClient.AnalyzeFit(ctx, digest.EmbeddingText(), posting.EmbeddingText())

	fmt.Printf("%s / %s\n", posting.Title, posting.Company)
	fmt.Printf("match score: %d\n", analysis.Score)
	for _, pro := range analysis.Pros {
		fmt.Printf("  + %s\n", pro)
	}
	for _, con := range analysis.Cons {
		fmt.Printf("  - %s\n", con)
	}
}
