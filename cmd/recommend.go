package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/logger"
	"github.com/jobradar/jobradar/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank stored postings against the configured candidate profile",
	Run: func(cmd *cobra.Command, _ []string) {
		runRecommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().IntP("limit", "l", 10, "maximum recommendations to print")
	recommendCmd.Flags().Int("pool", 200, "how many recent postings to consider")
}

func runRecommend(cmd *cobra.Command) {
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

	poolSize, _ := cmd.Flags().GetInt("pool")
	candidates, err := app.jobStore.List(ctx, poolSize)
	if err != nil {
		logger.Fatal("loading stored postings", zap.Error(err))
	}
	if len(candidates) == 0 {
		logger.Info("exiting", zap.String("reason", "no stored postings, run search first"))
		return
	}

	digest, err := app.resumeStore.LatestDigest(ctx)
	if err != nil {
		logger.Warn("loading resume digest failed, continuing without it", zap.Error(err))
	}

	limit, _ := cmd.Flags().GetInt("limit")
	results := app.buildEngine().Recommend(ctx, &recommend.Request{
		Profile:    app.config.Profile,
		Digest:     digest,
		Candidates: candidates,
		Limit:      limit,
	})

	if len(results) == 0 {
		logger.Info("exiting", zap.String("reason", "no tier produced recommendations"))
		return
	}

	for i, r := range results {
		fmt.Printf("%2d. [%3d] %s / %s / %s\n",
			i+1, r.Score, r.Posting.Title, r.Posting.Company, r.Posting.PostingURL)
		if len(r.Pros) > 0 {
			fmt.Printf("      + %s\n", strings.Join(r.Pros, "; "))
		}
		if len(r.Cons) > 0 {
			fmt.Printf("      - %s\n", strings.Join(r.Cons, "; "))
		}
	}
}
