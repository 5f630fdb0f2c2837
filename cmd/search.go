package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
	"github.com/jobradar/jobradar/internal/logger"
)

const (
	PromptYes        = "Yes"
	PromptNo         = "No"
	PromptDumpToFile = "Dump postings to file"
)

var searchPrompt = promptui.Select{
	Label: "Dump accepted postings to a file?",
	Items: []string{PromptYes, PromptNo},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Scrape all configured sources for a query, dedup and store the results",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		search(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("limit", "l", 50, "maximum results per source")
	searchCmd.Flags().BoolP("yes", "y", false, "dump results to a file without asking")
}

func search(cmd *cobra.Command, query string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	logger.Info("starting the jobradar search",
		zap.String("version", version),
		zap.String("query", query),
	)

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
		logger.Info("exiting", zap.String("reason", "no new postings accepted"))
		return
	}

	postings := &jobs.Postings{Items: accepted}
	logger.Info("new postings accepted",
		zap.Int("count", postings.Len()),
		zap.Strings("titles", postings.Titles()),
	)

	action := PromptYes
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		_, action, err = searchPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	if action != PromptYes {
		return
	}

	filename, err := postings.DumpToTmpFile()
	if err != nil {
		logger.Fatal("dumping results to file", zap.Error(err))
	}
	logger.Info("dumped results to file", zap.String("filename", filename))

	fmt.Printf("accepted %d postings, dumped to %s\n", postings.Len(), filename)
}
