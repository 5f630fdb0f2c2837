package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/logger"
	"github.com/jobradar/jobradar/internal/pipeline"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <file>",
	Short: "Analyze a resume text file and store the extracted profile",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		analyzeResume(args[0])
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}

func analyzeResume(path string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading resume file", zap.Error(err))
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		logger.Fatal("resume file is empty", zap.String("file", path))
	}

	app, cleanup, err := newApplication(ctx, logger)
	if err != nil {
		logger.Fatal("initializing", zap.Error(err))
	}
	defer cleanup()

	analyzer := pipeline.NewResumeAnalyzer(app.aiClient, app.resumeStore, app.embedder, app.index, logger)
	digest, err := analyzer.Analyze(ctx, text)
	if err != nil {
		logger.Fatal("analyzing resume", zap.Error(err))
	}

	fmt.Printf("resume %s analyzed\n", digest.ID)
	fmt.Printf("summary: %s\n", digest.Summary)
	fmt.Printf("experience: %d years\n", digest.YearsOfExperience)
	if len(digest.TechnicalSkills) > 0 {
		fmt.Printf("skills: %s\n", strings.Join(digest.TechnicalSkills, ", "))
	}
}
