package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/roommate-matcher/internal/extract"
	"github.com/spigell/roommate-matcher/internal/extract/gemini"
	"github.com/spigell/roommate-matcher/internal/logger"
	"github.com/spigell/roommate-matcher/internal/population"
	"github.com/spigell/roommate-matcher/internal/secrets"
)

const providerGemini = "gemini"

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured profiles from raw profile text with Gemini",
	Run: func(cmd *cobra.Command, _ []string) {
		runExtract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("input", "i", "", "file with raw records (json or yaml)")
	extractCmd.Flags().StringP("output", "o", "", "file to write the structured profiles to (json or yaml)")
	extractCmd.Flags().Bool("no-ai", false, "only normalize the record fields, do not call Gemini")

	extractCmd.MarkFlagRequired("input")
	extractCmd.MarkFlagRequired("output")
}

func runExtract(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log, config := setup()

	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")

	records, err := population.LoadRecords(input)
	if err != nil {
		log.Fatal("loading raw records", zap.String("path", input), zap.Error(err))
	}

	log.Info("raw records loaded", zap.String("path", input), zap.Int("count", len(records)))

	var extractor extract.Extractor
	if noAI, _ := cmd.Flags().GetBool("no-ai"); !noAI {
		ex, err := newGeminiExtractor(ctx, config.AI.Gemini, log)
		if err != nil {
			log.Fatal("building gemini extractor",
				zap.Error(err),
				zap.String("hint", "set GEMINI_API_KEY_FILE, the 'ai.gemini.api-key-file' key or use --no-ai"),
			)
		}
		extractor = ex
	}

	runner := extract.NewRunner(extractor, config.AI.Gemini.RequestDelay, log)
	extracted, summary, err := runner.Run(ctx, records)
	if err != nil {
		log.Fatal("extraction interrupted", zap.Int("processed", len(extracted)), zap.Error(err))
	}

	pop, err := population.FromRecords(extracted)
	if err != nil {
		log.Fatal("building profiles", zap.Error(err))
	}

	if err := pop.ToFile(output); err != nil {
		log.Fatal("writing profiles", zap.String("path", output), zap.Error(err))
	}

	log.Info("profiles written",
		zap.String("path", output),
		zap.Int("count", pop.Len()),
		zap.Int("extracted", summary.Extracted),
		zap.Int("failed", summary.Failed),
	)
}

func newGeminiExtractor(ctx context.Context, cfg *GeminiConfig, log *zap.Logger) (*gemini.Extractor, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithCommonFields(log, providerGemini, strings.TrimSpace(cfg.Model)).With(
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewExtractor(generator, cfg.MaxLogLength, logger.WithCommonFields(log, providerGemini, generator.Model())), nil
}
