package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/roommate-matcher/internal/filtering"
	"github.com/spigell/roommate-matcher/internal/population"
	"github.com/spigell/roommate-matcher/internal/ranking"
	"github.com/spigell/roommate-matcher/internal/scoring"
)

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Score every pair of the population and show the best ones",
	Run: func(cmd *cobra.Command, _ []string) {
		pairs(cmd)
	},
}

func init() {
	rootCmd.AddCommand(pairsCmd)

	pairsCmd.Flags().IntP("top", "n", 10, "number of pairs to show, 0 shows all")
	pairsCmd.Flags().Int("workers", 0, "number of scoring workers (default from config, then GOMAXPROCS)")
	pairsCmd.Flags().Bool("dump", false, "dump every pair to a temporary file")
}

func pairs(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, config := setup()

	pop := loadPopulation(logger, config)

	// There is no requester to compare cities with.
	steps := filtering.Default()
	filtering.DisableByName(steps, "same_city", "no requester for pair scoring")

	pop, err := filtering.Run(ctx, config.filters(), filtering.Deps{Logger: logger}, steps, pop)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	workers := config.Matching.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	ranker, err := config.ranker()
	if err != nil {
		logger.Fatal("building the ranker", zap.Error(err))
	}

	all, err := ranker.ScoreAllPairs(ctx, pop.Items, workers)
	if err != nil {
		logger.Warn("pair scoring interrupted; showing partial results",
			zap.Int("scored", len(all)),
			zap.Error(err),
		)
	}

	logger.Info("pairs scored", zap.Int("profiles", pop.Len()), zap.Int("pairs", len(all)))

	top, _ := cmd.Flags().GetInt("top")
	for i, p := range ranking.Best(all, top) {
		logger.Info("pair",
			zap.Int("rank", i+1),
			zap.String("id_a", p.IDA),
			zap.String("id_b", p.IDB),
			zap.Int("score", p.Score),
			zap.String("mode", string(p.Mode)),
			zap.Strings("conflicts", flagTypes(p.Conflicts)),
		)
	}

	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		filename, err := population.DumpToTmpFile("pairs_*.json", all)
		if err != nil {
			logger.Fatal("dump pairs to file", zap.Error(err))
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
	}
}

func flagTypes(flags []scoring.RedFlag) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, string(f.Type))
	}
	return out
}
