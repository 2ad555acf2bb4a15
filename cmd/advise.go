package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/roommate-matcher/internal/advice"
	"github.com/spigell/roommate-matcher/internal/scoring"
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Explain how well two profiles fit together",
	Run: func(cmd *cobra.Command, _ []string) {
		advise(cmd)
	},
}

func init() {
	rootCmd.AddCommand(adviseCmd)

	adviseCmd.Flags().String("profile", "", "id of the requesting profile")
	adviseCmd.Flags().String("match", "", "id of the candidate roommate")
	adviseCmd.Flags().Bool("analysis", false, "also print the detailed pair analysis")

	adviseCmd.MarkFlagRequired("profile")
	adviseCmd.MarkFlagRequired("match")
}

// adviseOutput is printed to stdout as JSON.
type adviseOutput struct {
	Advice   advice.AdviceReport `json:"advice"`
	Analysis *scoring.Analysis   `json:"analysis,omitempty"`
}

func advise(cmd *cobra.Command) {
	logger, config := setup()

	id, _ := cmd.Flags().GetString("profile")
	matchID, _ := cmd.Flags().GetString("match")

	pop := loadPopulation(logger, config)

	me, other := pop.FindByID(id), pop.FindByID(matchID)
	if me == nil || other == nil {
		logger.Fatal("profile with given id not found",
			zap.String("profile_id", id),
			zap.String("match_id", matchID),
			zap.Strings("known_ids", pop.IDs()),
		)
	}
	if me.ID == other.ID {
		logger.Fatal("a profile cannot be matched with itself", zap.String("profile_id", id))
	}

	ranker, err := config.ranker()
	if err != nil {
		logger.Fatal("building the ranker", zap.Error(err))
	}

	out := adviseOutput{Advice: advice.Report(me, ranker.Match(me, other))}
	if analysis, _ := cmd.Flags().GetBool("analysis"); analysis {
		an := ranker.Detector.Analyze(me, other)
		out.Analysis = &an
	}

	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal("encoding advice", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
