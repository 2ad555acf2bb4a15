package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/roommate-matcher/internal/advice"
	"github.com/spigell/roommate-matcher/internal/filtering"
	"github.com/spigell/roommate-matcher/internal/logger"
	"github.com/spigell/roommate-matcher/internal/population"
	"github.com/spigell/roommate-matcher/internal/profile"
	"github.com/spigell/roommate-matcher/internal/ranking"
)

const (
	PromptShowAdvice          = "Show advice for a match"
	PromptAllAdvice           = "Show advice for every match"
	PromptResultsToFile       = "Dump matches to file"
	PromptAppendToExcludeFile = "Append all matches to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the best roommate candidates for a profile",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("profile", "", "id of the profile to find roommates for")
	rankCmd.Flags().IntP("top-k", "k", 0, "number of matches to return (default from config, then 5)")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "print advice for every match without asking")
	rankCmd.Flags().StringP("exclude-file", "e", "", "special file with profiles to exclude. Default is unset.")

	rankCmd.MarkFlagRequired("profile")
}

func rank(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, config := setup()

	if path, _ := cmd.Flags().GetString("exclude-file"); path != "" {
		config.ExcludeFile = path
	}

	id, _ := cmd.Flags().GetString("profile")
	pop, me := loadWithRequester(ctx, logger, config, id)

	topK := config.Matching.TopK
	if cmd.Flags().Changed("top-k") {
		topK, _ = cmd.Flags().GetInt("top-k")
	}

	ranker, err := config.ranker()
	if err != nil {
		logger.Fatal("building the ranker", zap.Error(err))
	}

	matches, err := ranker.Rank(me, pop.Items, topK)
	if err != nil {
		logger.Fatal("ranking matches", zap.Error(err))
	}

	if len(matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	reportMatches(logger, matches)

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		showAdvice(logger, me, matches)
		return
	}

	for {
		prompt := promptui.Select{
			Label: "What next?",
			Items: menuItems(config),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, pop, me, matches); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func menuItems(config *Config) []string {
	items := []string{PromptShowAdvice, PromptAllAdvice, PromptResultsToFile}
	if config.ExcludeFile != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	return append(items, PromptExit)
}

func handleAction(action string, logger *zap.Logger, config *Config, pop *population.Population, me *profile.Profile, matches []ranking.MatchResult) error {
	switch action {
	case PromptShowAdvice:
		return pickAdvice(logger, me, matches)
	case PromptAllAdvice:
		showAdvice(logger, me, matches)
		return nil
	case PromptResultsToFile:
		filename, err := population.DumpToTmpFile("matches_*.json", matches)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, config.ExcludeFile, pop, matches)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func pickAdvice(logger *zap.Logger, me *profile.Profile, matches []ranking.MatchResult) error {
	items := make([]string, 0, len(matches)+1)
	for _, m := range matches {
		items = append(items, fmt.Sprintf("%s score %d / %s %s", m.RoommateID, m.Score, m.Profile.City, m.Profile.Area))
	}

	matchPrompt := promptui.Select{
		Label: "Choose a match and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := matchPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	id := strings.Split(selected, " ")[0]
	for _, m := range matches {
		if m.RoommateID == id {
			showAdvice(logger, me, []ranking.MatchResult{m})
			return nil
		}
	}
	return fmt.Errorf("there is no such match id %s", id)
}

func appendToExcludeFile(logger *zap.Logger, path string, pop *population.Population, matches []ranking.MatchResult) error {
	excluded, err := population.ExcludedFromFile(path)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.RoommateID)
	}
	excluded.Append(pop.ToExcluded(ids))

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", path), zap.Strings("profiles", ids))
	return nil
}

func reportMatches(log *zap.Logger, matches []ranking.MatchResult) {
	log.Info("ranked matches", zap.Int("count", len(matches)))
	for i, m := range matches {
		fields := append([]zap.Field{zap.Int("rank", i+1)}, logger.MatchFields(m)...)
		log.Info("match", fields...)
	}
}

func showAdvice(log *zap.Logger, me *profile.Profile, matches []ranking.MatchResult) {
	for _, m := range matches {
		report := advice.Report(me, m)
		log.Info(report.Text, logger.MatchFields(m)...)
	}
}

// loadWithRequester loads the population, resolves the requester and runs
// the candidate filters.
func loadWithRequester(ctx context.Context, log *zap.Logger, config *Config, id string) (*population.Population, *profile.Profile) {
	pop := loadPopulation(log, config)

	found := pop.FindByID(id)
	if found == nil {
		log.Fatal("profile with given id not found",
			zap.String("profile_id", id),
			zap.Strings("known_ids", pop.IDs()),
		)
	}
	me := *found

	log.Info("requester", logger.ProfileFields(&me)...)

	filtered, err := filtering.Run(ctx, config.filters(), filtering.Deps{Logger: log, Requester: &me}, filtering.Default(), pop)
	if err != nil {
		log.Fatal("filtering failed", zap.Error(err))
	}

	return filtered, &me
}

func loadPopulation(log *zap.Logger, config *Config) *population.Population {
	path := strings.TrimSpace(config.PopulationFile)
	if path == "" {
		log.Fatal("population file is not configured",
			zap.String("hint", "set ROOMMATE_POPULATION_FILE, --population-file or the 'population-file' key in the configuration file"),
		)
	}

	pop, err := population.Load(path)
	if err != nil {
		log.Fatal("loading population", zap.String("path", path), zap.Error(err))
	}

	log.Info("population loaded", zap.String("path", path), zap.Int("count", pop.Len()))
	return pop
}
