package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/roommate-matcher/internal/profile"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <category> <value>",
	Short: "Show the canonical value for a free-text attribute",
	Long: "Show the canonical value for a free-text attribute.\n" +
		"Categories: sleep_schedule, cleanliness, noise_tolerance.",
	Args: cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		out, err := normalize(args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

// normalize prints "null" for values that normalize to nothing.
func normalize(category, value string) (string, error) {
	c, ok := profile.ParseCategory(category)
	if !ok {
		names := make([]string, 0, len(profile.Categories))
		for _, c := range profile.Categories {
			names = append(names, string(c))
		}
		return "", fmt.Errorf("unknown category %q, expected one of %s", category, strings.Join(names, ", "))
	}

	out := profile.Normalize(value, c)
	if out == "" {
		return "null", nil
	}
	return out, nil
}
