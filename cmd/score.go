package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadclean/internal/match"
	"github.com/sells-group/leadclean/internal/normalize"
)

var scoreCmd = &cobra.Command{
	Use:   "score <name> <name>",
	Short: "Score two company names against each other",
	Long: `Normalizes both names and prints their keys and the
token-order-insensitive similarity score, the same number a clean run
compares against match.threshold. Handy when tuning the threshold.

Examples:
  score "Acme, Corp." "ACME CORP"
  score "Acme Corporation" "Acme Corp"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		left := normalize.Key(args[0])
		right := normalize.Key(args[1])

		fmt.Printf("left:       %q -> %q\n", args[0], left)
		fmt.Printf("right:      %q -> %q\n", args[1], right)
		fmt.Printf("similarity: %.2f\n", match.Score(left, right))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
