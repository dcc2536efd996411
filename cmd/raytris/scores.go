package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/raytris/internal/platform/tui"
	"github.com/vovakirdan/raytris/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores for the board size",
	Long: `Display the top 10 high scores for the configured playfield size.

Scores are kept per board size, so a 12x24 game never competes with the
classic 10x20 one. In a terminal an interactive scoreboard is shown; when
the output is piped the scores are printed as plain text.

Examples:
  raytris scores
  raytris scores --width 12 --height 24
  raytris scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete all scores of the board size")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	board := currentBoard(cfg)

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClearScores {
		if err := store.ClearScores(board); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Cleared scores for %s\n", board)
		return
	}

	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		width, height, sizeErr := term.GetSize(fd)
		if sizeErr != nil {
			width, height = 80, 24
		}
		if _, err := tui.RunScoreboard(store, board, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	printScores(store, board)
}

// printScores writes the leaderboard of board as plain text.
func printScores(store *storage.Store, board storage.Board) {
	scores, err := store.TopScores(board, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", board)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'raytris play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %-6s  %-5s  %s\n", "Rank", "Score", "Lines", "Level", "Date")
	fmt.Printf("  %-4s  %-10s  %-6s  %-5s  %s\n", "----", "-----", "-----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-6d  %-5d  %s\n", i+1, entry.Score, entry.Lines, entry.Level, dateStr)
	}

	if stats, statsErr := store.Stats(board); statsErr == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Lines: %d\n", stats.HighScore, stats.GamesCount, stats.TotalLines)
	}
}
