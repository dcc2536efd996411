// raytris is a falling-block puzzle played in the terminal, where every
// collision is decided by short rays cast from the faces of the pieces.
//
// Usage:
//
//	raytris play             - Play a game in this terminal
//	raytris serve            - Start SSH server for remote play
//	raytris scores           - Show high scores for the board size
//	raytris shapes           - List the piece catalog
//
// Global flags:
//
//	--seed <value>        - Set RNG seed for reproducible piece order
//	--db <path>           - Set database path (default: ~/.raytris/scores.db)
//	--config <path>       - Load game config from a YAML file
//	--width, --height     - Override the playfield size
//	--debug               - Show probes and grid markers
//	--difficulty <preset> - easy, normal, hard, fixed
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/raytris/internal/config"
	"github.com/vovakirdan/raytris/internal/storage"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagWidth      int
	flagHeight     int
	flagDebug      bool
	flagDifficulty string
	flagLogLevel   string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "raytris",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "raytris",
	Short: "raytris - falling blocks decided by rays",
	Long: `raytris is a falling-block puzzle for the terminal. Pieces are
groups of four cubes that look around with short rays before they move.

Available commands:
  play     - Play a game in this terminal
  serve    - Start SSH server for remote play
  scores   - View high scores
  shapes   - List the piece catalog

Examples:
  raytris play
  raytris play --width 12 --height 24 --difficulty hard
  raytris serve --ssh :2222 --metrics :9100
  raytris scores`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		logger.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.raytris/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "Playfield width including the walls (0 = from config)")
	rootCmd.PersistentFlags().IntVar(&flagHeight, "height", 0, "Playfield height including floor and ceiling (0 = from config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Show probes and grid markers")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(shapesCmd)
}

// loadConfig resolves the game config and applies the command line overrides.
func loadConfig() (config.GameConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagWidth > 0 {
		cfg.Playfield.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Playfield.Height = flagHeight
	}
	if flagDebug {
		cfg.Debug = true
	}
	if flagDifficulty != "" {
		preset, presetErr := config.ParsePreset(flagDifficulty)
		if presetErr != nil {
			return cfg, presetErr
		}
		config.ApplyPreset(&cfg, preset)
	}

	return cfg, cfg.Validate()
}

// currentBoard returns the leaderboard key of the configured playfield.
func currentBoard(cfg config.GameConfig) storage.Board {
	return storage.Board{Width: cfg.Playfield.Width, Height: cfg.Playfield.Height}
}
