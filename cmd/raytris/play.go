package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/platform/tui"
	"github.com/vovakirdan/raytris/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing in this terminal.

Controls:
  Left/Right, A/D, H/L  - Move
  Up, W, K              - Rotate
  Down, S, J            - Soft drop
  Space                 - Hard drop
  P/Esc                 - Pause
  R                     - Restart (after game over)
  ?                     - Toggle help
  Q/Ctrl+C              - Quit

Difficulty options:
  easy   - Start slow, gravity speeds up with cleared lines
  normal - Start at 30% of the speed range
  hard   - Start at 70% of the speed range
  fixed  - No progression, gravity stays at the base tick

Examples:
  raytris play
  raytris play --difficulty hard
  raytris play --debug --width 8 --height 12
  raytris play --config ./my-raytris.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runtime := core.DefaultConfig()
	runtime.ScreenW = width
	runtime.ScreenH = height
	runtime.Seed = flagSeed

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Game:    cfg,
		Runtime: runtime,
		Store:   store,
		Logger:  logger,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
