package main

import (
	"os"

	"github.com/spf13/cobra"

	game_log "github.com/crlotwhite/pianoroll/internal/log"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "pianoroll",
	Short: "Interactive piano roll note editor",
	Long:  `An interactive piano roll: draw, drag, resize and erase notes on a zoomable grid, with audio preview and MIDI import/export.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, none)")
}

func newLogger() *game_log.Logger {
	return game_log.New(os.Stderr, game_log.LevelFromString(logLevel))
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
