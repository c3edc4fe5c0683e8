package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/internal/audio"
	"github.com/crlotwhite/pianoroll/internal/ui"
)

var editFile string

func init() {
	editCmd.Flags().StringVarP(&editFile, "file", "f", "", "document to open; saved back on exit")
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the editor window",
	Long:  `Opens the interactive editor. Keys: S select, D draw, E erase, space plays. Ctrl+wheel zooms.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditor()
	},
}

func runEditor() error {
	logger := newLogger()

	editor := ui.NewEditor(audio.NewOtoEngine(logger), logger)

	if editFile != "" {
		data, err := os.ReadFile(editFile)
		if err != nil {
			return fmt.Errorf("opening document: %w", err)
		}
		doc, err := model.LoadDocument(data)
		if err != nil {
			return err
		}
		editor.LoadDocument(doc)
	}

	ebiten.SetWindowSize(1200, 640)
	ebiten.SetWindowTitle("pianoroll")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(editor); err != nil {
		return err
	}

	if editFile != "" {
		data, err := editor.Document().Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(editFile, data, 0o644); err != nil {
			return fmt.Errorf("saving document: %w", err)
		}
		logger.Infof("[CLI] Saved %s", editFile)
	}
	return nil
}
