package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crlotwhite/pianoroll/core/model"
	pianomidi "github.com/crlotwhite/pianoroll/midi"
)

var importOut string

func init() {
	importCmd.Flags().StringVarP(&importOut, "out", "o", "", "output document path (default: midi path with .json)")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.mid>",
	Short: "Convert a Standard MIDI File into an editor document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args[0])
	},
}

func runImport(path string) error {
	logger := newLogger()

	s, err := pianomidi.ReadFile(path)
	if err != nil {
		return err
	}

	tc := model.DefaultTimingContext()
	tc.Tempo = pianomidi.Tempo(s)
	doc := &model.Document{
		Notes:         pianomidi.Import(s, tc),
		Tempo:         tc.Tempo,
		TimeSignature: model.TimeSignature{Numerator: 4, Denominator: 4},
		EditMode:      "select",
		SnapSetting:   "1/4",
		PixelsPerBeat: tc.PixelsPerBeat,
		SampleRate:    tc.SampleRate,
		PPQN:          tc.PPQN,
	}

	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	out := importOut
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	logger.Infof("[CLI] Imported %d notes to %s", len(doc.Notes), out)
	return nil
}
