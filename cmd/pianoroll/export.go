package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/midi"
)

var exportOut string

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output .mid path (default: document path with .mid)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <document.json>",
	Short: "Export a document to a Standard MIDI File",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(args[0])
	},
}

func runExport(path string) error {
	logger := newLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	doc, err := model.LoadDocument(data)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".mid"
	}
	if err := midi.WriteFile(out, doc.Notes, doc.Tempo, doc.TimeSignature, doc.PPQN); err != nil {
		return err
	}
	logger.Infof("[CLI] Exported %d notes to %s", len(doc.Notes), out)
	return nil
}
