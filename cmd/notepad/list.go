package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/marcus/notepad/internal/notes"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		list := s.store.List()
		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(list)
		}
		printTable(os.Stdout, list)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}

const (
	titleColumn   = 30
	previewColumn = 40
)

// printTable writes one aligned line per note: id, title, first body line.
func printTable(w io.Writer, list []notes.Note) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No notes.")
		return
	}
	for _, n := range list {
		title := runewidth.FillRight(runewidth.Truncate(oneLine(n.Title), titleColumn, "…"), titleColumn)
		preview := runewidth.Truncate(firstLine(n.Body), previewColumn, "…")
		fmt.Fprintf(w, "%-16d  %s  %s\n", n.ID, title, strings.TrimRight(preview, " "))
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
