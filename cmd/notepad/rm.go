package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/notepad/internal/notes"
)

var rmYes bool

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a note",
	Long: `Delete removes a note permanently. When the "ask before delete"
preference is on, rm asks for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid note id %q", args[0])
		}

		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		n, ok := s.store.Find(id)
		if !ok {
			return fmt.Errorf("note %d not found", id)
		}

		if rmYes {
			if err := s.store.Delete(ctx, id); err != nil {
				return fmt.Errorf("delete note: %w", err)
			}
			fmt.Printf("Deleted note %d\n", id)
			return nil
		}

		if err := s.deletion.RequestDelete(ctx, n); err != nil {
			return fmt.Errorf("delete note: %w", err)
		}
		if s.deletion.State() != notes.PendingConfirmation {
			fmt.Printf("Deleted note %d\n", id)
			return nil
		}

		if !confirm(os.Stdin, os.Stdout, fmt.Sprintf("Delete %q?", n.Title)) {
			s.deletion.Cancel()
			fmt.Println("Kept.")
			return nil
		}
		if err := s.deletion.Confirm(ctx); err != nil {
			return fmt.Errorf("delete note: %w", err)
		}
		fmt.Printf("Deleted note %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "delete without asking")
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
