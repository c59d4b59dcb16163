package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var newBody string

var newCmd = &cobra.Command{
	Use:   "new [title...]",
	Short: "Create a note and print its id",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.store.Create(ctx)
		if err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		if title := strings.TrimSpace(strings.Join(args, " ")); title != "" {
			if err := s.store.Rename(ctx, n.ID, title); err != nil {
				return fmt.Errorf("rename note: %w", err)
			}
		}
		if newBody != "" {
			if err := s.store.SetBody(ctx, n.ID, newBody); err != nil {
				return fmt.Errorf("set body: %w", err)
			}
		}
		fmt.Println(n.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newBody, "body", "b", "", "note body")
}
