package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:       "ask [on|off]",
	Short:     `Show or set the "ask before delete" preference`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 1 {
			var ask bool
			switch strings.ToLower(args[0]) {
			case "on", "true", "yes":
				ask = true
			case "off", "false", "no":
				ask = false
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			if err := s.deletion.SetAskPreference(ctx, ask); err != nil {
				return fmt.Errorf("save preference: %w", err)
			}
		}

		if s.deletion.AskBeforeDelete() {
			fmt.Println("ask before delete: on")
		} else {
			fmt.Println("ask before delete: off")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
