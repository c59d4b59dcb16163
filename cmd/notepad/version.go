package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/notepad/internal/version"
)

var versionVerbose bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of notepad",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		v := version.Effective(Version)
		fmt.Printf("notepad version %s\n", v)
		if !versionVerbose {
			return
		}
		d := version.Describe(Version)
		if d.GoVersion != "" {
			fmt.Printf("go:      %s\n", d.GoVersion)
		}
		if d.Revision != "" {
			rev := d.Revision
			if d.Modified {
				rev += " (modified)"
			}
			fmt.Printf("commit:  %s\n", rev)
		}
		if d.BuildTime != "" {
			fmt.Printf("built:   %s\n", d.BuildTime)
		}
		if d.Executable != "" {
			fmt.Printf("binary:  %s\n", d.Executable)
		}
		if d.GoInstalled {
			fmt.Printf("update:  %s\n", version.InstallCommand(v))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionVerbose, "verbose", false, "also print build details")
}
