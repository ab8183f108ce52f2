package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List popular movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printListing(cmd, "")
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List movies matching a query without opening the browser",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printListing(cmd, strings.Join(args, " "))
	},
}
