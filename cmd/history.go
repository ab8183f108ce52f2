package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"marquee/internal/browser"
	"marquee/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently watched trailers",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget recently watched trailers",
	Args:  cobra.NoArgs,
	RunE:  historyClearRun,
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

// historyManager wraps kv for the history commands, which never fetch.
func historyManager(kv store.KV) *browser.Manager {
	return browser.New(nil, kv, browser.WithLogger(logger))
}

func historyRun(cmd *cobra.Command, args []string) error {
	kv, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	mgr := historyManager(kv)
	mgr.LoadHistory()
	return printHistory(cmd.OutOrStdout(), mgr.Snapshot().RecentlyViewed, flagJSON)
}

func historyClearRun(cmd *cobra.Command, args []string) error {
	kv, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	return clearHistory(cmd.OutOrStdout(), kv)
}

func clearHistory(w io.Writer, kv store.KV) error {
	if err := historyManager(kv).ClearRecentlyViewed(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	fmt.Fprintln(w, "Recently watched list cleared.")
	return nil
}
