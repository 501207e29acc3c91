package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freshdesk/freshdesk-cli/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local name-resolution cache",
		Long:  "The CLI caches listings used for name resolution (e.g. solution categories) for a few minutes. Set FRESHDESK_NO_CACHE=1 to disable caching entirely.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached listings",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("failed to locate cache directory: %w", err)
			}
			cache.ClearAll(dir)
			_, _ = fmt.Fprintln(cmdOut(cmd), "Cache cleared.")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory path",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("failed to locate cache directory: %w", err)
			}
			_, _ = fmt.Fprintln(cmdOut(cmd), dir)
			return nil
		}),
	})

	return cmd
}
