package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kmonadfmt/pkg/cache"
	"github.com/matzehuels/kmonadfmt/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the clean-file cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget all clean-file markers",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newCache(cmd.Context(), c.config(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			var count int
			switch s := store.(type) {
			case *cache.FileCache:
				if count, err = s.Clear(); err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Directory: %s", s.Dir())
			case *cache.RedisCache:
				if count, err = s.Clear(cmd.Context()); err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Redis: %s", c.config().Cache.RedisURL)
			default:
				printInfo("Cache is disabled")
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache is kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			switch cfg.Cache.Backend {
			case config.BackendRedis:
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.RedisURL)
				return nil
			case config.BackendNone:
				printInfo("Cache is disabled")
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			printKeyValue("Backend", cfg.Cache.Backend)
			printKeyValue("TTL", cfg.Cache.TTL.String())
			return nil
		},
	}
}
