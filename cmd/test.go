package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to qBittorrent",
	Long:  `Test the connection to your qBittorrent instance and display basic information.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to qBittorrent at %s:%d...\n",
		cfg.Qbittorrent.Host, cfg.Qbittorrent.Port)

	ctx := context.Background()
	if err := client.Login(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Println("✓ Connection successful!")

	torrents, err := client.ListTorrents(ctx)
	if err != nil {
		return fmt.Errorf("failed to get torrents: %w", err)
	}

	var active, paused int
	for _, t := range torrents {
		if t.IsPaused() {
			paused++
		} else {
			active++
		}
	}

	fmt.Printf("\nqBittorrent Statistics:\n")
	fmt.Printf("- Total torrents: %d\n", len(torrents))
	fmt.Printf("- Active: %d\n", active)
	fmt.Printf("- Paused: %d\n", paused)
	fmt.Printf("\nCheck interval: %s\n", cfg.Thresholds.CheckInterval)
	fmt.Printf("Grace checks before removal: %d\n", cfg.Thresholds.GraceChecks)

	return nil
}
