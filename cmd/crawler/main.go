// Package main is the entry point for the crawler simulation CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crawler",
	Short: "Dungeon crawler simulation core",
	Long:  `Crawler runs the dungeon-crawler simulation core: combat, enemy spawning, inventory, and Redis-backed save slots.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(playCmd)
}
