package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-insight",
	Short: "A CLI for managing the Golang Stock Insight services",
	Long:  `Golang Stock Insight aggregates market data, generates naive predictions, and tracks their accuracy.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
