package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "openalgo-sheets",
	Short: "A CLI for managing the OpenAlgo sheet bridge services",
	Long:  `OpenAlgo Sheets bridges spreadsheet add-ins to an OpenAlgo trading API, reshaping JSON responses into spreadsheet-ready grids.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
