package main

import (
	"github.com/spf13/cobra"

	"tourcatalog/internal/catalog"
)

var (
	classifyDescription string
	classifyCountry     string
)

var classifyCmd = &cobra.Command{
	Use:   "classify <title>",
	Short: "Show the countries and display label detected for a tour title",
	Args:  cobra.ExactArgs(1),
	// no feed needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), catalog.Classify(args[0], classifyDescription, classifyCountry))
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyDescription, "description", "", "Tour description")
	classifyCmd.Flags().StringVar(&classifyCountry, "country", "", "Country hint")
	rootCmd.AddCommand(classifyCmd)
}
