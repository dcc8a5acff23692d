package main

import "github.com/spf13/cobra"

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print tour products grouped by country",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := newService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		page, err := svc.Grid(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), page)
	},
}

func init() {
	rootCmd.AddCommand(gridCmd)
}
