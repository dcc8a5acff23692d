package main

import (
	"github.com/spf13/cobra"

	"tourcatalog/internal/app"
)

var (
	calendarMonth    string
	calendarSelected string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print the calendar view for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := newService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		page, err := svc.Calendar(cmd.Context(), app.CalendarQuery{Month: calendarMonth, DeepLink: calendarSelected})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), page)
	},
}

func init() {
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show, YYYY-MM (default: current or earliest month with data)")
	calendarCmd.Flags().StringVar(&calendarSelected, "selected-tour-date", "", "Select a date, YYYYMMDD")
	rootCmd.AddCommand(calendarCmd)
}
