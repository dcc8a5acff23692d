package main

import (
	"github.com/spf13/cobra"

	"tourcatalog/internal/catalog"
	"tourcatalog/internal/domain"
)

var availabilityYear int

type availabilityOutput struct {
	Product string             `json:"product"`
	Toggle  catalog.YearToggle `json:"toggle"`
	Stars   []string           `json:"hotel_stars"`
}

var availabilityCmd = &cobra.Command{
	Use:   "availability <title>",
	Short: "Print the two-year departure months of one tour product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := newService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		p, err := svc.Product(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		t, err := svc.Availability(cmd.Context(), p.Key, availabilityYear)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), availabilityOutput{Product: p.Title, Toggle: t, Stars: stars(p.Hotels)})
	},
}

func stars(hotels []domain.Hotel) []string {
	out := make([]string, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, h.Name+" "+catalog.Stars(h.Rating))
	}
	return out
}

func init() {
	availabilityCmd.Flags().IntVar(&availabilityYear, "year", 0, "Year to show (current or next; default current)")
	rootCmd.AddCommand(availabilityCmd)
}
