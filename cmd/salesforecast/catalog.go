package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aouyang1/go-salesforecaster/segment"

	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the model parameters and recorded accuracy of every entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, accuracy := a.params, a.accuracy

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Entity\tARIMA\tSARIMAX\tSeasonal")
			for _, entity := range params.Entities() {
				p, err := params.Lookup(entity)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entity, p.ARIMA, p.SARIMAX, p.Seasonal)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(a.out)

			tw = tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Entity\tTarget\tModel\tAccuracy")
			for _, entity := range segment.Entities() {
				for _, target := range segment.Targets() {
					for _, model := range segment.Models() {
						annotation, ok := accuracy.Resolve(entity, target, model)
						note := "no measurement"
						if ok {
							note = annotation.Header
						}
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entity, target, model, note)
					}
				}
			}
			return tw.Flush()
		},
	}
}
