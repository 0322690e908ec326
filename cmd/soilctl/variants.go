package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newVariantsCmd(factory appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List configured variants and whether their model loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := factory(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSCHEMA\tCOLUMNS\tCHARTS\tMODEL")
			for _, v := range a.dashboard.Variants() {
				status, err := a.dashboard.Status(v.Name)
				if err != nil {
					return err
				}
				model := string(status.Kind)
				if !status.Available {
					model = "unavailable: " + status.Error
				}
				charts := make([]string, len(v.Charts))
				for i, c := range v.Charts {
					charts[i] = string(c)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
					v.Name, v.Schema.Name, v.Schema.Len(), strings.Join(charts, ","), model)
			}
			return w.Flush()
		},
	}
}
