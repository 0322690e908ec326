package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(factory appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "soilctl",
		Short:         "Predict soil nutrients from impedance without the web dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVariantsCmd(factory), newPredictCmd(factory))
	return cmd
}
