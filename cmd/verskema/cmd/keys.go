package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/verskema/backend"
)

func newKeysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "keys",
		Short:       "List stored archive keys",
		Annotations: storeAnnotation,
		Args:        cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			keys, err := a.store.Keys(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		}),
	}
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the accepted archive format names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range backend.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
