package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/verskema/diag/zapsink"
	"github.com/reoring/verskema/roundtrip"
	"github.com/reoring/verskema/store"
)

func newDemoCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:         "demo",
		Short:       "Round-trip the pet record across revisions 100 and 110",
		Annotations: storeAnnotation,
		Args:        cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			runID, _ := cmd.Flags().GetString("run-id")
			if runID == "" {
				runID = store.NewRunID()
			}
			results, err := roundtrip.RunDemo(cmd.Context(), roundtrip.DemoOptions{
				Store:   a.store,
				Backend: a.backend,
				Prefix:  runID,
				Sink:    zapsink.New(a.log, a.tr),
			})
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("verskema demo (%s)", a.backend.Format())))
			for _, r := range results {
				fmt.Fprintf(out, "%s %s\n", keyStyle.Render(r.Key), resultStyle.Render(r.Output))
				for _, d := range r.Diagnostics {
					fmt.Fprintln(out, "  "+warnStyle.Render(zapsink.Message(a.tr, d)))
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, helpStyle.Render("run id: "+runID))
			return nil
		}),
	}
	c.Flags().String("run-id", "", "Key prefix for the archives (default: a new KSUID)")
	return c
}
