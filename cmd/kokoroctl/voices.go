package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harunnryd/kokoroctl/pkg/voices"
)

func newVoicesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the available voices with their language",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := a.engine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer eng.Close()

			catalog := eng.Catalog()
			if !catalog.Usable() {
				fmt.Fprintln(cmd.ErrOrStderr(), errorColor.Sprint(catalog.Default()))
				return errFailed
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, id := range catalog.IDs() {
				fmt.Fprintf(tw, "%s\t%s\n", id, voices.Language(id))
			}
			return tw.Flush()
		},
	}
}
