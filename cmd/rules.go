package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/filacheck/filacheck/internal"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRules(cmd.OutOrStdout(), internal.DefaultRules())
	},
}

func listRules(w io.Writer, rules []internal.Rule) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tCATEGORY\tFIXABLE")
	for _, r := range rules {
		fixable := "no"
		if r.Fixable() {
			fixable = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name(), r.Category().Label(), fixable)
	}
	return tw.Flush()
}
