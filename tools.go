package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"paperhub/catalog"
)

var toolsCategory string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool catalog and upcoming deadlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tLINK")
		for _, t := range catalog.Filter(toolsCategory, "", func(string) bool { return false }) {
			link := t.Link
			if t.Internal {
				link = "(built in)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Label, link)
		}
		fmt.Fprintln(w)

		now := time.Now()
		fmt.Fprintln(w, "CONFERENCE\tDEADLINE (AoE)\tSTATUS")
		for _, c := range catalog.Conferences() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Deadline.Format(time.DateOnly), c.Status(now))
		}
		return w.Flush()
	},
}

func init() {
	toolsCmd.Flags().StringVarP(&toolsCategory, "category", "c", catalog.CategoryAll, "category id to list")
}
