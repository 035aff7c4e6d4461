// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tex2text/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <output_report>",
	Short: "Print the statistics table from an existing report",
	Long: `Report reads a statistics report produced by an extraction run (CSV or
SQLite, selected by file extension) and prints its rows in aligned columns.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	store, err := report.Open(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.Records()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("report is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tWORDS\tPARAGRAPHS\tCHARS\tSECONDS")
	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.3f\n",
			rec.Name, rec.Words, rec.Paragraphs, rec.Chars, rec.Seconds)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
