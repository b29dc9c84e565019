package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/spmcache/datarecording"
	"github.com/sarchlab/spmcache/mem/trace"
)

var reportCmd = &cobra.Command{
	Use:   "report DB_FILE",
	Short: "Summarize a database recorded by run --db.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		s, err := trace.Summarize(cmd.Context(), reader)
		if err != nil {
			return fmt.Errorf("summarizing %s: %w", args[0], err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "accesses: %d\n", s.Accesses)
		fmt.Fprintf(w, "hits: %d\n", s.Hits)
		fmt.Fprintf(w, "evictions: %d\n", s.Evictions)
		fmt.Fprintf(w, "write-backs: %d\n", s.WriteBacks)
		fmt.Fprintf(w, "migrations: %d\n", s.Migrations)
		fmt.Fprintf(w, "last access completes at: %.9f s\n", s.LastAccess)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
