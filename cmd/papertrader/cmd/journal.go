package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrader/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query trade journal data",
	Long: `Query and display trade records from a SQLite journal database.

Subcommands:
  trades - List recorded trades, optionally filtered by symbol

Examples:
  papertrader journal trades --db journal.sqlite
  papertrader journal trades --db journal.sqlite AAPL`,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades [symbol]",
	Short: "List recorded trades",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalTrades,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradesCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./journal.sqlite", "path to SQLite journal DB")
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	symbol := ""
	if len(args) == 1 {
		symbol = args[0]
	}

	recs, err := j.ListTrades(symbol)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	if len(recs) == 0 {
		fmt.Println("No trades recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tSYMBOL\tQTY\tPRICE\tTOTAL")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.2f\n",
			r.Time.Format("2006-01-02 15:04:05"), r.Action, r.Symbol, r.Quantity, r.Price, r.Total)
	}
	return w.Flush()
}
