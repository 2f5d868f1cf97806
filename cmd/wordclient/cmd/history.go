package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"github.com/wordgame/wordclient/internal/config"
	"github.com/wordgame/wordclient/internal/db"
	"github.com/wordgame/wordclient/internal/models"
	"github.com/wordgame/wordclient/internal/repo"
)

const (
	formatJSON = "json"
	formatCBOR = "cbor"
)

var (
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show the rounds recorded in the database",
	}
	historyListCmd = &cobra.Command{
		Use:   "list",
		Short: "List recent rounds",
		Run:   startHistoryList,
	}
	historyExportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export recent rounds with their guesses",
		Run:   startHistoryExport,
	}
	historyFlags = struct {
		Limit  int
		Format string
		Out    string
	}{}
)

func init() {
	historyCmd.PersistentFlags().IntVar(&historyFlags.Limit, "limit", 20, "the maximum amount of rounds")
	historyExportCmd.Flags().StringVar(&historyFlags.Format, "format", formatJSON, "the export format, either 'json' or 'cbor'")
	historyExportCmd.Flags().StringVar(&historyFlags.Out, "out", "-", "the file to write to, '-' for stdout")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	Root.AddCommand(historyCmd)
}

func startHistoryList(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	rounds, closeDB := openRounds(ctx, loadConfig(cmd))
	defer closeDB()

	list, err := rounds.ListRounds(ctx, historyFlags.Limit)
	if err != nil {
		exitWithError(err.Error())
		return
	}

	if err := writeRoundsTable(os.Stdout, list, time.Now()); err != nil {
		exitWithError(err.Error())
	}
}

func startHistoryExport(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	rounds, closeDB := openRounds(ctx, loadConfig(cmd))
	defer closeDB()

	list, err := rounds.ListRounds(ctx, historyFlags.Limit)
	if err != nil {
		exitWithError(err.Error())
		return
	}

	// ListRounds leaves out the guesses
	for i, round := range list {
		if list[i], err = rounds.GetRound(ctx, round.ID); err != nil {
			exitWithError(err.Error())
			return
		}
	}

	var w io.Writer = os.Stdout
	if historyFlags.Out != "-" && historyFlags.Out != "" {
		f, err := os.Create(historyFlags.Out)
		if err != nil {
			exitWithError(err.Error())
			return
		}
		defer f.Close()
		w = f
	}

	if err := encodeRounds(w, historyFlags.Format, list); err != nil {
		exitWithError(err.Error())
	}
}

func openRounds(ctx context.Context, cfg *config.Config) (*repo.RoundsRepo, func() error) {
	if cfg.DB == "" {
		exitWithError("no database configured, use --db or set db in the config file")
		return nil, nil
	}

	sqldb, err := db.Open(ctx, cfg.DB, db.OpenOptions{})
	if err != nil {
		exitWithError(err.Error())
		return nil, nil
	}

	return repo.New(sqldb), sqldb.Close
}

func writeRoundsTable(w io.Writer, rounds []*models.Round, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROUND\tOUTCOME\tSCORE\tSTARTED\tDEFINITION")
	for _, round := range rounds {
		outcome := round.Outcome
		if !round.Finished() {
			outcome = "playing"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\t%s\n",
			round.ID, round.RoundID, outcome, round.Score,
			getTimeSinceString(round.StartedAt, now), round.Definition)
	}
	return tw.Flush()
}

func encodeRounds(w io.Writer, format string, rounds []*models.Round) error {
	if rounds == nil {
		rounds = []*models.Round{}
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rounds)
	case formatCBOR:
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return err
		}
		return em.NewEncoder(w).Encode(rounds)
	default:
		return fmt.Errorf("unknown export format: %q", format)
	}
}
