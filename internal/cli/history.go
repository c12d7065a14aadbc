package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"movie-quiz-service/internal/config"
	"movie-quiz-service/internal/domain"
)

// NewHistoryCmd prints the recent rounds of a session from the configured store.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var (
		sessionID string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent rounds for a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), cmd.OutOrStdout(), *configPath, sessionID, limit)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id to look up")
	cmd.Flags().IntVar(&limit, "limit", 10, "number of rounds to show")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func runHistory(ctx context.Context, out io.Writer, configPath, sessionID string, limit int) error {
	cfg, _, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	history, closeHistory, err := openHistory(cfg, b)
	if err != nil {
		return err
	}
	defer closeHistory()

	rounds, err := history.Recent(ctx, sessionID, limit)
	if err != nil {
		return err
	}
	return printRounds(out, rounds)
}

func printRounds(out io.Writer, rounds []domain.RoundRecord) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(out, "no rounds recorded")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYED\tMODE\tMOVIE\tGUESSED\tHINTS\tTIME\tSCORE")
	for _, r := range rounds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\t%s\t%d\n",
			r.PlayedAt.Local().Format(time.DateTime), r.Mode, r.MovieTitle, r.Guessed,
			r.HintsUsed, r.TimeSpent.Round(time.Second), r.Score)
	}
	return tw.Flush()
}
