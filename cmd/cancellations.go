package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/occusim/config"
	"github.com/kilianp07/occusim/core/engine/logging"
)

var (
	cancRoom string
	cancDay  int
)

var cancellationsCmd = &cobra.Command{
	Use:   "cancellations",
	Short: "Query the cancellation log",
	RunE:  runCancellations,
}

func init() {
	cancellationsCmd.Flags().StringVar(&cancRoom, "room", "", "filter by meeting room id")
	cancellationsCmd.Flags().IntVar(&cancDay, "day", -1, "filter by day index")
	rootCmd.AddCommand(cancellationsCmd)
}

func runCancellations(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := logging.NewJSONLStore(cfg.Logs.Cancellations)
	if err != nil {
		return fmt.Errorf("open cancellation log: %w", err)
	}
	defer func() { _ = store.Close() }()

	q := logging.CancellationQuery{Room: cancRoom}
	if cancDay >= 0 {
		q.Day = cancDay
		q.HasDay = true
	}
	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Fprintf(cmd.OutOrStdout(), "day %d  %s  %s - %s  %dmin  %d attendees  %s\n",
			r.DayIndex, r.Room, r.Start, r.End, r.DurationMinutes, len(r.Attendees), r.Reason)
	}
	return nil
}
