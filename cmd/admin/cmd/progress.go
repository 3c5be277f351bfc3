package cmd

import (
	"github.com/spf13/cobra"
)

func StreaksCmd() *cobra.Command {
	var userID, asOf string

	cmd := &cobra.Command{
		Use:   "streaks",
		Short: "Print current and longest streak for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			date, err := dateFlag(a.Cfg.Location(), "as-of", asOf)
			if err != nil {
				return err
			}

			stats, err := a.ProgressService.Streaks(cmd.Context(), userID, date)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&asOf, "as-of", "", "date in YYYY-MM-DD (default today)")
	return cmd
}

func SummaryCmd() *cobra.Command {
	var userID, date string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			today, err := dateFlag(a.Cfg.Location(), "date", date)
			if err != nil {
				return err
			}

			summary, err := a.SummaryService.Summary(cmd.Context(), userID, today)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&date, "date", "", "date in YYYY-MM-DD (default today)")
	return cmd
}

func RecomputeCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Drop orphaned entries and recompute every progress record of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			repaired, err := a.ProgressService.RecomputeAll(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]int{"repaired": repaired})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	return cmd
}
