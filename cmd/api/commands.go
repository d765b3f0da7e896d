package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ucWaitlist "github.com/BruksfildServices01/salon-scheduler/internal/usecase/waitlist"
)

func waitlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waitlist",
		Short: "Waitlist maintenance",
	}

	var (
		salonID uint
		notify  bool
	)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Find open slots for a salon's waitlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if salonID == 0 {
				return fmt.Errorf("--salon is required")
			}

			a, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			matches, err := a.CheckMatches.Execute(ctx, salonID)
			if err != nil {
				return err
			}

			if notify {
				for _, m := range matches {
					_, err := a.NotifyMatch.Execute(ctx, ucWaitlist.NotifyInput{
						SalonID: salonID,
						EntryID: m.EntryID,
						StaffID: m.StaffID,
						Start:   m.Start,
					})
					if err != nil {
						logger.Warn().Err(err).Uint("entry_id", m.EntryID).Msg("notify match")
					}
				}
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(matches)
		},
	}
	scanCmd.Flags().UintVar(&salonID, "salon", 0, "salon id")
	scanCmd.Flags().BoolVar(&notify, "notify", false, "offer each match to the client by sms")

	cmd.AddCommand(scanCmd)
	return cmd
}

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Notification outbox",
	}

	var (
		salonID uint
		limit   int
	)

	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Deliver pending notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Notifier.ProcessPending(context.Background(), salonID, limit)
			if err != nil {
				return err
			}

			logger.Info().Int("sent", res.Sent).Int("failed", res.Failed).Msg("notifications processed")
			return nil
		},
	}
	processCmd.Flags().UintVar(&salonID, "salon", 0, "salon id (0 processes every salon)")
	processCmd.Flags().IntVar(&limit, "limit", 500, "maximum notifications to deliver")

	cmd.AddCommand(processCmd)
	return cmd
}

func locksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locks",
		Short: "Slot lock maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired slot locks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Locks.Purge(context.Background())
			if err != nil {
				return err
			}

			logger.Info().Int64("purged", n).Msg("expired locks purged")
			return nil
		},
	})
	return cmd
}
