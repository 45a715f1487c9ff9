// loyaltyctl operates on a ledger snapshot file without running the server:
// seeding a fresh aggregate, exporting and importing backups, and printing a
// quick summary.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
	"github.com/pointsledger/loyalty-points-backend/internal/snapshot"
)

var snapshotPath string

func main() {
	root := &cobra.Command{
		Use:           "loyaltyctl",
		Short:         "Manage loyalty ledger snapshot files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&snapshotPath, "file", "f", "loyalty_data.json", "snapshot file to operate on")

	root.AddCommand(seedCmd(), exportCmd(), importCmd(), summaryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func seedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a fresh aggregate with the seeded admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(snapshotPath); err == nil && !force {
				return errors.Errorf("%s already exists (use --force to overwrite)", snapshotPath)
			}
			if err := snapshot.NewFileStore(snapshotPath).Save(ledger.Bootstrap()); err != nil {
				return err
			}
			fmt.Printf("seeded %s\n", snapshotPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing snapshot")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the snapshot into a dated backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := snapshot.NewFileStore(snapshotPath).Load()
			if err != nil {
				return err
			}
			raw, err := snapshot.Encode(data)
			if err != nil {
				return err
			}
			if out == "" {
				out = snapshot.BackupFilename(time.Now())
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return errors.Wrap(err, "write backup")
			}
			fmt.Printf("exported %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "backup destination (default: dated filename)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Replace the snapshot with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read backup")
			}
			// imports are strict: a backup missing any core collection is
			// rejected rather than silently backfilled
			data, err := snapshot.Decode(raw)
			if err != nil {
				return err
			}
			if err := snapshot.NewFileStore(snapshotPath).Save(data); err != nil {
				return err
			}
			fmt.Printf("imported %s into %s\n", args[0], snapshotPath)
			return nil
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print collection counts and commission totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := snapshot.NewFileStore(snapshotPath).Load()
			if err != nil {
				return err
			}

			total := 0.0
			for _, e := range data.AdminEarnings {
				total += e.Amount
			}
			fmt.Printf("users:               %d\n", len(data.Users))
			fmt.Printf("transactions:        %d\n", len(data.Transactions))
			fmt.Printf("vouchers:            %d\n", len(data.Vouchers))
			fmt.Printf("correction requests: %d\n", len(data.CorrectionRequests))
			fmt.Printf("notifications:       %d\n", len(data.Notifications))
			fmt.Printf("admin earnings:      %d (%.2f EGP)\n", len(data.AdminEarnings), total)
			return nil
		},
	}
}
