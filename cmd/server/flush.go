package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/lexiflash/internal/services"
)

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Deliver parked word updates once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		outbox := services.NewOutboxService(a.outbox)
		before, err := outbox.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if before.Batches == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "outbox is empty")
			return nil
		}

		res, err := outbox.Flush(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "delivered %d of %d batches (%d updates)\n", res.Batches, before.Batches, res.Updates)
		return err
	},
}
