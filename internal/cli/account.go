package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account commands",
	}

	cmd.AddCommand(newAccountMeCmd())
	cmd.AddCommand(newAccountBonusCmd())
	cmd.AddCommand(newAccountAdjustCmd())

	return cmd
}

func newAccountMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show current account info",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Account

			if err := client.Get("/api/v1/accounts/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAccountBonusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bonus",
		Short: "Claim the daily bonus",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BonusResult

			if err := client.Post("/api/v1/accounts/me/bonus", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAccountAdjustCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjust <delta>",
		Short: "Adjust the account balance by a signed delta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("delta must be an integer: %q", args[0])
			}

			req := map[string]any{"delta": json.Number(strconv.FormatInt(delta, 10))}
			var result BalanceResult

			if err := client.Post("/api/v1/accounts/me/balance", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	return cmd
}
