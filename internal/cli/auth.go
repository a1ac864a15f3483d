package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	var initData string
	var telegramID int64
	var name string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate and save a session token",
		Long: `Authenticate against the server and save the returned session token.

Pass a signed identity assertion with --init-data, or, against a server
running with the insecure fallback enabled, pass --id (and optionally
--name) directly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initData == "" && telegramID == 0 {
				return fmt.Errorf("--init-data or --id is required")
			}

			req := map[string]any{}
			if initData != "" {
				req["init_data"] = initData
			} else {
				req["telegram_id"] = telegramID
				if name != "" {
					req["display_name"] = name
				}
			}

			var result AuthResult
			if err := client.Post("/api/v1/auth", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&initData, "init-data", "", "Signed identity assertion")
	cmd.Flags().Int64Var(&telegramID, "id", 0, "Telegram ID (insecure fallback only)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (insecure fallback only)")

	return cmd
}
