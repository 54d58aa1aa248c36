package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smartsched/smartsched/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account for calendar access",
		Long: `Authorize smartsched to access a Google Calendar account.

Opens an OAuth consent URL in your browser. After granting access, paste the
authorization code back into the terminal. The resulting token is stored on
disk and reused by the serve command.

Multiple accounts can be authorized by running this command with different
--account values (e.g. work, personal).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, account)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account identifier to store the token under")

	return cmd
}

func runAuth(cmd *cobra.Command, account string) error {
	authURL := google.GetAuthURLForAccount(account)

	fmt.Fprintf(cmd.OutOrStdout(), "Visit the following URL to authorize account %q:\n\n%s\n\n", account, authURL)
	fmt.Fprint(cmd.OutOrStdout(), "Enter the authorization code: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	if err := google.SaveTokenForAccount(cmd.Context(), account, code); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Token saved for account %q\n", account)
	return nil
}
