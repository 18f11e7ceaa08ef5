package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/mailgroom/internal/credential"
	"github.com/nhle/mailgroom/internal/model"
)

var (
	accountHost   string
	accountPort   string
	accountUser   string
	accountTLS    bool
	accountFolder string
)

// accountCmd groups the IMAP account subcommands.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Configure the IMAP account used for draft cleaning",
}

// accountSetCmd stores the account settings in the config file and the
// password in the system keyring.
var accountSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the IMAP account and store its password in the keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		if accountHost == "" || accountUser == "" {
			return fmt.Errorf("--host and --user are required")
		}

		fmt.Fprintf(os.Stderr, "Password for %s: ", accountUser)
		reader := bufio.NewReader(cmd.InOrStdin())
		password, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(password, "\r\n")
		if password == "" {
			return fmt.Errorf("empty password")
		}

		if err := credential.SetPassword(accountUser, password); err != nil {
			return err
		}

		cfg.Account = model.AccountConfig{
			IMAPHost:     accountHost,
			IMAPPort:     accountPort,
			Username:     accountUser,
			TLS:          accountTLS,
			DraftsFolder: accountFolder,
		}
		return saveConfig()
	},
}

// accountValidateCmd connects with the stored credentials and reports
// the drafts folder that was found.
var accountValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Verify the stored account credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newMailboxClient()
		if err != nil {
			return err
		}

		folder, err := client.ValidateConnection(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Connected; drafts folder is %q\n", folder)
		return nil
	},
}

func init() {
	accountSetCmd.Flags().StringVar(&accountHost, "host", "", "IMAP host")
	accountSetCmd.Flags().StringVar(&accountPort, "port", "993", "IMAP port")
	accountSetCmd.Flags().StringVar(&accountUser, "user", "", "account username")
	accountSetCmd.Flags().BoolVar(&accountTLS, "tls", true, "use implicit TLS")
	accountSetCmd.Flags().StringVar(
		&accountFolder, "drafts-folder", "", "drafts mailbox name (probed when empty)",
	)

	accountCmd.AddCommand(accountSetCmd)
	accountCmd.AddCommand(accountValidateCmd)
}
