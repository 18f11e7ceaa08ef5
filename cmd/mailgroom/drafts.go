package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/mailgroom/internal/credential"
	"github.com/nhle/mailgroom/internal/mailbox"
)

var draftsLimit int

// draftsCmd lists the drafts in the configured IMAP account, so the
// user can pick a UID for `clean --draft`.
var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List draft messages in the configured IMAP account",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newMailboxClient()
		if err != nil {
			return err
		}

		drafts, err := client.ListDrafts(cmd.Context(), draftsLimit)
		if err != nil {
			return err
		}

		if len(drafts) == 0 {
			fmt.Println("No drafts found.")
			return nil
		}

		for _, d := range drafts {
			recipients := len(d.To) + len(d.Cc) + len(d.Bcc)
			subject := d.Subject
			if subject == "" {
				subject = "(no subject)"
			}
			fmt.Printf("%6d  %s  (%d recipient(s))\n", d.UID, subject, recipients)
			if len(d.To) > 0 {
				fmt.Printf("        To: %s\n", strings.Join(d.To, ", "))
			}
		}

		return nil
	},
}

func init() {
	draftsCmd.Flags().IntVar(&draftsLimit, "limit", 20, "maximum number of drafts to list")
}

// newMailboxClient builds the drafts client from the configured account
// and the keyring-stored password.
func newMailboxClient() (*mailbox.Client, error) {
	account := cfg.Account
	if account.IMAPHost == "" || account.Username == "" {
		return nil, fmt.Errorf(
			"no IMAP account configured; run `mailgroom account set` first",
		)
	}

	password, err := credential.GetPassword(account.Username)
	if err != nil {
		return nil, fmt.Errorf(
			"no stored password for %s; run `mailgroom account set`: %w",
			account.Username, err,
		)
	}

	return mailbox.NewClient(
		account.IMAPHost, account.IMAPPort,
		account.Username, password,
		account.TLS, account.DraftsFolder,
	), nil
}
