package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/mailgroom/internal/pipeline"
	"github.com/nhle/mailgroom/internal/recipient"
	"github.com/nhle/mailgroom/internal/typo"
)

// checkCmd validates a single recipient string without running a full
// pipeline: format rules first, then the typo detector.
var checkCmd = &cobra.Command{
	Use:   "check <recipient>",
	Short: "Validate a single recipient string",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := recipient.Parse(args[0])

		if reason := pipeline.CheckFormat(entry.Email); reason != "" {
			return fmt.Errorf("invalid address %q: %s", entry.Email, reason)
		}

		if hit := typo.Check(entry.Email, typo.DefaultOptions()); hit.HasTypo {
			fmt.Printf("%s looks valid, but did you mean %s?\n", entry.Email, hit.Suggestion)
			return nil
		}

		fmt.Printf("%s is valid\n", entry.Email)
		return nil
	},
}
