package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/mailgroom/internal/groom"
	"github.com/nhle/mailgroom/internal/pipeline"
	"github.com/nhle/mailgroom/internal/report"
)

var (
	cleanTo    []string
	cleanCc    []string
	cleanBcc   []string
	cleanSteps []string
	cleanJSON  bool
	cleanDraft uint32
	cleanAbort bool
	cleanNoSav bool
)

// cleanCmd runs the pipeline against flag-provided lists, a JSON
// payload on stdin, or an IMAP draft.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run the cleaning pipeline against recipient lists",
	Long: `Run the cleaning pipeline.

Input comes from one of:
  --to/--cc/--bcc   recipient strings given on the command line
  --json            a request payload read from stdin
  --draft UID       a draft message in the configured IMAP account
                    (the cleaned lists are written back to the draft)

With --json, output is the result payload as JSON on stdout; otherwise
a human-readable report is printed.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringSliceVar(&cleanTo, "to", nil, "To recipients")
	cleanCmd.Flags().StringSliceVar(&cleanCc, "cc", nil, "Cc recipients")
	cleanCmd.Flags().StringSliceVar(&cleanBcc, "bcc", nil, "Bcc recipients")
	cleanCmd.Flags().StringSliceVar(
		&cleanSteps, "steps", nil, "override the configured step order",
	)
	cleanCmd.Flags().BoolVar(
		&cleanJSON, "json", false, "read a request payload from stdin, write the result as JSON",
	)
	cleanCmd.Flags().Uint32Var(
		&cleanDraft, "draft", 0, "clean the draft with this IMAP UID and write it back",
	)
	cleanCmd.Flags().BoolVar(
		&cleanAbort, "abort-on-invalid", false,
		"refuse to run when any address is invalid, changing nothing",
	)
	cleanCmd.Flags().BoolVar(
		&cleanNoSav, "no-save", false, "do not record this run in history",
	)
}

func runClean(cmd *cobra.Command, args []string) error {
	if cleanAbort {
		cfg.Pipeline.AbortOnInvalid = true
	}
	if cleanNoSav {
		cfg.History.Enabled = false
	}

	service, closeHistory, err := newService()
	if err != nil {
		return err
	}
	defer closeHistory()

	ctx := cmd.Context()

	if cleanDraft != 0 {
		client, err := newMailboxClient()
		if err != nil {
			return err
		}

		result, draft, err := service.CleanDraft(ctx, client, cleanDraft)
		if err != nil {
			return reportInvalid(err)
		}

		fmt.Printf("Cleaned draft %d: %s\n\n", draft.UID, draft.Subject)
		fmt.Print(report.Render(result))
		return nil
	}

	if cleanJSON {
		return runCleanJSON(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), service)
	}

	req := service.NewRequest(cleanTo, cleanCc, cleanBcc)
	if len(cleanSteps) > 0 {
		req.EnabledSteps = cleanSteps
	}

	result, err := service.Clean(ctx, req, "cli")
	if err != nil {
		return reportInvalid(err)
	}

	fmt.Print(report.Render(result))
	return nil
}

// runCleanJSON implements the machine interface: a request payload on
// stdin, the result payload on stdout.
func runCleanJSON(ctx context.Context, in io.Reader, out io.Writer, service *groom.Service) error {
	var req pipeline.Request
	decoder := json.NewDecoder(in)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return fmt.Errorf("decoding request payload: %w", err)
	}

	if len(cleanSteps) > 0 {
		req.EnabledSteps = cleanSteps
	}

	result, err := service.Clean(ctx, req, "json")
	if err != nil {
		return reportInvalid(err)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encoding result payload: %w", err)
	}

	return nil
}

// reportInvalid expands an abort-on-invalid refusal with its per-entry
// detail before handing the error up.
func reportInvalid(err error) error {
	var invalidErr *groom.InvalidRecipientsError
	if !errors.As(err, &invalidErr) {
		return err
	}

	for _, o := range invalidErr.Invalid {
		fmt.Fprintf(os.Stderr, "invalid %s entry %q: %s\n", o.Field, o.Entry, o.Reason)
	}
	return err
}
