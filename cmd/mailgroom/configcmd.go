package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/mailgroom/internal/model"
	"github.com/nhle/mailgroom/internal/pipeline"
)

// configCmd groups the configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the cleaning configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Steps:            %s\n", strings.Join(cfg.Pipeline.Steps, ", "))
		fmt.Printf("Internal domains: %s\n", strings.Join(cfg.Pipeline.InternalDomains, ", "))
		fmt.Printf("Org domain:       %s\n", cfg.Pipeline.OrgDomain)
		fmt.Printf("Alphabetical:     %v\n", cfg.Pipeline.Alphabetical)
		fmt.Printf("Abort on invalid: %v\n", cfg.Pipeline.AbortOnInvalid)
		fmt.Printf("History:          %v (%s)\n", cfg.History.Enabled, cfg.History.DBPath)
		if cfg.Account.Username != "" {
			fmt.Printf("Account:          %s@%s:%s\n",
				cfg.Account.Username, cfg.Account.IMAPHost, cfg.Account.IMAPPort)
		}
		return nil
	},
}

var configSetStepsCmd = &cobra.Command{
	Use:   "set-steps <step>...",
	Short: "Set the enabled steps and their order",
	Long: `Set the enabled steps and their execution order.

Recognized steps: ` + strings.Join(pipeline.StepNames(), ", ") + `.
Unknown names are stored but skipped at run time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		known := make(map[string]bool)
		for _, name := range pipeline.StepNames() {
			known[name] = true
		}
		for _, name := range args {
			if !known[name] {
				logger.Warn("unknown step will be skipped at run time", "step", name)
			}
		}

		cfg.Pipeline.Steps = args
		return saveConfig()
	},
}

var configAddDomainCmd = &cobra.Command{
	Use:   "add-domain <domain>",
	Short: "Append a domain to the internal domain list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain := strings.TrimSpace(args[0])
		for _, existing := range cfg.Pipeline.InternalDomains {
			if strings.EqualFold(existing, domain) {
				return fmt.Errorf("domain %q is already configured", domain)
			}
		}
		cfg.Pipeline.InternalDomains = append(cfg.Pipeline.InternalDomains, domain)
		return saveConfig()
	},
}

var configRemoveDomainCmd = &cobra.Command{
	Use:   "remove-domain <domain>",
	Short: "Remove a domain from the internal domain list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain := strings.TrimSpace(args[0])
		kept := cfg.Pipeline.InternalDomains[:0]
		found := false
		for _, existing := range cfg.Pipeline.InternalDomains {
			if strings.EqualFold(existing, domain) {
				found = true
				continue
			}
			kept = append(kept, existing)
		}
		if !found {
			return fmt.Errorf("domain %q is not configured", domain)
		}
		cfg.Pipeline.InternalDomains = kept
		return saveConfig()
	},
}

var configSetOrgCmd = &cobra.Command{
	Use:   "set-org <domain>",
	Short: "Set the organization domain used for external flagging",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Pipeline.OrgDomain = strings.TrimSpace(args[0])
		return saveConfig()
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetStepsCmd)
	configCmd.AddCommand(configAddDomainCmd)
	configCmd.AddCommand(configRemoveDomainCmd)
	configCmd.AddCommand(configSetOrgCmd)
}

func saveConfig() error {
	if err := model.SaveConfig(configPath, cfg); err != nil {
		return err
	}
	fmt.Println("Saved", configPath)
	return nil
}
