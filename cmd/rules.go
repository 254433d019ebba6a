package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vibeshield/internal/rules"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List or validate detection rules",
	}
	cmd.AddCommand(newRulesListCmd(), newRulesValidateCmd())
	return cmd
}

type ruleRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Source   string `json:"source"`
	Pattern  string `json:"pattern"`
	Fix      string `json:"fix"`
}

func newRulesListCmd() *cobra.Command {
	var rulesFile string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the effective rule table in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := rules.Load(rulesFile)
			if err != nil {
				return err
			}
			builtins := len(rules.Builtins())
			records := make([]ruleRecord, 0, reg.Len())
			for i, r := range reg.Rules() {
				source := "builtin"
				if i >= builtins {
					source = "custom"
				}
				records = append(records, ruleRecord{
					ID:       r.ID,
					Name:     r.Name,
					Severity: string(r.Severity),
					Source:   source,
					Pattern:  r.Pattern(),
					Fix:      r.Fix,
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				b, err := json.MarshalIndent(records, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			}
			for _, r := range records {
				fmt.Fprintf(out, "%-28s %-9s %-8s %s\n", r.ID, r.Severity, r.Source, r.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rule pack appended to the built-in rules")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rules as JSON")
	return cmd
}

func newRulesValidateCmd() *cobra.Command {
	var rulesFile string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a rule pack: schema, patterns and id collisions with the built-ins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(rulesFile) == "" {
				return errors.New("--rules is required")
			}
			custom, err := rules.LoadFile(rulesFile)
			if err != nil {
				return err
			}
			reg, err := rules.Load(rulesFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "validated %d rules (%d custom)\n", reg.Len(), len(custom))
			return nil
		},
	}
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rule pack to validate")
	return cmd
}
