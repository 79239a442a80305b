package main

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/validation"
)

var errInvalidSubmission = errors.New("submission is invalid")

type validateFlags struct {
	schemaFlags
	data string
}

type validateReport struct {
	Valid   bool               `json:"valid"`
	Issues  []validation.Issue `json:"issues,omitempty"`
	Missing []string           `json:"missing,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	flags := &validateFlags{}
	cmd := &cobra.Command{
		Use:   "validate SOURCE",
		Short: "Check submitted values against a schema's constraints",
		Long: `Validate renders SOURCE, applies the submitted values to the form controls and
runs the constraint checks a browser would run on submit. A JSON report is
written to stdout and the command fails when any field is invalid.`,
		Example: `  schemaform-cli validate signup.yaml --data submission.json
  echo 'email=ada@example.com' | schemaform-cli validate signup.yaml --data -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, a, flags, args[0])
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.data, "data", "d", "-", "submitted values (JSON or query string file, - for stdin)")
	return cmd
}

func runValidate(cmd *cobra.Command, a *app, flags *validateFlags, source string) error {
	req, err := flags.request(source)
	if err != nil {
		return err
	}
	values, err := readValues(flags.data, cmd.InOrStdin())
	if err != nil {
		return err
	}
	orch, err := flags.orchestrator(a)
	if err != nil {
		return err
	}
	resolved, err := orch.Resolve(cmd.Context(), req)
	if err != nil {
		return err
	}

	live, err := form.New(resolved, form.WithLogger(a.logger))
	if err != nil {
		return err
	}
	if err := live.Apply(values); err != nil {
		return err
	}
	result, err := live.Validate(cmd.Context())
	if err != nil {
		return err
	}

	report := validateReport{Valid: result.Valid, Issues: result.Issues(), Missing: result.Missing}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(out)); err != nil {
		return err
	}
	if !result.Valid {
		a.logger.Debug("validation failed", zap.Strings("fields", result.Invalid()))
		return errInvalidSubmission
	}
	return nil
}
