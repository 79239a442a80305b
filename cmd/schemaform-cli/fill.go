package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemaform/pkg/orchestrator"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/renderers/tui"
)

type fillFlags struct {
	schemaFlags
	output       string
	outputFormat string
	values       string
}

func newFillCmd(a *app) *cobra.Command {
	flags := &fillFlags{}
	cmd := &cobra.Command{
		Use:   "fill SOURCE",
		Short: "Collect values for a schema interactively",
		Long: `Fill prompts for every visible field of SOURCE in schema order. Each answer is
checked with the same constraints as the rendered form and asked again until
it passes. The collected values are written as JSON, a query string or text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, a, flags, args[0])
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&flags.outputFormat, "output-format", string(tui.OutputFormatJSON), "output encoding (json, form, pretty)")
	cmd.Flags().StringVar(&flags.values, "values", "", "file with default answers (JSON or query string)")
	return cmd
}

func runFill(cmd *cobra.Command, a *app, flags *fillFlags, source string) error {
	format := tui.OutputFormat(flags.outputFormat)
	switch format {
	case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
	default:
		return fmt.Errorf("unknown output format %q", flags.outputFormat)
	}

	req, err := flags.request(source)
	if err != nil {
		return err
	}
	values, err := readValues(flags.values, cmd.InOrStdin())
	if err != nil {
		return err
	}

	renderer, err := tui.New(
		tui.WithPromptDriver(a.prompts),
		tui.WithOutputFormat(format),
		tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
		tui.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	registry := render.NewRegistry()
	if err := registry.Register(renderer); err != nil {
		return err
	}
	orch, err := flags.orchestrator(a,
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(renderer.Name()),
	)
	if err != nil {
		return err
	}

	req.RenderOptions = render.RenderOptions{Values: values}
	out, err := orch.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	if flags.output == "" && len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return writeOutput(cmd, a, flags.output, out)
}
