package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/internal/loader"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

const remoteTimeout = 30 * time.Second

func newLoader() *loader.Loader {
	return loader.New(schema.NewLoaderOptions(schema.WithHTTPFallback(remoteTimeout)))
}

type renderFlags struct {
	schemaFlags
	renderer string
	output   string
	title    string
	action   string
	values   string
	errors   string
}

func newRenderCmd(a *app) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render SOURCE",
		Short: "Render a schema as an HTML form",
		Long: `Render loads SOURCE (a file path or http(s) URL), converts it into a field
schema and writes the rendered form.

Prefilled values and a server error payload can be supplied so the output
matches what a user sees after a rejected submission.`,
		Example: `  schemaform-cli render signup.yaml
  schemaform-cli render api.yaml --operation createUser --renderer page -o form.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, flags, args[0])
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.renderer, "renderer", "r", "", "renderer name (html, page)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&flags.title, "title", "", "page title")
	cmd.Flags().StringVar(&flags.action, "action", "", "form action URL")
	cmd.Flags().StringVar(&flags.values, "values", "", "file with values to prefill (JSON or query string, - for stdin)")
	cmd.Flags().StringVar(&flags.errors, "errors", "", "JSON file with a server error payload")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, flags *renderFlags, source string) error {
	req, err := flags.request(source)
	if err != nil {
		return err
	}
	values, err := readValues(flags.values, cmd.InOrStdin())
	if err != nil {
		return err
	}
	payload, err := readErrors(flags.errors)
	if err != nil {
		return err
	}
	orch, err := flags.orchestrator(a)
	if err != nil {
		return err
	}

	req.Renderer = flags.renderer
	req.RenderOptions = render.RenderOptions{
		Values: values,
		Errors: payload,
		Title:  flags.title,
		Action: flags.action,
	}
	if flags.action != "" {
		req.RenderOptions.Method = "post"
	}

	out, err := orch.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	return writeOutput(cmd, a, flags.output, out)
}

func writeOutput(cmd *cobra.Command, a *app, path string, out []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Info("output written", zap.String("path", path), zap.Int("bytes", len(out)))
	return nil
}
