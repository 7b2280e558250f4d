package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/prompt"
	"github.com/goliatone/go-formkit/pkg/server"
	"github.com/goliatone/go-formkit/pkg/validation"
)

func fillCmd(g *globals) *cobra.Command {
	var (
		output      string
		maxAttempts int
	)

	cmd := &cobra.Command{
		Use:   "fill <form>",
		Short: "Fill a form interactively and print the payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := prompt.ParseOutputFormat(output)
			if !ok {
				return fmt.Errorf("unknown output format %q (want json, form or pretty)", output)
			}

			_, logger, reg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			def, err := reg.Get(args[0])
			if err != nil {
				return err
			}

			session := prompt.New(
				prompt.WithDriver(prompt.NewSurveyDriver(cmd.ErrOrStderr())),
				prompt.WithOutputFormat(format),
				prompt.WithMaxAttempts(maxAttempts),
				prompt.WithTheme(prompt.Theme{ErrorPrefix: "✗ "}),
				prompt.WithLogger(logger),
			)
			payload, err := session.Fill(contextOf(cmd), def)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(prompt.OutputFormatJSON), "payload format: json, form or pretty")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 3, "submit rounds before giving up")

	return cmd
}

// checkReport is what check prints.
type checkReport struct {
	Form string `json:"form"`
	server.ValidateResponse
}

func checkCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <form> [file]",
		Short: "Validate a {\"fields\": ...} JSON document against a form",
		Long: `Validate a JSON document of the shape {"fields": {"id": value}} against a
form. The document is read from file, or stdin when file is omitted or "-".
The command exits non-zero when the values are invalid.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, reg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			def, err := reg.Get(args[0])
			if err != nil {
				return err
			}

			var src io.Reader = cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				fh, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer fh.Close()
				src = fh
			}

			var req server.FieldsRequest
			if err := json.NewDecoder(src).Decode(&req); err != nil {
				return fmt.Errorf("decode %s input: %w", def.Name, err)
			}

			f, err := def.NewForm(form.WithLogger(logger))
			if err != nil {
				return err
			}
			if err := req.Apply(f); err != nil {
				return err
			}

			result := f.Validate()
			if result.Valid {
				payload, _ := f.GetData()
				if err := openapi.ValidatePayload(def.Fields, payload); err != nil {
					return fmt.Errorf("payload does not match the %s schema: %w", def.Name, err)
				}
			}

			issues := result.Issues
			if issues == nil {
				issues = []validation.Issue{}
			}
			report := checkReport{
				Form:             def.Name,
				ValidateResponse: server.ValidateResponse{Valid: result.Valid, Errors: result.Errors, Issues: issues},
			}
			if err := writeIndented(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("%w: %s", errInvalid, def.Name)
			}
			return nil
		},
	}
	return cmd
}
