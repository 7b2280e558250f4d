package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/goliatone/go-formkit/pkg/client"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/server"
)

// remoteFlags point list and show at a running server instead of the local
// catalogue.
type remoteFlags struct {
	url   string
	token string
}

func (r *remoteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.url, "remote", "", "base URL of a formkit server to read from")
	cmd.Flags().StringVar(&r.token, "token", os.Getenv("FORMKIT_TOKEN"), "bearer token for --remote")
}

func (r *remoteFlags) client() (*client.Client, error) {
	var opts []client.Option
	if r.token != "" {
		opts = append(opts,
			client.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: r.token})),
			client.WithAuthScheme("Bearer"),
		)
	}
	return client.New(r.url, opts...)
}

func listCmd(g *globals) *cobra.Command {
	var remote remoteFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var summaries []server.FormSummary
			if remote.url != "" {
				c, err := remote.client()
				if err != nil {
					return err
				}
				if summaries, err = c.ListForms(contextOf(cmd)); err != nil {
					return err
				}
			} else {
				_, _, reg, err := g.setup(cmd)
				if err != nil {
					return err
				}
				for _, def := range reg.Definitions() {
					summaries = append(summaries, server.ViewOf(def).FormSummary)
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.Title)
			}
			return tw.Flush()
		},
	}
	remote.register(cmd)
	return cmd
}

func showCmd(g *globals) *cobra.Command {
	var remote remoteFlags

	cmd := &cobra.Command{
		Use:   "show <form>",
		Short: "Print a form definition as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote.url != "" {
				c, err := remote.client()
				if err != nil {
					return err
				}
				view, err := c.GetForm(contextOf(cmd), args[0])
				if err != nil {
					return err
				}
				return writeIndented(cmd.OutOrStdout(), view)
			}

			_, _, reg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			def, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			return writeIndented(cmd.OutOrStdout(), server.ViewOf(def))
		},
	}
	remote.register(cmd)
	return cmd
}

func schemaCmd(g *globals) *cobra.Command {
	var opts openapi.DocumentOptions

	cmd := &cobra.Command{
		Use:   "schema [form]",
		Short: "Print the OpenAPI document, or one form's payload schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, reg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				def, err := reg.Get(args[0])
				if err != nil {
					return err
				}
				return writeIndented(cmd.OutOrStdout(), openapi.SchemaFor(def.Fields))
			}

			doc := openapi.Document(reg, opts)
			if err := doc.Validate(contextOf(cmd)); err != nil {
				return fmt.Errorf("openapi document is invalid: %w", err)
			}
			return writeIndented(cmd.OutOrStdout(), doc)
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "document title")
	cmd.Flags().StringVar(&opts.Version, "api-version", "", "document version")
	cmd.Flags().StringVar(&opts.BasePath, "base-path", "", "path prefix of the form routes")

	return cmd
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
