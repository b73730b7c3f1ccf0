package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/versions/internal/log"
	"github.com/tsukumogami/versions/internal/progress"
)

// getResult is the --json output of `versions get`.
type getResult struct {
	Identifier string `json:"identifier"`
	Found      bool   `json:"found"`
	Version    string `json:"version,omitempty"`
	Mirror     string `json:"mirror,omitempty"`
}

func newGetCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <identifier>",
		Short: "Print the latest version of a tool",
		Long: `Print the version the manifest lists for an identifier.

Identifiers are matched exactly and case-sensitively.

Exit codes:
  0  found
  3  no mirror could supply a manifest
  4  the manifest does not list the identifier

Examples:
  versions get ripgrep
  versions get --json ripgrep
  versions get --mirror https://example.com/versions.toml ripgrep`,
		Args: wrapArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			identifier := args[0]

			r, err := g.newResolver(cmd)
			if err != nil {
				return err
			}

			spinner := progress.NewSpinner(cmd.ErrOrStderr(), !g.quiet && !g.jsonOut)
			spinner.Start(fmt.Sprintf("Resolving %s...", identifier))
			m, err := r.Resolve(cmd.Context())
			spinner.Stop()
			if err != nil {
				return &exitError{code: ExitNetwork, err: err, identifier: identifier}
			}

			log.Default().Info("manifest retrieved", "mirror", m.Source(), "entries", m.Len())

			v, ok := m.Get(identifier)
			if g.jsonOut {
				res := getResult{Identifier: identifier, Found: ok, Mirror: m.Source()}
				if ok {
					res.Version = v.String()
				}
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				if !ok {
					return &exitError{code: ExitNotFound, reported: true}
				}
				return nil
			}

			if !ok {
				if !g.quiet {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s is not listed in the manifest\n", identifier)
				}
				return &exitError{code: ExitNotFound, reported: true}
			}

			fmt.Fprintln(cmd.OutOrStdout(), v.String())
			return nil
		},
	}
}
