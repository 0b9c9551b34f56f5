package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/speakboard/internal/i18n"
)

func (a *app) symbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols [query]",
		Short: "Search the symbol library",
		Long: `Symbols searches the configured symbol library (symbols.source) by name
and tag. Use a key from the output with "add --symbol".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			lib, err := a.catalog().Library(cmd.Context())
			if err != nil {
				return err
			}
			found := lib.Search(query)

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				rows := make([]map[string]any, len(found))
				for i, s := range found {
					rows[i] = map[string]any{"key": s.Key(), "name": s.Name, "tags": s.Tags}
				}
				return writeJSON(out, rows)
			}
			if len(found) == 0 {
				fmt.Fprintf(out, "%s %q\n", a.tr.T(i18n.LibraryEmpty), query)
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tTAGS")
			for _, s := range found {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key(), s.Name, strings.Join(s.Tags, ", "))
			}
			return tw.Flush()
		},
	}
}
