package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/logger"
)

func newFieldsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fields [entity]",
		Short: "List the searchable fields of an entity, or the entities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if len(args) == 0 {
				_, _ = fmt.Fprintln(w, "ENTITY\tLABEL")
				for _, k := range kind.All {
					_, _ = fmt.Fprintf(w, "%s\t%s\n", k.Resource(), k.Label())
				}
				return w.Flush()
			}

			k, ok := kind.Parse(args[0])
			if !ok {
				return fmt.Errorf("%q: %w", args[0], domain.ErrUnknownKind)
			}
			cfg, err := root.loadConfig(true)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log, err := logger.NewCLILogger(root.verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			catalog, err := loadCatalog(cfg, log)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(w, "FIELD\tLABEL\tVALUE\tOPTIONS")
			for _, d := range catalog.Fields(k) {
				options := "-"
				if n := len(d.Options().All()); n > 0 {
					options = fmt.Sprint(n)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Type(), d.Label(), d.ValueKind(), options)
			}
			return w.Flush()
		},
	}
}
