package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/condition"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/lucene"
	"github.com/kailas-cloud/entitysearch/internal/logger"
	"github.com/kailas-cloud/entitysearch/internal/normalize"
	searchuc "github.com/kailas-cloud/entitysearch/internal/usecase/search"
)

type queryOptions struct {
	conds      []string
	negated    []string
	any        bool
	page       int
	printQuery bool
	baseURL    string
}

func newQueryCmd(root *rootOptions) *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "query <entity>",
		Short: "Run one search and print the normalized results",
		Example: `  entitysearch query artist --cond artist=Beatles --cond type=group
  entitysearch query release --cond date=1965..1969 --cond format=CD --not format
  entitysearch query work --cond work=Yesterday --print-query`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, root, opts, args[0])
		},
	}
	cmd.Flags().StringArrayVarP(&opts.conds, "cond", "c", nil, "condition as field=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.negated, "not", nil, "negate the condition on this field (repeatable)")
	cmd.Flags().BoolVar(&opts.any, "any", false, "match any condition instead of all")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "result page, 1-based")
	cmd.Flags().BoolVar(&opts.printQuery, "print-query", false, "print the query without running it")
	cmd.Flags().StringVar(&opts.baseURL, "ws-url", "", "override the web service base URL")
	return cmd
}

func runQuery(cmd *cobra.Command, root *rootOptions, opts *queryOptions, entity string) error {
	if opts.page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", opts.page)
	}
	k, ok := kind.Parse(entity)
	if !ok {
		return fmt.Errorf("%q: %w", entity, domain.ErrUnknownKind)
	}

	cfg, err := root.loadConfig(true)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewCLILogger(root.verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	catalog, err := loadCatalog(cfg, log)
	if err != nil {
		return err
	}
	s, err := buildState(catalog, k, opts.conds, opts.negated, opts.any)
	if err != nil {
		return err
	}
	query := s.Serialize()
	if opts.printQuery {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), query)
		return err
	}

	if opts.baseURL != "" {
		cfg.Backend.Driver = "ws"
		cfg.Backend.WS.BaseURL = opts.baseURL
	}
	backend, err := buildBackend(cfg.Backend)
	if err != nil {
		return err
	}
	store, err := buildCache(cmd.Context(), cfg.Cache, log)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	log.Debug("Running search",
		zap.String("entity", k.String()),
		zap.String("query", query),
		zap.Int("page", opts.page),
	)
	svc := searchuc.New(withCache(backend, store, cfg, log), normalize.New())
	p, err := svc.Search(cmd.Context(), k, query, opts.page)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// buildState parses field=value conditions and composes them into a state.
func buildState(catalog *field.Catalog, k kind.Kind, conds, negated []string, anyMatch bool) (condition.State, error) {
	pairs := make([]condition.Pair, 0, len(conds))
	for _, raw := range conds {
		name, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return condition.State{}, fmt.Errorf("condition %q must be field=value", raw)
		}
		pairs = append(pairs, condition.Pair{Field: strings.TrimSpace(name), Value: value})
	}
	combinator := lucene.And
	if anyMatch {
		combinator = lucene.Or
	}
	return condition.Build(catalog, k, pairs, negated, combinator)
}
