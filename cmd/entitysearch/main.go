// Command entitysearch serves and runs MusicBrainz style entity searches.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/config"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/version"
)

// rootOptions are the persistent flags shared by all commands.
type rootOptions struct {
	configPath string
	env        string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "entitysearch",
		Short: "Structured search over the MusicBrainz catalog",
		Long: `entitysearch turns field conditions into Lucene queries, runs them against
the MusicBrainz web service or an Elasticsearch mirror, and normalizes the hits.

Run "entitysearch serve" for the HTTP API or "entitysearch query" for one-shot searches.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: config/<env>.yaml)")
	root.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "environment: local, dev, docker, prod")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(newServeCmd(opts), newQueryCmd(opts), newFieldsCmd(opts))
	return root
}

// loadConfig reads --config, or config/<env>.yaml. One-shot commands fall
// back to defaults when no file exists.
func (o *rootOptions) loadConfig(allowMissing bool) (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	cfg, err := config.Load(o.env)
	if err != nil && allowMissing && errors.Is(err, fs.ErrNotExist) {
		cfg = config.Config{HTTP: config.HTTPConfig{Port: 8080}}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return cfg, err
}

func loadCatalog(cfg config.Config, log *zap.Logger) (*field.Catalog, error) {
	catalog, err := field.Load(cfg.Catalog.OptionsPath)
	if err != nil {
		return nil, fmt.Errorf("load field catalog: %w", err)
	}
	if cfg.Catalog.OptionsPath != "" {
		log.Info("Option sets overridden", zap.String("path", cfg.Catalog.OptionsPath))
	}
	return catalog, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
