// Package cli provides the docsearch command-line interface: the web server
// and one command per backend operation.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"docsearch/internal/config"
	"docsearch/internal/docsapi"
	"docsearch/internal/logging"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

type stateKey struct{}

// cliState is what every subcommand gets after the root pre-run loaded config.
type cliState struct {
	cfg    config.Config
	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "docsearch",
		Short: "Web front end and client for a document search service",
		Long: `docsearch serves a small web UI over a document search backend and
exposes the same backend operations on the command line.

Configuration is read from ./docsearch.yaml (or --config), then DOCSEARCH_*
environment variables, then flags.

With -o json the client commands print the decoded response re-encoded from
typed records: empty optional fields are omitted and fields the backend adds
beyond the known schema are dropped, so the output is not the backend body
byte for byte.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, stateKey{}, &cliState{cfg: cfg, logger: logger}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./docsearch.yaml)")
	flags.String("api-base-url", "", "Base URL of the document search backend")
	flags.Duration("api-timeout", 0, "Timeout for backend requests (0 waits indefinitely)")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.String("log-format", "", "Log format (text|json)")
	flags.StringP("output", "o", "", "Output format (table|json); json re-encodes the decoded response")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newDocumentsCommand())
	rootCmd.AddCommand(newDocumentCommand())
	rootCmd.AddCommand(newSimilarCommand())
	rootCmd.AddCommand(newSearchCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func stateFrom(cmd *cobra.Command) (*cliState, error) {
	st, ok := cmd.Context().Value(stateKey{}).(*cliState)
	if !ok || st == nil {
		return nil, fmt.Errorf("%s: configuration was not loaded", cmd.CommandPath())
	}
	return st, nil
}

func newClient(st *cliState) (*docsapi.Client, error) {
	client, err := docsapi.NewClient(
		st.cfg.APIBaseURL,
		docsapi.WithHTTPClient(&http.Client{Timeout: st.cfg.APITimeout}),
		docsapi.WithLogger(st.logger),
		docsapi.WithUserAgent("docsearch/"+Version),
	)
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}
	return client, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display docsearch version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			writeVersion(cmd.OutOrStdout())
		},
	}
}

func writeVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "docsearch v%s\n", Version)
	_, _ = fmt.Fprintf(w, "commit %s, built %s\n", GitCommit, BuildDate)
}
