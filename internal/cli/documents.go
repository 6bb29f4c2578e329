package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newDocumentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "List documents page by page",
		Args:  cobra.NoArgs,
		Example: `  docsearch documents --page 2 --per-page 20
  docsearch documents -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, client, err := clientFor(cmd)
			if err != nil {
				return err
			}

			page, _ := cmd.Flags().GetInt("page")
			result, err := client.ListDocuments(cmd.Context(), page, st.cfg.PerPage)
			if err != nil {
				return err
			}
			return newRenderer(cmd, st.cfg.Output).documentPage(result)
		},
	}

	cmd.Flags().Int("page", 1, "Page to fetch (1-based)")
	cmd.Flags().Int("per-page", 0, "Documents per page")
	return cmd
}

func newDocumentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "document <id>",
		Short: "Show one document",
		Long: `Show one document by identifier. Identifiers may contain "/" and are
sent to the backend escaped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, client, err := clientFor(cmd)
			if err != nil {
				return err
			}

			result, err := client.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return newRenderer(cmd, st.cfg.Output).document(result)
		},
	}
}

func newSimilarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <id>",
		Short: "List documents similar to a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, client, err := clientFor(cmd)
			if err != nil {
				return err
			}

			topK := st.cfg.SimilarTopK
			if cmd.Flags().Changed("top-k") {
				topK, _ = cmd.Flags().GetInt("top-k")
			}

			result, err := client.GetSimilarDocuments(cmd.Context(), args[0], topK)
			if err != nil {
				return err
			}
			return newRenderer(cmd, st.cfg.Output).scored(result, result.Results)
		},
	}

	cmd.Flags().Int("top-k", 0, "Number of similar documents")
	return cmd
}

func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search documents by meaning",
		Args:  cobra.MinimumNArgs(1),
		Example: `  docsearch search machine learning in medicine --top-k 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, client, err := clientFor(cmd)
			if err != nil {
				return err
			}

			topK := st.cfg.SearchTopK
			if cmd.Flags().Changed("top-k") {
				topK, _ = cmd.Flags().GetInt("top-k")
			}

			result, err := client.Search(cmd.Context(), strings.Join(args, " "), topK)
			if err != nil {
				return err
			}
			return newRenderer(cmd, st.cfg.Output).scored(result, result.Results)
		},
	}

	cmd.Flags().Int("top-k", 0, "Number of results")
	return cmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show backend collection and cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, client, err := clientFor(cmd)
			if err != nil {
				return err
			}

			result, err := client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return newRenderer(cmd, st.cfg.Output).stats(result)
		},
	}
}
