package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

var (
	searchLimit int
	searchMode  string
	searchJSON  bool
	searchFile  string
)

const snippetWords = 40

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the current document",
	Long: `Embeds the query and returns the nearest chunks of the current document,
closest first. Use --mode keyword for BM25 matching instead of vectors.

A fresh process holds no document, so pass --file to ingest one first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", string(domain.SearchModeVector), "vector or keyword")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVarP(&searchFile, "file", "f", "", "ingest this file before searching")
	rootCmd.AddCommand(searchCmd)
}

// searchHit is the JSON shape of one result.
type searchHit struct {
	Position  int     `json:"position"`
	Distance  float64 `json:"distance"`
	Score     float64 `json:"score,omitempty"`
	StartPage int     `json:"start_page,omitempty"`
	EndPage   int     `json:"end_page,omitempty"`
	Content   string  `json:"content"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errNotConfigured("search")
	}
	if err := preload(cmd, searchFile); err != nil {
		return err
	}

	opts := domain.SearchOptions{
		Limit: searchLimit,
		Mode:  domain.SearchMode(searchMode),
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchTable(cmd, results, opts.Mode)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	hits := make([]searchHit, len(results))
	for i := range results {
		hits[i] = searchHit{
			Position:  results[i].Chunk.Position,
			Distance:  results[i].Distance,
			Score:     results[i].Score,
			StartPage: results[i].Chunk.StartPage,
			EndPage:   results[i].Chunk.EndPage,
			Content:   results[i].Chunk.Content,
		}
	}
	return writeJSON(cmd.OutOrStdout(), hits)
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult, mode domain.SearchMode) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := results[i]
		score := fmt.Sprintf("distance %.4f", r.Distance)
		if mode == domain.SearchModeKeyword {
			score = fmt.Sprintf("score %.4f", r.Score)
		}
		cmd.Printf("  [%d] chunk #%d (%s)\n", i+1, r.Chunk.Position, score)
		if r.Chunk.StartPage > 0 {
			cmd.Printf("      Pages: %d-%d\n", r.Chunk.StartPage, r.Chunk.EndPage)
		}
		cmd.Printf("      %s\n", snippet(r.Chunk.Content))
		cmd.Println()
	}
}

func snippet(content string) string {
	words := strings.Fields(content)
	if len(words) <= snippetWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:snippetWords], " ") + " ..."
}
