package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

var (
	chunksOutput string
	chunksFile   string
)

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "List the chunks of the current document",
	Long: `Lists the chunk texts of the current document in order.

A fresh process holds no document, so pass --file to ingest one first.
Before any ingestion the listing reports
{"status":"error","detail":"No chunks available. Please upload a PDF first."}.

Output defaults to text on a terminal and JSON otherwise.`,
	Args: cobra.NoArgs,
	RunE: runChunks,
}

func init() {
	chunksCmd.Flags().StringVarP(&chunksOutput, "output", "o", "", "output format: json, yaml or text")
	chunksCmd.Flags().StringVarP(&chunksFile, "file", "f", "", "ingest this file before listing")
	rootCmd.AddCommand(chunksCmd)
}

var (
	chunkHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	chunkMetaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func runChunks(cmd *cobra.Command, _ []string) error {
	if ingestionService == nil {
		return errNotConfigured("ingestion")
	}
	format, err := resolveFormat(chunksOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := preload(cmd, chunksFile); err != nil {
		return err
	}

	listing, err := ingestionService.ListChunks(cmd.Context())
	var result chunksResult
	switch {
	case errors.Is(err, domain.ErrNotReady):
		result = chunksResult{Status: "error", Detail: noChunksDetail}
	case err != nil:
		return fmt.Errorf("listing chunks: %w", err)
	default:
		texts := listing.Texts()
		n := len(texts)
		result = chunksResult{Status: "success", TotalChunks: &n, Chunks: texts}
	}

	switch format {
	case formatYAML:
		return writeYAML(cmd.OutOrStdout(), result)
	case formatText:
		printChunksText(cmd, listing, result)
		return nil
	default:
		return writeJSON(cmd.OutOrStdout(), result)
	}
}

func printChunksText(cmd *cobra.Command, listing *domain.ChunkListing, result chunksResult) {
	if listing == nil {
		cmd.Println(result.Detail)
		return
	}
	cmd.Printf("%s: %d chunks\n\n", listing.DocumentName, len(listing.Chunks))
	for i := range listing.Chunks {
		c := listing.Chunks[i]
		meta := fmt.Sprintf("words %d-%d", c.StartWord, c.StartWord+c.WordCount-1)
		if c.StartPage > 0 {
			meta += fmt.Sprintf(", pages %d-%d", c.StartPage, c.EndPage)
		}
		cmd.Println(chunkHeaderStyle.Render(fmt.Sprintf("[%d]", c.Position)) + " " + chunkMetaStyle.Render(meta))
		cmd.Println(strings.TrimSpace(c.Content))
		cmd.Println()
	}
}
