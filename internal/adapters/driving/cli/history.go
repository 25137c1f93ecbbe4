package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past ingestions",
	Long:  `Lists recorded ingestion attempts, newest first, including failures.`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one ingestion record",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of records (0 for all)")
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

// historyEntry is the JSON shape of a record.
type historyEntry struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	ChunksCreated int        `json:"chunks_created"`
	Pages         int        `json:"pages"`
	OCRPages      int        `json:"ocr_pages"`
	Error         string     `json:"error,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

func toEntry(rec domain.IngestionRecord) historyEntry {
	e := historyEntry{
		ID:            rec.ID,
		Name:          rec.Name,
		Status:        string(rec.Status),
		ChunksCreated: rec.ChunksCreated,
		Pages:         rec.Pages,
		OCRPages:      rec.OCRPages,
		Error:         rec.Error,
		StartedAt:     rec.StartedAt,
	}
	if !rec.FinishedAt.IsZero() {
		f := rec.FinishedAt
		e.FinishedAt = &f
	}
	return e
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errNotConfigured("history")
	}

	records, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	if historyJSON {
		entries := make([]historyEntry, len(records))
		for i := range records {
			entries[i] = toEntry(records[i])
		}
		return writeJSON(cmd.OutOrStdout(), entries)
	}

	if len(records) == 0 {
		cmd.Println("No ingestions recorded.")
		return nil
	}
	for i := range records {
		r := records[i]
		line := fmt.Sprintf("%s  %-7s  %s  %d chunks", r.StartedAt.Local().Format(time.DateTime), r.Status, r.Name, r.ChunksCreated)
		if r.Error != "" {
			line += "  (" + r.Error + ")"
		}
		cmd.Println(line)
		cmd.Printf("  id: %s\n", r.ID)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errNotConfigured("history")
	}

	rec, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting record: %w", err)
	}

	if historyJSON {
		return writeJSON(cmd.OutOrStdout(), toEntry(*rec))
	}

	cmd.Printf("ID:       %s\n", rec.ID)
	cmd.Printf("Name:     %s\n", rec.Name)
	cmd.Printf("Status:   %s\n", rec.Status)
	cmd.Printf("Chunks:   %d\n", rec.ChunksCreated)
	cmd.Printf("Pages:    %d (%d OCR)\n", rec.Pages, rec.OCRPages)
	cmd.Printf("Started:  %s\n", rec.StartedAt.Local().Format(time.RFC3339))
	if !rec.FinishedAt.IsZero() {
		cmd.Printf("Duration: %s\n", rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond))
	}
	if rec.Error != "" {
		cmd.Printf("Error:    %s\n", rec.Error)
	}
	return nil
}
