package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// NoChunksDetail is reported by /chunks and /search before any ingestion.
const NoChunksDetail = "No chunks available. Please upload a PDF first."

type uploadResponse struct {
	Status        string `json:"status"`
	ChunksCreated int    `json:"chunks_created"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type chunksResponse struct {
	Status      string   `json:"status"`
	TotalChunks int      `json:"total_chunks"`
	Chunks      []string `json:"chunks"`
}

type searchHit struct {
	Position  int     `json:"position"`
	Content   string  `json:"content"`
	Distance  float64 `json:"distance"`
	Score     float64 `json:"score"`
	StartPage int     `json:"start_page,omitempty"`
	EndPage   int     `json:"end_page,omitempty"`
}

type searchResponse struct {
	Status  string      `json:"status"`
	Query   string      `json:"query"`
	Mode    string      `json:"mode"`
	Results []searchHit `json:"results"`
}

type stateResponse struct {
	State    string `json:"state"`
	Document string `json:"document,omitempty"`
	Chunks   int    `json:"chunks"`
}

type handlers struct {
	ingestion driving.IngestionService
	search    driving.SearchService
}

func (h *handlers) upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing multipart field \"file\"")
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	raw := &domain.RawDocument{
		Name:     fh.Filename,
		MIMEType: fh.Header.Get(echo.HeaderContentType),
		Content:  content,
	}
	if raw.MIMEType == echo.MIMEOctetStream {
		raw.MIMEType = ""
	}

	report, err := h.ingestion.Ingest(c.Request().Context(), raw)
	if err != nil {
		logger.Warn("upload %s failed: %v", fh.Filename, err)
		return c.JSON(statusFor(err), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, uploadResponse{Status: "success", ChunksCreated: report.ChunksCreated})
}

func (h *handlers) chunks(c echo.Context) error {
	listing, err := h.ingestion.ListChunks(c.Request().Context())
	if errors.Is(err, domain.ErrNotReady) {
		return c.JSON(http.StatusOK, statusResponse{Status: "error", Detail: NoChunksDetail})
	}
	if err != nil {
		return err
	}
	texts := listing.Texts()
	return c.JSON(http.StatusOK, chunksResponse{Status: "success", TotalChunks: len(texts), Chunks: texts})
}

func (h *handlers) searchChunks(c echo.Context) error {
	query := c.QueryParam("q")
	opts := domain.SearchOptions{Mode: domain.SearchMode(c.QueryParam("mode"))}
	if k := c.QueryParam("k"); k != "" {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "k must be a non-negative integer")
		}
		opts.Limit = n
	}
	if opts.Mode == "" {
		opts.Mode = domain.SearchModeVector
	}

	results, err := h.search.Search(c.Request().Context(), query, opts)
	if errors.Is(err, domain.ErrNotReady) {
		return c.JSON(http.StatusConflict, statusResponse{Status: "error", Detail: NoChunksDetail})
	}
	if err != nil {
		return err
	}

	hits := make([]searchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, searchHit{
			Position:  r.Chunk.Position,
			Content:   r.Chunk.Content,
			Distance:  r.Distance,
			Score:     r.Score,
			StartPage: r.Chunk.StartPage,
			EndPage:   r.Chunk.EndPage,
		})
	}
	return c.JSON(http.StatusOK, searchResponse{
		Status:  "success",
		Query:   query,
		Mode:    string(opts.Mode),
		Results: hits,
	})
}

func (h *handlers) status(c echo.Context) error {
	resp := stateResponse{State: string(h.ingestion.State())}
	listing, err := h.ingestion.ListChunks(c.Request().Context())
	if err == nil {
		resp.Document = listing.DocumentName
		resp.Chunks = len(listing.Chunks)
	}
	return c.JSON(http.StatusOK, resp)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmbeddingBackend):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
