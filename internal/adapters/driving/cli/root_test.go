package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/services"
)

type mockIngestion struct {
	ingestErr error
	listing   *domain.ChunkListing
	listErr   error
	ingested  []string
}

func (m *mockIngestion) Ingest(_ context.Context, raw *domain.RawDocument) (*domain.IngestionReport, error) {
	m.ingested = append(m.ingested, raw.Name)
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	m.listing = &domain.ChunkListing{
		DocumentName: raw.Name,
		Chunks: []domain.Chunk{
			{Position: 0, Content: "--- Text from Page 1 --- alpha beta", WordCount: 8, StartPage: 1, EndPage: 1},
			{Position: 1, Content: "gamma delta", StartWord: 400, WordCount: 2, StartPage: 1, EndPage: 1},
		},
	}
	return &domain.IngestionReport{Name: raw.Name, ChunksCreated: 2, Pages: 1, NativePages: 1}, nil
}

func (m *mockIngestion) ListChunks(context.Context) (*domain.ChunkListing, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.listing == nil {
		return nil, domain.ErrNotReady
	}
	return m.listing, nil
}

func (m *mockIngestion) State() domain.IngestionState {
	if m.listing == nil {
		return domain.StateEmpty
	}
	return domain.StateReady
}

type mockSearch struct {
	results []domain.SearchResult
	err     error
	query   string
	opts    domain.SearchOptions
}

func (m *mockSearch) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.query, m.opts = query, opts
	return m.results, m.err
}

type mockHistory struct {
	records []domain.IngestionRecord
	err     error
	limit   int
}

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.IngestionRecord, error) {
	m.limit = limit
	return m.records, m.err
}

func (m *mockHistory) Get(_ context.Context, id string) (*domain.IngestionRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type mockSettings struct {
	settings    domain.Settings
	validateErr error
	embedErr    error
	calls       []string
}

func (m *mockSettings) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.Settings) error {
	m.settings = *s
	return nil
}

func (m *mockSettings) SetChunking(size, overlap int) error {
	c := domain.ChunkingSettings{Size: size, Overlap: overlap}
	if err := c.Validate(); err != nil {
		return err
	}
	m.settings.Chunking = c
	m.calls = append(m.calls, "chunking")
	return nil
}

func (m *mockSettings) SetOCR(dpi int, language string) error {
	m.settings.OCR = domain.OCRSettings{DPI: dpi, Language: language}
	m.calls = append(m.calls, "ocr")
	return nil
}

func (m *mockSettings) SetEmbeddingProvider(provider domain.AIProvider, model, baseURL, apiKey string) error {
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, BaseURL: baseURL, APIKey: apiKey}
	m.calls = append(m.calls, "embedding")
	return nil
}

func (m *mockSettings) Validate() error { return m.validateErr }

func (m *mockSettings) GetDefaults() domain.Settings { return domain.DefaultSettings() }

func (m *mockSettings) ValidateEmbeddingConfig() error { return m.embedErr }

type mockLoader struct {
	err error
}

func (m *mockLoader) Load(_ context.Context, path string) (*domain.RawDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.RawDocument{Name: path, Content: []byte("alpha beta gamma delta")}, nil
}

type testServices struct {
	ingestion *mockIngestion
	search    *mockSearch
	history   *mockHistory
	settings  *mockSettings
	loader    *mockLoader
}

// setupTestServices installs mocks and returns them with a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		ingestion: &mockIngestion{},
		search:    &mockSearch{},
		history:   &mockHistory{},
		settings:  &mockSettings{settings: domain.DefaultSettings()},
		loader:    &mockLoader{},
	}
	SetServices(&Services{
		Ingestion: ts.ingestion,
		Search:    ts.search,
		History:   ts.history,
		Settings:  ts.settings,
		Loader:    ts.loader,
	})
	return ts, func() {
		SetServices(nil)
		resetFlags()
	}
}

// resetFlags restores flag-bound package variables between runs.
func resetFlags() {
	chunksOutput, chunksFile = "", ""
	searchLimit, searchMode, searchJSON, searchFile = domain.DefaultSearchLimit, string(domain.SearchModeVector), false, ""
	historyLimit, historyJSON = 20, false
	chunkSize, chunkOverlap = domain.DefaultChunkSize, domain.DefaultChunkOverlap
	ocrDPI, ocrLanguage = domain.DefaultOCRDPI, domain.DefaultOCRLanguage
	embedProvider, embedModel, embedBaseURL, embedAPIKey = "", "", "", ""
	versionShort = false
	serveAddr, serveFile, mcpFile, tuiFile = ":8000", "", "", ""
	watchDebounce = services.DefaultDebounce
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ingest", "chunks", "search", "history", "settings", "serve", "mcp", "watch", "tui", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "quiet", "config", "data"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestFactory_BuildsServicesOnce(t *testing.T) {
	SetServices(nil)
	defer SetFactory(nil)
	defer SetServices(nil)

	calls := 0
	closed := false
	var gotOpts Options
	SetFactory(func(_ context.Context, opts Options) (*Services, error) {
		calls++
		gotOpts = opts
		return &Services{
			Ingestion: &mockIngestion{},
			Close:     func() error { closed = true; return nil },
		}, nil
	})

	out, err := execute(t, "--config", "/tmp/pdfrag-test", "chunks")
	options = Options{}

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "/tmp/pdfrag-test", gotOpts.ConfigDir)
	assert.Contains(t, out, "No chunks available")
	assert.True(t, closed)
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("1.2.3")

	assert.Equal(t, "1.2.3", version)
}
