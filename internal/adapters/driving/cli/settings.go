package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/extractors/pdf"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure chunking, OCR and the embedding provider.

Settings are read from defaults, then ~/.pdfrag/config.toml, then the
environment (PDFRAG_* variables and .env).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsChunkingCmd = &cobra.Command{
	Use:   "chunking",
	Short: "Set chunk size and overlap (in words)",
	Long: `Set the word window used to split documents.

The window advances by size minus overlap, so overlap must be smaller
than size.`,
	RunE: runSettingsChunking,
}

var settingsOCRCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Set OCR resolution and language",
	RunE:  runSettingsOCR,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the embedding provider.

Without --provider an interactive prompt is shown.`,
	RunE: runSettingsEmbedding,
}

var (
	chunkSize     int
	chunkOverlap  int
	ocrDPI        int
	ocrLanguage   string
	embedProvider string
	embedModel    string
	embedBaseURL  string
	embedAPIKey   string
)

func init() {
	settingsChunkingCmd.Flags().IntVar(&chunkSize, "size", domain.DefaultChunkSize, "words per chunk")
	settingsChunkingCmd.Flags().IntVar(&chunkOverlap, "overlap", domain.DefaultChunkOverlap, "words shared by consecutive chunks")
	settingsOCRCmd.Flags().IntVar(&ocrDPI, "dpi", domain.DefaultOCRDPI, "rasterisation resolution")
	settingsOCRCmd.Flags().StringVar(&ocrLanguage, "language", domain.DefaultOCRLanguage, "tesseract language code")
	settingsEmbeddingCmd.Flags().StringVar(&embedProvider, "provider", "", "ollama, openai, chromem or hashing")
	settingsEmbeddingCmd.Flags().StringVar(&embedModel, "model", "", "model name (provider default when empty)")
	settingsEmbeddingCmd.Flags().StringVar(&embedBaseURL, "base-url", "", "API endpoint")
	settingsEmbeddingCmd.Flags().StringVar(&embedAPIKey, "api-key", "", "API key (prompted when required and empty)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsChunkingCmd)
	settingsCmd.AddCommand(settingsOCRCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d words\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d words\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[OCR]")
	cmd.Printf("  DPI: %d\n", settings.OCR.DPI)
	cmd.Printf("  Language: %s\n", settings.OCR.Language)
	if err := pdf.CheckAvailable(); err != nil {
		cmd.Printf("  Tools: %v\n", err)
		cmd.Println()
		cmd.Println(pdf.InstallInstructions())
	} else {
		cmd.Println("  Tools: pdftoppm, tesseract")
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.ResolvedModel())
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if dims := settings.Embedding.ResolvedDimensions(); dims > 0 {
		cmd.Printf("  Dimensions: %d\n", dims)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'pdfrag settings --help' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsChunking(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}
	if err := settingsService.SetChunking(chunkSize, chunkOverlap); err != nil {
		return fmt.Errorf("failed to set chunking: %w", err)
	}
	cmd.Printf("Chunking set to %d words with %d overlap\n", chunkSize, chunkOverlap)
	return nil
}

func runSettingsOCR(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}
	if err := settingsService.SetOCR(ocrDPI, ocrLanguage); err != nil {
		return fmt.Errorf("failed to set OCR: %w", err)
	}
	cmd.Printf("OCR set to %d DPI, language %s\n", ocrDPI, ocrLanguage)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	if embedProvider == "" {
		reader := bufio.NewReader(cmd.InOrStdin())
		return configureEmbeddingProvider(cmd, reader)
	}

	provider := domain.AIProvider(embedProvider)
	if !provider.IsValid() {
		return fmt.Errorf("unknown provider %q", embedProvider)
	}
	apiKey := embedAPIKey
	if provider.RequiresAPIKey() && apiKey == "" {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
	}
	return applyEmbedding(cmd, provider, embedModel, embedBaseURL, apiKey)
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var baseURL string
	if selectedProvider == domain.AIProviderOllama || selectedProvider == domain.AIProviderOpenAI {
		cmd.Print("Enter base URL [provider default]: ")
		baseURL = readLine(reader)
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	return applyEmbedding(cmd, selectedProvider, model, baseURL, apiKey)
}

func applyEmbedding(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string) error {
	if err := settingsService.SetEmbeddingProvider(provider, model, baseURL, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
