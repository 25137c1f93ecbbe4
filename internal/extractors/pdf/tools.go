package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// ErrOCRToolNotFound indicates pdftoppm or tesseract is not on PATH.
// Pages without a text layer will come back empty until they are installed.
var ErrOCRToolNotFound = errors.New("OCR tools not found: pdftoppm (poppler) and tesseract are required for scanned pages")

// Ensure the adapters implement the interfaces.
var (
	_ driven.PageRasterizer = (*Poppler)(nil)
	_ driven.OCREngine      = (*Tesseract)(nil)
)

// CheckAvailable reports whether the OCR toolchain is installed.
func CheckAvailable() error {
	for _, tool := range []string{"pdftoppm", "tesseract"} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%w: %s missing", ErrOCRToolNotFound, tool)
		}
	}
	return nil
}

// InstallInstructions returns how to install the OCR toolchain.
func InstallInstructions() string {
	return `Scanned pages need pdftoppm (poppler) and tesseract.

  macOS:          brew install poppler tesseract
  Debian/Ubuntu:  apt install poppler-utils tesseract-ocr
  Fedora:         dnf install poppler-utils tesseract

Pages with a text layer are extracted without them.`
}

// Poppler rasterises pages with pdftoppm.
type Poppler struct {
	runner CommandRunner
}

// NewPoppler creates a rasteriser that shells out to pdftoppm.
func NewPoppler() *Poppler {
	return &Poppler{runner: execRunner{}}
}

// NewPopplerWithRunner creates a rasteriser with a custom command runner.
func NewPopplerWithRunner(runner CommandRunner) *Poppler {
	return &Poppler{runner: runner}
}

// Rasterize renders one page to PNG at the given resolution.
func (p *Poppler) Rasterize(ctx context.Context, path string, page, dpi int) ([]byte, error) {
	dir, err := os.MkdirTemp("", "pdfrag-raster-*")
	if err != nil {
		return nil, fmt.Errorf("create raster dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	n := strconv.Itoa(page)
	args := []string{
		"-f", n, "-l", n,
		"-r", strconv.Itoa(dpi),
		"-png", "-singlefile",
		path, prefix,
	}
	if _, err := p.runner.Run(ctx, "pdftoppm", args...); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w", err)
	}

	img, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("read rendered page: %w", err)
	}
	return img, nil
}

// Tesseract recognises text with the tesseract CLI.
type Tesseract struct {
	runner   CommandRunner
	language string
}

// NewTesseract creates an OCR engine for the given language code ("eng").
func NewTesseract(language string) *Tesseract {
	return NewTesseractWithRunner(execRunner{}, language)
}

// NewTesseractWithRunner creates an OCR engine with a custom command runner.
func NewTesseractWithRunner(runner CommandRunner, language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{runner: runner, language: language}
}

// Recognise writes the image to a temp file and returns tesseract's stdout.
func (t *Tesseract) Recognise(ctx context.Context, image []byte) (string, error) {
	f, err := os.CreateTemp("", "pdfrag-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(image); err != nil {
		f.Close()
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	out, err := t.runner.Run(ctx, "tesseract", f.Name(), "stdout", "-l", t.language)
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return string(out), nil
}
