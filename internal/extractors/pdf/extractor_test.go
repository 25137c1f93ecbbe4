package pdf

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// fakeSource is a PageSource with fixed page texts.
type fakeSource struct {
	pages []string
	errs  map[int]error
}

func (f *fakeSource) NumPage() int { return len(f.pages) }

func (f *fakeSource) PageText(n int) (string, error) {
	if err := f.errs[n]; err != nil {
		return "", err
	}
	return f.pages[n-1], nil
}

func openerFor(src PageSource) OpenFunc {
	return func([]byte) (PageSource, error) { return src, nil }
}

// fakeRasterizer records the pages it was asked to render.
type fakeRasterizer struct {
	mu    sync.Mutex
	pages []int
	dpi   int
	path  string
	err   error
}

func (f *fakeRasterizer) Rasterize(_ context.Context, path string, page, dpi int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, page)
	f.dpi = dpi
	f.path = path
	if f.err != nil {
		return nil, f.err
	}
	return []byte{byte(page)}, nil
}

// fakeOCR returns a text per rendered page and fails on the pages in failOn.
type fakeOCR struct {
	texts  map[int]string
	failOn map[int]bool
}

func (f *fakeOCR) Recognise(_ context.Context, image []byte) (string, error) {
	page := int(image[0])
	if f.failOn[page] {
		return "", errors.New("tesseract crashed")
	}
	return f.texts[page], nil
}

func TestExtractor_Interface(t *testing.T) {
	var _ driven.TextExtractor = (*Extractor)(nil)

	e := New(nil, nil)
	assert.Equal(t, []string{"application/pdf"}, e.SupportedMIMETypes())
	assert.Equal(t, 50, e.Priority())
	assert.Equal(t, 300, e.DPI())
	assert.Equal(t, 150, New(nil, nil, WithDPI(150)).DPI())
	assert.Equal(t, 300, New(nil, nil, WithDPI(0)).DPI())
}

func TestExtract_NativeAndOCRPages(t *testing.T) {
	src := &fakeSource{pages: []string{"  Native page one  ", " \n\t ", "native three"}}
	raster := &fakeRasterizer{}
	ocr := &fakeOCR{texts: map[int]string{2: " scanned words \n"}}

	e := New(raster, ocr, WithOpener(openerFor(src)), WithDPI(300))
	ext, err := e.Extract(context.Background(), &domain.RawDocument{Name: "paper.pdf", Content: []byte("%PDF")})
	require.NoError(t, err)

	require.Len(t, ext.Pages, 3)
	assert.Equal(t, domain.Page{Number: 1, Method: domain.MethodNative, Text: "Native page one"}, ext.Pages[0])
	assert.Equal(t, domain.Page{Number: 2, Method: domain.MethodOCR, Text: "scanned words"}, ext.Pages[1])
	assert.Equal(t, domain.Page{Number: 3, Method: domain.MethodNative, Text: "native three"}, ext.Pages[2])

	// OCR only runs for the page without a text layer.
	assert.Equal(t, []int{2}, raster.pages)
	assert.Equal(t, 300, raster.dpi)
	assert.Equal(t, "Native page one", ext.Title)
	assert.Equal(t, "application/pdf", ext.MIMEType)

	// The temp copy handed to the rasteriser is cleaned up.
	_, statErr := os.Stat(raster.path)
	assert.True(t, os.IsNotExist(statErr))

	assert.Equal(t,
		"--- Text from Page 1 ---\nNative page one\n--- OCR from Page 2 ---\nscanned words\n--- Text from Page 3 ---\nnative three",
		ext.Text())
}

func TestExtract_OCRFailureDegradesPage(t *testing.T) {
	src := &fakeSource{pages: []string{"", "", "text"}}
	raster := &fakeRasterizer{}
	ocr := &fakeOCR{texts: map[int]string{1: "recovered"}, failOn: map[int]bool{2: true}}

	e := New(raster, ocr, WithOpener(openerFor(src)))
	ext, err := e.Extract(context.Background(), &domain.RawDocument{Name: "scan.pdf"})
	require.NoError(t, err)

	require.Len(t, ext.Pages, 3)
	assert.Equal(t, "recovered", ext.Pages[0].Text)
	assert.NoError(t, ext.Pages[0].Err)

	assert.Equal(t, domain.MethodOCR, ext.Pages[1].Method)
	assert.Equal(t, "", ext.Pages[1].Text)
	assert.ErrorIs(t, ext.Pages[1].Err, domain.ErrPageOCR)
	assert.Equal(t, []int{2}, ext.FailedPages())
}

func TestExtract_RasterFailureDegradesPage(t *testing.T) {
	src := &fakeSource{pages: []string{""}}
	raster := &fakeRasterizer{err: errors.New("pdftoppm failed")}

	e := New(raster, &fakeOCR{}, WithOpener(openerFor(src)))
	ext, err := e.Extract(context.Background(), &domain.RawDocument{Name: "scan.pdf"})
	require.NoError(t, err)
	assert.ErrorIs(t, ext.Pages[0].Err, domain.ErrPageOCR)
}

func TestExtract_NoOCREngine(t *testing.T) {
	src := &fakeSource{pages: []string{""}}

	ext, err := New(nil, nil, WithOpener(openerFor(src))).Extract(context.Background(),
		&domain.RawDocument{Name: "scan.pdf"})
	require.NoError(t, err)
	assert.ErrorIs(t, ext.Pages[0].Err, ErrOCRToolNotFound)
}

func TestExtract_UnreadableTextLayerFallsBackToOCR(t *testing.T) {
	src := &fakeSource{pages: []string{"ignored"}, errs: map[int]error{1: errors.New("bad font")}}
	raster := &fakeRasterizer{}
	ocr := &fakeOCR{texts: map[int]string{1: "from image"}}

	ext, err := New(raster, ocr, WithOpener(openerFor(src))).Extract(context.Background(),
		&domain.RawDocument{Name: "odd.pdf"})
	require.NoError(t, err)
	assert.Equal(t, domain.MethodOCR, ext.Pages[0].Method)
	assert.Equal(t, "from image", ext.Pages[0].Text)
}

func TestExtract_OpenFailure(t *testing.T) {
	e := New(nil, nil)

	_, err := e.Extract(context.Background(), &domain.RawDocument{Name: "broken.pdf", Content: []byte("not a pdf")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDocumentOpen)
	assert.Contains(t, err.Error(), "broken.pdf")
}

func TestExtract_Nil(t *testing.T) {
	_, err := New(nil, nil).Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{pages: []string{"a"}}
	_, err := New(nil, nil, WithOpener(openerFor(src))).Extract(ctx, &domain.RawDocument{Name: "a.pdf"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtract_RealPDF(t *testing.T) {
	content := buildPDF("Hello PDF World", "")
	raster := &fakeRasterizer{}
	ocr := &fakeOCR{texts: map[int]string{2: "scanned second page"}}

	ext, err := New(raster, ocr).Extract(context.Background(), &domain.RawDocument{Name: "hello.pdf", Content: content})
	require.NoError(t, err)
	require.Len(t, ext.Pages, 2)

	assert.Equal(t, domain.MethodNative, ext.Pages[0].Method)
	assert.Contains(t, ext.Pages[0].Text, "Hello PDF World")
	assert.Equal(t, domain.MethodOCR, ext.Pages[1].Method)
	assert.Equal(t, "scanned second page", ext.Pages[1].Text)
	assert.Equal(t, []int{2}, raster.pages)
}

func TestOpen_PageCount(t *testing.T) {
	src, err := Open(buildPDF("one", "two", "three"))
	require.NoError(t, err)
	assert.Equal(t, 3, src.NumPage())
}

// scriptedRunner fakes pdftoppm and tesseract.
type scriptedRunner struct {
	calls  [][]string
	output []byte
	err    error
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.err != nil {
		return nil, r.err
	}
	if name == "pdftoppm" {
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+".png", []byte("PNG"), 0o600); err != nil {
			return nil, err
		}
	}
	return r.output, nil
}

func TestPoppler_Rasterize(t *testing.T) {
	runner := &scriptedRunner{}
	img, err := NewPopplerWithRunner(runner).Rasterize(context.Background(), "/tmp/doc.pdf", 4, 300)
	require.NoError(t, err)
	assert.Equal(t, []byte("PNG"), img)

	require.Len(t, runner.calls, 1)
	call := strings.Join(runner.calls[0], " ")
	assert.Contains(t, call, "pdftoppm -f 4 -l 4 -r 300 -png -singlefile /tmp/doc.pdf")
	assert.Equal(t, "page", filepath.Base(runner.calls[0][len(runner.calls[0])-1]))
}

func TestPoppler_RunnerError(t *testing.T) {
	runner := &scriptedRunner{err: errors.New("exit status 1")}
	_, err := NewPopplerWithRunner(runner).Rasterize(context.Background(), "/tmp/doc.pdf", 1, 300)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftoppm failed")
}

func TestTesseract_Recognise(t *testing.T) {
	runner := &scriptedRunner{output: []byte("recognised text\n")}
	text, err := NewTesseractWithRunner(runner, "").Recognise(context.Background(), []byte("PNG"))
	require.NoError(t, err)
	assert.Equal(t, "recognised text\n", text)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "tesseract", call[0])
	assert.Equal(t, []string{"stdout", "-l", "eng"}, call[2:])

	// The image file is removed afterwards.
	_, statErr := os.Stat(call[1])
	assert.True(t, os.IsNotExist(statErr))
}

func TestTesseract_RunnerError(t *testing.T) {
	runner := &scriptedRunner{err: errors.New("exit status 1")}
	_, err := NewTesseractWithRunner(runner, "deu").Recognise(context.Background(), []byte("PNG"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract failed")
	assert.Contains(t, runner.calls[0], "deu")
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "brew install poppler tesseract")
	assert.Contains(t, instructions, "apt install poppler-utils tesseract-ocr")
}

func TestErrOCRToolNotFound(t *testing.T) {
	assert.Contains(t, ErrOCRToolNotFound.Error(), "pdftoppm")
	assert.Contains(t, ErrOCRToolNotFound.Error(), "tesseract")
}

// Integration test - only runs if the OCR toolchain is installed.
func TestCheckAvailable_Integration(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		assert.ErrorIs(t, err, ErrOCRToolNotFound)
		t.Skip("pdftoppm/tesseract not available, skipping integration test")
	}
}

func TestExtract_MissingToolStaysInErrorChain(t *testing.T) {
	src := &fakeSource{pages: []string{""}}
	raster := &fakeRasterizer{err: &exec.Error{Name: "pdftoppm", Err: exec.ErrNotFound}}

	ext, err := New(raster, &fakeOCR{}, WithOpener(openerFor(src))).Extract(context.Background(),
		&domain.RawDocument{Name: "scan.pdf"})
	require.NoError(t, err)
	assert.ErrorIs(t, ext.Pages[0].Err, domain.ErrPageOCR)
	assert.ErrorIs(t, ext.Pages[0].Err, exec.ErrNotFound)
}

// failingFile is a real temp file whose writes fail.
type failingFile struct {
	*os.File
}

func (f failingFile) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestTempCopy_FailedWriteLeavesNoFile(t *testing.T) {
	var created string
	calls := 0
	c := &tempCopy{
		content: []byte("%PDF-1.4"),
		create: func() (tempFile, error) {
			calls++
			if calls == 1 {
				f, err := os.CreateTemp(t.TempDir(), "copy-*.pdf")
				require.NoError(t, err)
				created = f.Name()
				return failingFile{f}, nil
			}
			return os.CreateTemp(t.TempDir(), "copy-*.pdf")
		},
	}

	_, err := c.path()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoFileExists(t, created)
	assert.Empty(t, c.written)

	path, err := c.path()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Equal(t, 2, calls)

	again, err := c.path()
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, 2, calls)

	c.remove()
	assert.NoFileExists(t, path)
}
