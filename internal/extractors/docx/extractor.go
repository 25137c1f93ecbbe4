// Package docx extracts Word (OOXML) documents as a single page of text.
// Paragraphs become lines; tables contribute their cell paragraphs in order.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/extractors/textutil"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// MIMEType is the OOXML word processing type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	bodyPart = "word/document.xml"
	corePart = "docProps/core.xml"
)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract reads word/document.xml into page 1.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.Extraction, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDocumentOpen, raw.Name, err)
	}

	body, err := readPart(reader, bodyPart)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDocumentOpen, raw.Name, err)
	}
	text, err := paragraphs(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDocumentOpen, raw.Name, err)
	}

	title := textutil.TitleFromMetadata(raw.Metadata)
	if title == "" {
		title = coreTitle(reader)
	}
	if title == "" {
		title = textutil.TitleFromName(raw.Name)
	}

	return &domain.Extraction{
		Name:     raw.Name,
		Title:    title,
		MIMEType: MIMEType,
		Pages: []domain.Page{
			{Number: 1, Method: domain.MethodNative, Text: text},
		},
	}, nil
}

var errMissingPart = errors.New("missing part")

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%w: %s", errMissingPart, name)
}

// paragraphs streams the body and joins the text runs of each w:p.
func paragraphs(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		lines  []string
		line   strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				line.WriteString("\t")
			case "br", "cr":
				line.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := strings.TrimSpace(line.String()); s != "" {
					lines = append(lines, s)
				}
				line.Reset()
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// coreTitle returns dc:title from the package properties, if any.
func coreTitle(reader *zip.Reader) string {
	data, err := readPart(reader, corePart)
	if err != nil {
		return ""
	}
	var core struct {
		Title string `xml:"title"`
	}
	if err := xml.Unmarshal(data, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}
