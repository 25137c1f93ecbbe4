// Package pdf extracts text from PDF documents page by page.
//
// Each page's text layer is read with github.com/ledongthuc/pdf. A page
// whose layer is empty (scanned pages, images of text) is rendered with
// pdftoppm and recognised with tesseract instead. The OCR step never fails
// the document: a page whose OCR fails is returned empty with Page.Err set.
//
// # External Tools
//
// OCR needs poppler's pdftoppm and tesseract on PATH. CheckAvailable reports
// whether they are installed and InstallInstructions explains how to get them.
package pdf
