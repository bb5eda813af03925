// Package ingest turns user input (URL, PDF upload, image upload) into a
// document source the OCR provider can consume.
package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/jackzampolin/vitae/internal/providers"
)

// Input type tags carried into result metadata.
const (
	InputTypeURL   = "url"
	InputTypePDF   = "pdf"
	InputTypeImage = "image"
)

// Sentinel errors checked by callers to reject input before any remote call.
var (
	ErrUnsupportedInput = errors.New("unsupported file extension")
	ErrEmptyFile        = errors.New("file is empty")
)

// allowedExtensions is the upload allow-list.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// AllowedExtensions returns the accepted upload extensions in display order.
func AllowedExtensions() []string {
	return []string{".pdf", ".png", ".jpg", ".jpeg"}
}

// Prepared is a document ready for OCR plus metadata about where it came from.
type Prepared struct {
	Document  providers.Document
	InputType string
	Filename  string // Original name without extension; empty for URLs
	PageCount int    // Local PDF page count; 0 when unknown
}

// Ingestor prepares document sources. PDFs are stored with the remote
// service for a signed URL; images are embedded inline.
type Ingestor struct {
	uploader providers.Uploader
	logger   *slog.Logger
}

// New creates an Ingestor.
func New(uploader providers.Uploader, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{uploader: uploader, logger: logger}
}

// FromURL passes a direct document URL through unchanged.
func (i *Ingestor) FromURL(url string) (*Prepared, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("document URL is empty")
	}
	return &Prepared{
		Document:  providers.DocumentFromURL(url),
		InputType: InputTypeURL,
	}, nil
}

// FromFile prepares an uploaded file. The extension allow-list is enforced
// here, before any remote call is made.
func (i *Ingestor) FromFile(ctx context.Context, filename string, content []byte) (*Prepared, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedInput, ext, strings.Join(AllowedExtensions(), ", "))
	}
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}

	baseName := strings.TrimSuffix(filename, filepath.Ext(filename))

	if ext == ".pdf" {
		return i.preparePDF(ctx, filename, baseName, content)
	}
	return i.prepareImage(baseName, content)
}

// preparePDF writes the bytes to a scoped temporary location, validates the
// PDF locally, uploads it, and obtains a signed retrieval URL. The
// temporary directory is removed on every exit path.
func (i *Ingestor) preparePDF(ctx context.Context, filename, baseName string, content []byte) (*Prepared, error) {
	tempDir, err := os.MkdirTemp("", "vitae-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempPath := filepath.Join(tempDir, filepath.Base(filename))
	if err := os.WriteFile(tempPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	pageCount, err := pdfapi.PageCount(bytes.NewReader(content), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	f, err := os.Open(tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open temp file: %w", err)
	}
	defer f.Close()

	fileID, err := i.uploader.Upload(ctx, filename, f)
	if err != nil {
		return nil, fmt.Errorf("failed to upload PDF: %w", err)
	}

	signedURL, err := i.uploader.SignedURL(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get signed URL: %w", err)
	}

	i.logger.Info("uploaded PDF for OCR", "filename", filename, "file_id", fileID, "pages", pageCount)

	return &Prepared{
		Document:  providers.DocumentFromURL(signedURL),
		InputType: InputTypePDF,
		Filename:  baseName,
		PageCount: pageCount,
	}, nil
}

// prepareImage re-encodes the image to PNG and embeds it as a base64 data
// URL; no remote upload needed.
func (i *Ingestor) prepareImage(baseName string, content []byte) (*Prepared, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	return &Prepared{
		Document:  providers.DocumentFromImageDataURL(dataURL),
		InputType: InputTypeImage,
		Filename:  baseName,
	}, nil
}
