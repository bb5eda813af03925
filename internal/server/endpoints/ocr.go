package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/vitae/internal/api"
	"github.com/jackzampolin/vitae/internal/pipeline"
	"github.com/jackzampolin/vitae/internal/svcctx"
)

// OCRURLRequest is the JSON body for URL-based OCR requests.
type OCRURLRequest struct {
	URL string `json:"url"`
}

// OCREndpoint handles POST /ocr. It accepts either a multipart file
// upload or a JSON body with a document URL and returns the raw OCR
// envelope without resume extraction.
type OCREndpoint struct{}

var _ api.Endpoint = (*OCREndpoint)(nil)

func (e *OCREndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/ocr", e.handler
}

func (e *OCREndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Extract text from a document
//	@Description	Upload a document or submit a URL; returns per-page OCR text without resume extraction
//	@Tags			ocr
//	@Accept			mpfd
//	@Accept			json
//	@Produce		json
//	@Param			file	formData	file	false	"Document file (.pdf, .png, .jpg, .jpeg)"
//	@Param			request	body		OCRURLRequest	false	"Document URL"
//	@Success		200	{object}	pipeline.OCREnvelope
//	@Failure		400	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/ocr [post]
func (e *OCREndpoint) handler(w http.ResponseWriter, r *http.Request) {
	p := svcctx.PipelineFrom(r.Context())
	if p == nil {
		writeError(w, http.StatusServiceUnavailable, "pipeline not initialized")
		return
	}

	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var req OCRURLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		envelope, err := p.OCRURL(r.Context(), req.URL)
		if err != nil {
			writePipelineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	envelope, err := p.OCRFile(r.Context(), header.Filename, content)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope)
}

func (e *OCREndpoint) Command(getServerURL func() string) *cobra.Command {
	var docURL string
	cmd := &cobra.Command{
		Use:   "ocr [file]",
		Short: "Extract raw text from a document via the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && docURL == "" {
				return errors.New("provide a file argument or --url")
			}

			client := api.NewClient(getServerURL())
			var envelope pipeline.OCREnvelope

			if docURL != "" {
				if err := client.Post(cmd.Context(), "/ocr", OCRURLRequest{URL: docURL}, &envelope); err != nil {
					return err
				}
			} else {
				if err := client.PostFile(cmd.Context(), "/ocr", args[0], &envelope); err != nil {
					return err
				}
			}
			return api.Output(envelope)
		},
	}
	cmd.Flags().StringVar(&docURL, "url", "", "document URL instead of a local file")
	return cmd
}
