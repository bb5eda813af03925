package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/vitae/internal/api"
	"github.com/jackzampolin/vitae/internal/ingest"
	"github.com/jackzampolin/vitae/internal/pipeline"
	"github.com/jackzampolin/vitae/internal/svcctx"
)

// maxUploadMemory bounds in-memory multipart parsing. Resumes are small
// documents; anything larger spills to disk.
const maxUploadMemory = 32 << 20 // 32MB

// ParseResumeEndpoint handles POST /parse-resume with a multipart file upload.
type ParseResumeEndpoint struct{}

var _ api.Endpoint = (*ParseResumeEndpoint)(nil)

func (e *ParseResumeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/parse-resume", e.handler
}

func (e *ParseResumeEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Parse a resume file
//	@Description	Upload a resume (PDF or image), run OCR and structured extraction, and return the result envelope
//	@Tags			resume
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"Resume file (.pdf, .png, .jpg, .jpeg)"
//	@Success		200	{object}	pipeline.ResultEnvelope
//	@Failure		400	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/parse-resume [post]
func (e *ParseResumeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	p := svcctx.PipelineFrom(r.Context())
	if p == nil {
		writeError(w, http.StatusServiceUnavailable, "pipeline not initialized")
		return
	}

	result, err := p.ParseFile(r.Context(), header.Filename, content)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result.Envelope)
}

// writePipelineError maps pipeline failures onto the HTTP error taxonomy:
// unsupported extension and empty extraction are client errors, an empty
// upload body is unprocessable, everything else is a processing error.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ingest.ErrEmptyFile):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pipeline.ErrNoContent):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Processing error: %v", err))
	}
}

func (e *ParseResumeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-resume <file>",
		Short: "Parse a resume file via the server",
		Long: fmt.Sprintf(
			"Upload a resume file to the running server and print the result envelope.\n\nAllowed extensions: %s",
			strings.Join(ingest.AllowedExtensions(), ", "),
		),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var envelope pipeline.ResultEnvelope
			if err := client.PostFile(cmd.Context(), "/parse-resume", args[0], &envelope); err != nil {
				return err
			}
			return api.Output(envelope)
		},
	}
}
