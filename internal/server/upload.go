// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/file-compressor/internal/bundle"
	"github.com/pdiddy/file-compressor/internal/convert"
	"github.com/pdiddy/file-compressor/pkg/types"
)

// FormField is the multipart field carrying the uploaded files.
const FormField = "files[]"

// UploadHandler converts a multipart upload into one archive download.
type UploadHandler struct {
	bundler     *bundle.Bundler
	maxBytes    int64
	contentType string
}

// NewUploadHandler creates an UploadHandler. maxBytes <= 0 leaves the
// request body unbounded.
func NewUploadHandler(b *bundle.Bundler, maxBytes int64, contentType string) *UploadHandler {
	if contentType == "" {
		contentType = types.DefaultArchiveType
	}
	return &UploadHandler{bundler: b, maxBytes: maxBytes, contentType: contentType}
}

// HandleUpload serves POST /upload. Client-side mistakes that the form can
// produce (no file, unsupported extension) answer 200 with a plain message;
// conversion failures answer 500.
func (h *UploadHandler) HandleUpload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "upload exceeds %d bytes", tooLarge.Limit)
			return
		}
		c.String(http.StatusOK, bundle.ErrMissingInput.Error())
		return
	}
	defer form.RemoveAll()

	sources := uploadSources(form.File[FormField])
	res, err := h.bundler.Bundle(c.Request.Context(), sources)
	if err != nil {
		c.String(statusFor(err), err.Error())
		return
	}
	defer res.Close()

	c.Header("Content-Type", h.contentType)
	c.Header("Content-Disposition", "attachment; filename="+res.ArchiveName)
	c.File(res.ArchivePath)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bundle.ErrMissingInput), errors.Is(err, convert.ErrUnsupportedFormat):
		return http.StatusOK
	case errors.Is(err, bundle.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// uploadSources drops parts without a file name; browsers send one such
// part when the file input is left empty.
func uploadSources(headers []*multipart.FileHeader) []bundle.Source {
	sources := make([]bundle.Source, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		sources = append(sources, fileHeader{fh})
	}
	return sources
}

// fileHeader adapts a multipart part to bundle.Source.
type fileHeader struct {
	fh *multipart.FileHeader
}

func (f fileHeader) Name() string { return f.fh.Filename }

func (f fileHeader) Open() (io.ReadCloser, error) { return f.fh.Open() }
