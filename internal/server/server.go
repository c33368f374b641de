// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the bundler over HTTP: an upload form on GET / and
// the conversion endpoint on POST /upload.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/file-compressor/internal/bundle"
	"github.com/pdiddy/file-compressor/internal/convert"
	"github.com/pdiddy/file-compressor/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// shutdownTimeout bounds how long in-flight uploads may run after the
// serve context is cancelled.
const shutdownTimeout = 30 * time.Second

// New builds the router. Access logs go to accessLog; nil discards them.
func New(cfg types.Config, b *bundle.Bundler, accessLog io.Writer) *gin.Engine {
	if accessLog == nil {
		accessLog = io.Discard
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(accessLog), gin.RecoveryWithWriter(accessLog))
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	accept := strings.Join(convert.SupportedExtensions(), ",")
	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "upload.html", gin.H{
			"Accept":      accept,
			"ArchiveName": b.ArchiveName(),
		})
	})

	upload := NewUploadHandler(b, cfg.Server.MaxUploadBytes, cfg.Archive.ContentType)
	router.POST("/upload", upload.HandleUpload)

	return router
}

// Serve listens on addr until ctx is cancelled, then drains in-flight
// requests.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
