// Package web serves the validator, splitter and joiner over HTTP. Requests carry
// config text in their bodies; the server never touches the filesystem.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/r9s-ai/pipelint/pkg/pipeconf"
)

const defaultListen = "127.0.0.1:3320"

type Options struct {
	Listen       string
	MaxBodyBytes int64
	H2C          bool
	Logger       *zap.Logger
}

type contentRequest struct {
	Content string `json:"content"`
}

type stanzaFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type joinRequest struct {
	Files []stanzaFile `json:"files"`
}

type apiResponse struct {
	OK    bool         `json:"ok"`
	Files []stanzaFile `json:"files,omitempty"`
	Error string       `json:"error,omitempty"`
}

// findingsResponse always carries both finding lists, empty when clean.
type findingsResponse struct {
	OK       bool               `json:"ok"`
	Content  *string            `json:"content,omitempty"`
	Skipped  []string           `json:"skipped,omitempty"`
	Errors   []pipeconf.Finding `json:"errors"`
	Warnings []pipeconf.Finding `json:"warnings"`
}

func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(requestIDMiddleware())
	r.Use(accessLogMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(bodyLimitMiddleware(opts.MaxBodyBytes))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	api := r.Group("/api")
	api.POST("/lint", handleLint)
	api.POST("/split", handleSplit)
	api.POST("/join", handleJoin)
	return r
}

// Handler returns the router, wrapped for cleartext HTTP/2 when opts.H2C is set.
func Handler(opts Options) http.Handler {
	engine := NewRouter(opts)
	if !opts.H2C {
		return engine
	}
	return h2c.NewHandler(engine, &http2.Server{})
}

// Run serves until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	listen := strings.TrimSpace(opts.Listen)
	if listen == "" {
		listen = defaultListen
	}
	srv := &http.Server{
		Addr:              listen,
		Handler:           Handler(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("pipelint api listening", zap.String("url", "http://"+listen), zap.Bool("h2c", opts.H2C))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", listen, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func handleLint(c *gin.Context) {
	var in contentRequest
	if err := decodeStrict(c, &in); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	res := pipeconf.Validate(in.Content)
	c.JSON(http.StatusOK, findingsResponse{OK: res.OK(), Errors: res.Errors, Warnings: res.Warnings})
}

func handleSplit(c *gin.Context) {
	var in contentRequest
	if err := decodeStrict(c, &in); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	blocks := pipeconf.SplitText(in.Content)
	files := make([]stanzaFile, 0, len(blocks))
	for _, b := range blocks {
		files = append(files, stanzaFile{Name: b.FileName(), Content: b.Body})
	}
	c.JSON(http.StatusOK, apiResponse{OK: true, Files: files})
}

func handleJoin(c *gin.Context) {
	var in joinRequest
	if err := decodeStrict(c, &in); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	byName := make(map[string]string, len(in.Files))
	names := make([]string, 0, len(in.Files))
	for _, f := range in.Files {
		name := strings.TrimSpace(f.Name)
		if name == "" || strings.ContainsAny(name, `/\`) {
			writeError(c, http.StatusBadRequest, fmt.Errorf("invalid file name %q", f.Name))
			return
		}
		if _, dup := byName[name]; dup {
			writeError(c, http.StatusBadRequest, fmt.Errorf("duplicate file name %q", name))
			return
		}
		byName[name] = f.Content
		names = append(names, name)
	}

	ordered := pipeconf.OrderStanzaFileNames(names)
	kept := make(map[string]struct{}, len(ordered))
	bodies := map[pipeconf.Kind][]string{}
	for _, name := range ordered {
		info, _ := pipeconf.ParseStanzaFileName(name)
		bodies[info.Kind] = append(bodies[info.Kind], strings.TrimSpace(byName[name]))
		kept[name] = struct{}{}
	}
	var skipped []string
	for _, name := range names {
		if _, ok := kept[name]; !ok {
			skipped = append(skipped, name)
		}
	}

	content := pipeconf.JoinBlocks(bodies)
	res := pipeconf.Validate(content)
	c.JSON(http.StatusOK, findingsResponse{
		OK:       res.OK(),
		Content:  &content,
		Skipped:  skipped,
		Errors:   res.Errors,
		Warnings: res.Warnings,
	})
}

func decodeStrict(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return errors.New("empty request body")
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return err
	}
	return nil
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, apiResponse{OK: false, Error: err.Error()})
}
