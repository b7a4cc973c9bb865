package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/sdbgen"
	"github.com/tordrt/sdbgen/internal/formatter"
	"github.com/tordrt/sdbgen/internal/model"
	"github.com/tordrt/sdbgen/internal/schema"
)

var contentTypes = map[string]string{
	formatter.FormatTypeScript: "application/typescript; charset=utf-8",
	formatter.FormatText:       "text/plain; charset=utf-8",
	formatter.FormatMarkdown:   "text/markdown; charset=utf-8",
	formatter.FormatXLSX:       "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// HealthHandler reports liveness
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// FormatsHandler lists the output formats
func FormatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"formats": formatter.Formats()})
	}
}

// GenerateHandler renders the posted structures in the requested format
func GenerateHandler(maxBody int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := formatter.Canonical(c.Query("format"))
		var buf bytes.Buffer
		f, err := formatter.New(format, &buf)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		m, ok := generate(c, maxBody)
		if !ok {
			return
		}

		if err := f.Format(m); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render model"})
			logger.Warn("render %s: %v", format, err)
			return
		}
		c.Data(http.StatusOK, contentTypes[format], buf.Bytes())
	}
}

// ModelHandler returns the generated model as JSON
func ModelHandler(maxBody int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := generate(c, maxBody)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// generate reads the request into a model. On failure the error response
// has already been written.
func generate(c *gin.Context, maxBody int64) (*model.Model, bool) {
	opts := &sdbgen.Options{
		Namespace:     c.Query("namespace"),
		Database:      c.Query("database"),
		Tables:        splitList(c.Query("tables")),
		ExcludeTables: splitList(c.Query("exclude")),
	}
	if opts.Namespace == "" || opts.Database == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "namespace and database are required"})
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return nil, false
	}

	s, err := schema.Parse(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	return sdbgen.Generate(s, opts), true
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
