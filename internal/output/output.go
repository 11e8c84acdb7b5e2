// Package output turns tag trees into bytes on disk or on a stream.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/conneroisu/tagtree/internal/errors"
	"github.com/conneroisu/tagtree/internal/tag"
	"github.com/natefinch/atomic"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// Format selects how a tree is rendered.
type Format string

const (
	FormatPretty   Format = "pretty"
	FormatMinified Format = "minified"
)

const mediaTypeHTML = "text/html"

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns the shared HTML minifier.
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.Add(mediaTypeHTML, &html.Minifier{
			KeepEndTags:      true,
			KeepDocumentTags: true,
		})
	})
	return minifier
}

// ParseFormat converts a flag or config value into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPretty, "":
		return FormatPretty, nil
	case FormatMinified:
		return FormatMinified, nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("unknown format %q (supported: pretty, minified)", s))
	}
}

// Render renders t in the given format. Minified output is the pretty
// rendering passed through the HTML minifier.
func Render(t *tag.Tag, format Format) (string, error) {
	if t == nil {
		return "", errors.NewValidationError(errors.ErrCodeRenderFailed, "cannot render a nil tree")
	}

	pretty := t.String()

	switch format {
	case FormatPretty, "":
		return pretty, nil
	case FormatMinified:
		minified, err := getMinifier().String(mediaTypeHTML, pretty)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrorTypeInternal, errors.ErrCodeRenderFailed, "minify failed")
		}
		return minified, nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeRenderFailed, fmt.Sprintf("unknown format %q", format))
	}
}

// WriteFile atomically replaces path with content, creating parent
// directories as needed. Readers never observe a partially written file.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to create output directory").
				WithLocation(path, 0, 0)
		}
	}

	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to write output").
			WithLocation(path, 0, 0)
	}

	return nil
}

// Write sends content to path, or to w when path is empty. A trailing
// newline is added when content lacks one.
func Write(w io.Writer, path, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if path != "" {
		return WriteFile(path, content)
	}

	if _, err := io.WriteString(w, content); err != nil {
		return errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to write output")
	}
	return nil
}
