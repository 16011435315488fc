// Package render rasterizes PDF pages to raster image files by invoking the
// poppler pdftoppm utility as an external process.
//
// Rasterization is the entry point for every pixel-based extraction path:
// the resulting PNG is cropped, segmented, and fed to OCR by the caller.
// pdftoppm requires poppler-utils to be installed. On Ubuntu/Debian:
//
//	apt-get install poppler-utils
//
// On macOS:
//
//	brew install poppler
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// DefaultTool is the conversion binary looked up on PATH when no
	// explicit path is configured.
	DefaultTool = "pdftoppm"

	// DefaultTimeout bounds a single conversion. External tools can hang
	// on malformed PDFs, so every invocation runs under a wall clock.
	DefaultTimeout = 60 * time.Second

	// DefaultScale is the target pixel size of the longer page edge.
	DefaultScale = 6000
)

// Error reports a failed or timed-out rasterization attempt.
type Error struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("render: %s failed: %v: %s", e.Tool, e.Err, e.Stderr)
	}
	return fmt.Sprintf("render: %s failed: %v", e.Tool, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Renderer invokes an external PDF-to-image conversion tool.
// The zero value is usable and runs pdftoppm with the default timeout.
type Renderer struct {
	// Tool is the conversion binary. Empty means DefaultTool.
	Tool string

	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Page renders page 1 of the PDF at pdfPath into outDir and returns the path
// of the PNG it produced. scaleTo is the target pixel size of the longer page
// edge; values <= 0 use DefaultScale.
//
// The output file is left in outDir for the caller to crop from and clean up.
// Page does not remove it, so one render can serve multiple crops.
func (r *Renderer) Page(ctx context.Context, pdfPath, outDir string, scaleTo int) (string, error) {
	tool := r.Tool
	if tool == "" {
		tool = DefaultTool
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if scaleTo <= 0 {
		scaleTo = DefaultScale
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prefix := filepath.Join(outDir, "page")
	args := []string{
		"-png",
		"-singlefile",
		"-f", "1",
		"-l", "1",
		"-scale-to", strconv.Itoa(scaleTo),
		pdfPath,
		prefix,
	}

	cmd := exec.CommandContext(ctx, tool, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %v: %w", timeout, err)
		}
		return "", &Error{Tool: tool, Stderr: stderr.String(), Err: err}
	}

	out := prefix + ".png"
	if _, err := os.Stat(out); err != nil {
		return "", &Error{Tool: tool, Stderr: stderr.String(), Err: fmt.Errorf("no output file: %w", err)}
	}

	return out, nil
}
