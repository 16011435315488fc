//go:build ocr

package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// NewEngine constructs a Tesseract-backed engine for the given language
// (e.g. "eng"). An empty language keeps gosseract's default.
func NewEngine(language string) (Engine, error) {
	client := gosseract.NewClient()
	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ocr: set language %q: %w", language, err)
		}
	}
	return &tesseract{client: client}, nil
}

// tesseract wraps a gosseract client. The client holds a single native
// Tesseract instance and is not safe for concurrent recognition, so all
// calls are serialized here. This is what throttles true OCR concurrency
// even when page-level work runs in parallel.
type tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
}

func (t *tesseract) Recognize(image []byte) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(image); err != nil {
		return "", &RecognitionError{Err: fmt.Errorf("set image: %w", err)}
	}
	text, err := t.client.Text()
	if err != nil {
		return "", &RecognitionError{Err: err}
	}
	return strings.TrimSpace(text), nil
}

func (t *tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}
