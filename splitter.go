package labelscan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pageConcurrency bounds parallel page extraction during a batch split.
// The OCR pool serializes actual recognition, so higher values only help
// the text-layer and rasterization phases.
const pageConcurrency = 4

// SplitAndExtract splits a multi-page manifest PDF into one single-page
// PDF per page under outputDir, then runs the extraction pipeline on each
// page independently. Results preserve page order. A page that fails to
// extract carries its error in PageResult.Error without blocking siblings;
// only a manifest that cannot be read or split at all is an error.
func (e *Extractor) SplitAndExtract(ctx context.Context, pdfPath, outputDir string) ([]PageResult, error) {
	pageCount, err := api.PageCountFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRead, err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("labelscan: create output dir: %w", err)
	}
	if err := api.SplitFile(pdfPath, outputDir, 1, nil); err != nil {
		return nil, fmt.Errorf("labelscan: split %s: %w", pdfPath, err)
	}

	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))

	results := make([]PageResult, pageCount)
	sem := make(chan struct{}, pageConcurrency)
	var wg sync.WaitGroup

	for page := 1; page <= pageCount; page++ {
		name := splitPageName(base, page)
		pr := PageResult{
			PageNumber: page,
			FilePath:   filepath.Join(outputDir, name),
			Filename:   name,
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, pr PageResult) {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := os.Stat(pr.FilePath); err != nil {
				pr.Error = fmt.Sprintf("split page missing: %v", err)
				results[idx] = pr
				return
			}
			res, err := e.Extract(ctx, pr.FilePath)
			if err != nil {
				e.log.Warn().Err(err).Int("page", pr.PageNumber).Msg("page extraction failed")
				pr.Error = err.Error()
			} else {
				pr.Result = res
			}
			results[idx] = pr
		}(page-1, pr)
	}
	wg.Wait()

	return results, nil
}

// splitPageName is the filename pdfcpu gives page n when splitting with a
// span of one page.
func splitPageName(base string, page int) string {
	return fmt.Sprintf("%s_%d.pdf", base, page)
}
