package easyapply

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/alnah/go-easyapply/internal/fileutil"
	"github.com/alnah/go-easyapply/internal/markup"
)

const outputPerm = 0o644

// errEmptyPDF is returned by verifyPDF for documents without pages.
var errEmptyPDF = errors.New("document has no pages")

// Materialize writes htmlText to dest, or renders it to a PDF at dest when
// asPDF is set. With debug, the HTML handed to the browser is kept at
// dest+".html". Rasterizer failures are never retried.
func (r *Renderer) Materialize(ctx context.Context, htmlText, dest string, asPDF, debug bool) error {
	if !asPDF {
		if err := fileutil.WriteFileAtomic(dest, []byte(htmlText), outputPerm); err != nil {
			return fmt.Errorf("%w: %v", ErrOutput, err)
		}
		return nil
	}

	// The scratch file lives in the temp dir, so relative links must point
	// back at the project.
	page, err := markup.RewriteRelativePaths(htmlText, r.projectDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFRender, err)
	}

	if debug {
		if err := fileutil.WriteFileAtomic(dest+".html", []byte(page), outputPerm); err != nil {
			return fmt.Errorf("%w: %v", ErrOutput, err)
		}
	}

	scratch, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFRender, err)
	}
	defer cleanup()

	pdf, err := r.pdf.RenderFile(ctx, scratch)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPDFRender, err)
	}
	pages, err := verifyPDF(pdf)
	if err != nil {
		return fmt.Errorf("%w: invalid output: %v", ErrPDFRender, err)
	}

	if err := fileutil.WriteFileAtomic(dest, pdf, outputPerm); err != nil {
		return fmt.Errorf("%w: %v", ErrOutput, err)
	}
	r.logger.Debug("pdf written", "path", dest, "pages", pages, "bytes", len(pdf))
	return nil
}

// pdfcpu reads a config file from the user config dir unless told not to.
var disablePDFConfigDir = sync.OnceFunc(api.DisableConfigDir)

// verifyPDF parses data and returns its page count.
func verifyPDF(data []byte) (int, error) {
	disablePDFConfigDir()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, err
	}
	if pctx.PageCount == 0 {
		return 0, errEmptyPDF
	}
	return pctx.PageCount, nil
}
