package easyapply

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-easyapply/internal/process"
)

// PDFRasterizer turns a local HTML file into PDF bytes.
type PDFRasterizer interface {
	RenderFile(ctx context.Context, path string) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ PDFRasterizer = (*rodRasterizer)(nil)

// rodRasterizer prints pages with headless Chrome through go-rod.
// Rod downloads Chromium on first run if no browser is found.
// The browser is launched on first use and reused until Close.
type rodRasterizer struct {
	timeout time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodRasterizer(timeout time.Duration, logger *slog.Logger) *rodRasterizer {
	return &rodRasterizer{timeout: timeout, logger: logger}
}

// ensureBrowser lazily launches and connects to the browser. Callers hold mu.
func (r *rodRasterizer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker/containerized environments)
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}

	// No sandbox in CI and containers
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher, r.browser = l, browser
	r.logger.Debug("browser launched", "pid", l.PID())
	return nil
}

// RenderFile opens path in a new tab, waits for the network to settle and
// the load event, then prints it with CSS page sizes and backgrounds.
func (r *rodRasterizer) RenderFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	defer page.Close()

	p := page.Context(ctx).Timeout(timeout)

	idle := p.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := p.Navigate("file://" + filepath.ToSlash(path)); err != nil {
		return nil, fmt.Errorf("loading page: %w", err)
	}
	idle()
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("loading page: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := p.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("printing page: %w", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}
	return data, nil
}

// Close shuts the browser down and kills its process group.
func (r *rodRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}
