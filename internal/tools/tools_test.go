package tools

// Notes:
// - execTool.Run is exercised against "cat" and "false" which exist on the
//   unix hosts CI runs on; the tests skip when they are missing.
// - svgo and scour are never invoked; their argument lists are checked as data.

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"slices"
	"sync"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------------------------------------------------------------------------
// TestLocate - Lookup and memoization
// ---------------------------------------------------------------------------

func TestLocate_Memoized(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	calls := map[string]int{}
	lookPath := func(name string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		calls[name]++
		if name == SVGO {
			return "/usr/bin/svgo", nil
		}
		return "", exec.ErrNotFound
	}
	loc := NewLocator(WithLookPath(lookPath), WithLogger(quietLogger()))

	for range 3 {
		if got := loc.Locate(SVGO); !got.Available() {
			t.Errorf("Locate(svgo).Available() = false, want true")
		}
		if got := loc.Locate(Scour); got.Available() {
			t.Errorf("Locate(scour).Available() = true, want false")
		}
	}

	if calls[SVGO] != 1 || calls[Scour] != 1 {
		t.Errorf("lookPath calls = %v, want one per name", calls)
	}
}

func TestLocate_ArgsPerTool(t *testing.T) {
	t.Parallel()

	loc := NewLocator(
		WithLookPath(func(name string) (string, error) { return "/bin/" + name, nil }),
		WithLogger(quietLogger()),
	)

	svgo, ok := loc.Locate(SVGO).(*execTool)
	if !ok {
		t.Fatalf("Locate(svgo) type = %T, want *execTool", loc.Locate(SVGO))
	}
	if want := []string{"--input", "-", "--output", "-", "--multipass"}; !slices.Equal(svgo.args, want) {
		t.Errorf("svgo args = %v, want %v", svgo.args, want)
	}
	if svgo.Path() != "/bin/svgo" {
		t.Errorf("svgo path = %q, want /bin/svgo", svgo.Path())
	}

	scour := loc.Locate(Scour).(*execTool)
	if !slices.Contains(scour.args, "--strip-xml-prolog") || !slices.Contains(scour.args, "--no-line-breaks") {
		t.Errorf("scour args = %v, missing expected flags", scour.args)
	}
}

func TestLocate_RegisteredTool(t *testing.T) {
	t.Parallel()

	fake := Unavailable("svgo")
	loc := NewLocator(
		WithTool(fake),
		WithLookPath(func(string) (string, error) {
			t.Error("lookPath called for a registered tool")
			return "", exec.ErrNotFound
		}),
	)
	if got := loc.Locate("svgo"); got != fake {
		t.Errorf("Locate() = %v, want registered tool", got)
	}
}

// ---------------------------------------------------------------------------
// TestRun - Process execution
// ---------------------------------------------------------------------------

func TestRun_Unavailable(t *testing.T) {
	t.Parallel()

	_, err := Unavailable("scour").Run(context.Background(), []byte("<svg/>"))
	if !errors.Is(err, ErrToolUnavailable) {
		t.Errorf("Run() error = %v, want ErrToolUnavailable", err)
	}
}

func TestRun_Stdin(t *testing.T) {
	t.Parallel()

	path, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}
	tool := &execTool{name: "cat", path: path}

	out, err := tool.Run(context.Background(), []byte("<svg/>"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(out) != "<svg/>" {
		t.Errorf("Run() = %q, want %q", out, "<svg/>")
	}
}

func TestRun_Failure(t *testing.T) {
	t.Parallel()

	path, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}
	tool := &execTool{name: "false", path: path}

	if _, err := tool.Run(context.Background(), nil); !errors.Is(err, ErrToolFailed) {
		t.Errorf("Run() error = %v, want ErrToolFailed", err)
	}
}
