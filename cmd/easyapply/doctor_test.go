package main

// Notes:
// - Chrome detection depends on the machine; only the result shape and the
//   status/exit code consistency are asserted for it.
// - SVG optimizer detection is driven by a fake lookPath.

import (
	"encoding/json"
	"errors"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Output formats
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(t, nil)
	code := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s", result.Env.OS, result.Env.Arch)
	}
	if len(result.Tools) != 2 {
		t.Errorf("Tools = %+v, want svgo and scour", result.Tools)
	}
	if !result.Cache.Writable {
		t.Errorf("Cache = %+v, want writable temp dir", result.Cache)
	}

	switch result.Status {
	case "errors":
		if code != ExitGeneral {
			t.Errorf("exit code = %d for errors status", code)
		}
	case "ready", "warnings":
		if code != ExitSuccess {
			t.Errorf("exit code = %d for %s status", code, result.Status)
		}
	default:
		t.Errorf("invalid status %q", result.Status)
	}
}

func TestRunDoctorCmd_TextOutput(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(t, nil)
	runDoctorCmd(nil, env)

	for _, section := range []string{"easyapply doctor", "Chrome/Chromium", "SVG optimizers", "Cache", "Environment", "Status:"} {
		if !strings.Contains(stdout.String(), section) {
			t.Errorf("output missing %q:\n%s", section, stdout)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctor - Tool and environment checks
// ---------------------------------------------------------------------------

func TestRunDoctor_Tools(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(t, nil)
	lookPath := func(name string) (string, error) {
		if name == "svgo" {
			return "/usr/bin/svgo", nil
		}
		return "", errors.New("not found")
	}

	result := runDoctor(env, lookPath)

	if len(result.Tools) != 2 {
		t.Fatalf("Tools = %+v", result.Tools)
	}
	if !result.Tools[0].Found || result.Tools[0].Path != "/usr/bin/svgo" {
		t.Errorf("svgo = %+v, want found at /usr/bin/svgo", result.Tools[0])
	}
	if result.Tools[1].Found {
		t.Errorf("scour = %+v, want missing", result.Tools[1])
	}

	var warned bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "scour") && strings.Contains(w, "pip install scour") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("Warnings = %v, want a scour install hint", result.Warnings)
	}
}

func TestRunDoctor_CIWithoutSandboxFlag(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(t, map[string]string{"CI": "true"})
	result := runDoctor(env, func(string) (string, error) { return "/bin/true", nil })

	if !result.Env.CI {
		t.Error("CI not detected")
	}
	var warned bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "ROD_NO_SANDBOX") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("Warnings = %v, want ROD_NO_SANDBOX suggestion", result.Warnings)
	}
}

func TestRunDoctor_UnwritableCache(t *testing.T) {
	t.Parallel()

	file := setupProject(t, map[string]string{"blocker": "x"})
	env, _, _ := testEnv(t, map[string]string{envCacheDir: file + "/blocker/cache"})

	result := runDoctor(env, func(string) (string, error) { return "/bin/true", nil })
	if result.Cache.Writable || result.Status != "errors" {
		t.Errorf("Cache = %+v, Status = %s, want not writable and errors", result.Cache, result.Status)
	}
}
