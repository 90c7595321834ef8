//go:build integration

package itest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

const cliTimeout = 30 * time.Second

type robustCase struct {
	name            string
	args            func(t *testing.T, repoRoot string) []string
	env             map[string]string
	wantContains    []string
	wantNotContains []string
}

type cliRunResult struct {
	exitCode int
	output   string
}

func TestRobustness_ArgsValidation(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	clips := filepath.Join(repoRoot, "internal", "itest", "testdata")

	cases := []robustCase{
		{
			name: "no args",
			args: staticArgs("--tempo", "120"),
			wantContains: []string{
				"accepts 1 arg(s), received 0",
			},
		},
		{
			name: "too many args",
			args: staticArgs(clips, "extra", "--tempo", "120"),
			wantContains: []string{
				"accepts 1 arg(s), received 2",
			},
		},
		{
			name: "unknown flag",
			args: staticArgs(clips, "--wat"),
			wantContains: []string{
				"unknown flag: --wat",
			},
		},
		{
			name: "tempo non number",
			args: staticArgs(clips, "--tempo", "nope"),
			wantContains: []string{
				`invalid argument "nope" for "-t, --tempo"`,
			},
		},
		{
			name: "tempo negative",
			args: staticArgs(clips, "--tempo", "-90", "--dry-run"),
			wantContains: []string{
				"config: tempo must be > 0",
			},
		},
		{
			name: "max length zero",
			args: staticArgs(clips, "--tempo", "120", "--dry-run", "--max-length", "0"),
			wantContains: []string{
				"config: max length must be > 0",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_InvalidInputMedia(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	testdata := filepath.Join(repoRoot, "internal", "itest", "testdata")

	cases := []robustCase{
		{
			name: "missing clips dir",
			args: staticArgs(filepath.Join(testdata, "does-not-exist"), "-t", "120", "--dry-run"),
			wantContains: []string{
				"config: stat clips directory:",
			},
		},
		{
			name: "clips dir is a file",
			args: staticArgs(filepath.Join(testdata, "not-media.txt"), "-t", "120", "--dry-run"),
			wantContains: []string{
				"is not a directory",
			},
		},
		{
			name: "clip is not media",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				dir := t.TempDir()
				if err := os.WriteFile(filepath.Join(dir, "fake.mp4"), []byte("not a video"), 0o644); err != nil {
					t.Fatalf("write clip fixture: %v", err)
				}
				return []string{dir, "-t", "120", "--dry-run"}
			},
			wantContains: []string{
				"skipping fake.mp4: ffprobe duration:",
				"no clips selected",
			},
		},
		{
			name: "no clips selected",
			args: staticArgs(testdata, "-t", "120", "--dry-run"),
			wantContains: []string{
				"no clips selected",
			},
		},
		{
			name: "out points to file",
			args: func(t *testing.T, repoRoot string) []string {
				t.Helper()
				tmp := t.TempDir()
				outFile := filepath.Join(tmp, "out-file")
				if err := os.WriteFile(outFile, []byte("x"), 0o644); err != nil {
					t.Fatalf("write out file fixture: %v", err)
				}
				audio := filepath.Join(repoRoot, "internal", "itest", "testdata", "not-media.txt")
				return []string{testdata, "-t", "120", "-a", audio, "--out", outFile}
			},
			wantContains: []string{
				"not a directory",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_ConfigHardening(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	testdata := filepath.Join(repoRoot, "internal", "itest", "testdata")

	cases := []robustCase{
		{
			name: "bad log level from env",
			args: staticArgs(testdata, "-t", "120", "--dry-run"),
			env: map[string]string{
				"BEATCUT_LOG_LEVEL": "loud",
			},
			wantContains: []string{
				`logging.level: unsupported value "loud"`,
			},
		},
		{
			name: "missing explicit config",
			args: staticArgs(testdata, "-t", "120", "--dry-run", "--config", filepath.Join(testdata, "missing.toml")),
			wantContains: []string{
				"config: stat config:",
			},
		},
		{
			name: "ffprobe not found",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				dir := t.TempDir()
				if err := os.WriteFile(filepath.Join(dir, "a.mp4"), []byte("x"), 0o644); err != nil {
					t.Fatalf("write clip fixture: %v", err)
				}
				return []string{dir, "-t", "120", "--dry-run"}
			},
			env: map[string]string{
				"BEATCUT_FFPROBE": "/nonexistent/ffprobe",
			},
			wantContains: []string{
				"skipping a.mp4: ffprobe duration:",
				"no clips selected",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func runRobustCases(t *testing.T, repoRoot string, cases []robustCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, repoRoot, tc.args(t, repoRoot), tc.env)
			if res.exitCode == 0 {
				t.Fatalf("expected non-zero exit code, got 0\noutput:\n%s", res.output)
			}
			for _, want := range tc.wantContains {
				if !strings.Contains(res.output, want) {
					t.Fatalf("expected output to contain %q\noutput:\n%s", want, res.output)
				}
			}
			for _, notWant := range tc.wantNotContains {
				if strings.Contains(res.output, notWant) {
					t.Fatalf("expected output to not contain %q\noutput:\n%s", notWant, res.output)
				}
			}
		})
	}
}

func runCLI(t *testing.T, repoRoot string, args []string, env map[string]string) cliRunResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmdArgs := append([]string{"run", "./cmd/beatcut"}, args...)
	cmd := exec.CommandContext(ctx, "go", cmdArgs...)
	cmd.Dir = repoRoot
	cmd.Env = mergeEnv(
		os.Environ(),
		map[string]string{
			"NO_COLOR": "1",
			"TERM":     "dumb",
		},
		env,
	)

	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("command timed out after %s: go %s", cliTimeout, strings.Join(cmdArgs, " "))
	}

	res := cliRunResult{output: string(out)}
	if err == nil {
		res.exitCode = 0
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res
	}

	t.Fatalf("run command: %v\noutput:\n%s", err, string(out))
	return cliRunResult{}
}

func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}

	for _, set := range overrides {
		for k, v := range set {
			env[k] = v
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()

	repoRoot, err := findRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return repoRoot
}

func staticArgs(args ...string) func(t *testing.T, _ string) []string {
	clone := append([]string(nil), args...)
	return func(t *testing.T, _ string) []string {
		t.Helper()
		return append([]string(nil), clone...)
	}
}
