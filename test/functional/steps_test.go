package functional

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// aCleanVersionsEnvironment is a no-op because the Before hook already sets up
// the environment. This step exists so feature files read naturally.
func aCleanVersionsEnvironment(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

func startMirror(state *testState, name string, h http.Handler) {
	server := httptest.NewServer(h)
	state.servers = append(state.servers, server)
	state.mirrors[name] = server.URL + "/versions.toml"
}

func aMirrorServing(ctx context.Context, name string, body *godog.DocString) (context.Context, error) {
	state := getState(ctx)
	content := body.Content + "\n"
	startMirror(state, name, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(content))
	}))
	return ctx, nil
}

func aMirrorThatIsDown(ctx context.Context, name string) (context.Context, error) {
	state := getState(ctx)
	server := httptest.NewServer(http.NotFoundHandler())
	state.mirrors[name] = server.URL + "/versions.toml"
	server.Close()
	return ctx, nil
}

func aMirrorThatRespondsWithStatus(ctx context.Context, name string, status int) (context.Context, error) {
	state := getState(ctx)
	startMirror(state, name, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	return ctx, nil
}

func aMirrorThatNeverAnswers(ctx context.Context, name string) (context.Context, error) {
	state := getState(ctx)
	startMirror(state, name, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(30 * time.Second):
		}
	}))
	return ctx, nil
}

func theEnvironmentVariableIs(ctx context.Context, name, value string) (context.Context, error) {
	state := getState(ctx)
	state.env = append(state.env, name+"="+state.expand(value))
	return ctx, nil
}

// expand replaces {name} with the URL of the scenario mirror called name.
func (s *testState) expand(text string) string {
	for name, url := range s.mirrors {
		text = strings.ReplaceAll(text, "{"+name+"}", url)
	}
	return text
}

// iRun executes a command string, replacing "versions" with the test binary
// path and {name} with mirror URLs.
func iRun(ctx context.Context, command string) (context.Context, error) {
	state := getState(ctx)
	if state == nil {
		return ctx, fmt.Errorf("no test state; is the Before hook running?")
	}

	args := strings.Fields(state.expand(command))
	if len(args) > 0 && args[0] == "versions" {
		args[0] = state.binPath
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = state.homeDir

	// The scenario controls every setting; nothing leaks in from the host.
	env := []string{"PATH=" + os.Getenv("PATH"), "HOME=" + state.homeDir, "VERSIONS_HOME=" + state.homeDir}
	cmd.Env = append(env, state.env...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	state.stdout = stdout.String()
	state.stderr = stderr.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			state.exitCode = exitErr.ExitCode()
		} else {
			return ctx, fmt.Errorf("command execution failed: %w", err)
		}
	} else {
		state.exitCode = 0
	}

	return ctx, nil
}

func theExitCodeIs(ctx context.Context, expected int) error {
	state := getState(ctx)
	if state.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s",
			expected, state.exitCode, state.stdout, state.stderr)
	}
	return nil
}

func theOutputIs(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.TrimRight(state.stdout, "\n") != text {
		return fmt.Errorf("expected stdout %q, got %q", text, state.stdout)
	}
	return nil
}

func theOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stdout, state.expand(text)) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stdout, state.expand(text)) {
		return fmt.Errorf("expected stdout not to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theErrorOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stderr, state.expand(text)) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theErrorOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stderr, state.expand(text)) {
		return fmt.Errorf("expected stderr not to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theFileExists(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.homeDir, path)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("expected file %q to exist", fullPath)
	}
	return nil
}
