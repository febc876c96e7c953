// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nuvexa-tui/internal/config"
	"github.com/jeranaias/nuvexa-tui/internal/devserver"
	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/store"
)

// isolateEnv points every config and log path at a temp dir and clears the
// environment overrides.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("NUVEXA_HOME", home)
	for _, key := range []string{
		"NUVEXA_API_URL", "VITE_API_URL", "NUVEXA_MODE", "NUVEXA_THEME",
		"NUVEXA_LOG_LEVEL", "NUVEXA_LOG_FILE", "NUVEXA_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	config.ResetGlobalForTesting()
	return home
}

// startBackend runs the development backend for the test.
func startBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(devserver.New(config.ServerConfig{}).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// deadBackend returns the URL of a server that is no longer listening.
func deadBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()
	return url
}

type testApp struct {
	*App
	out *bytes.Buffer
	err *bytes.Buffer
}

func newTestApp(t *testing.T, stdin string) *testApp {
	t.Helper()
	isolateEnv(t)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	app := &App{
		In:          strings.NewReader(stdin),
		Out:         out,
		Err:         errOut,
		interactive: func() bool { return false },
	}
	return &testApp{App: app, out: out, err: errOut}
}

func (ta *testApp) run(args ...string) error {
	cmd := NewRootCommand(ta.App)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func decodeJSON(t *testing.T, data []byte) (JSONResponse, map[string]any) {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	payload, _ := resp.Data.(map[string]any)
	return resp, payload
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_PrintsReply(t *testing.T) {
	ta := newTestApp(t, "")
	url := startBackend(t)

	require.NoError(t, ta.run("--api-url", url, "ask", "hello", "there"))
	assert.Contains(t, ta.out.String(), "> hello there")
}

func TestAsk_ShoppingPrintsProducts(t *testing.T) {
	ta := newTestApp(t, "")
	url := startBackend(t)

	require.NoError(t, ta.run("--api-url", url, "ask", "--mode", "shopping", "find me a laptop"))
	out := ta.out.String()
	assert.Contains(t, out, `- MacBook Air M2 13" | $1199.00 | ⭐ 4.8 | Apple Store`)
	assert.Contains(t, out, "- Dell XPS 13 Plus | $1299.00")
}

func TestAsk_ReadsStdin(t *testing.T) {
	ta := newTestApp(t, "  from a pipe \n")
	url := startBackend(t)

	require.NoError(t, ta.run("--api-url", url, "ask", "-"))
	assert.Contains(t, ta.out.String(), "> from a pipe")
}

func TestAsk_BlankMessage(t *testing.T) {
	ta := newTestApp(t, "   ")
	url := startBackend(t)

	err := ta.run("--api-url", url, "ask", "-")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestAsk_UnknownMode(t *testing.T) {
	ta := newTestApp(t, "")
	url := startBackend(t)

	err := ta.run("--api-url", url, "ask", "--mode", "travel", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown mode "travel"`)
	assert.Contains(t, err.Error(), "assistant, shopping")
}

func TestAsk_BackendDown(t *testing.T) {
	ta := newTestApp(t, "")

	err := ta.run("--api-url", deadBackend(t), "ask", "hi")
	require.Error(t, err)
	assert.False(t, IsReported(err))
	assert.Empty(t, ta.out.String())
}

func TestAsk_JSON(t *testing.T) {
	ta := newTestApp(t, "")
	url := startBackend(t)

	require.NoError(t, ta.run("--api-url", url, "--json", "ask", "-m", "shopping", "camera"))
	resp, data := decodeJSON(t, ta.out.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "ask", resp.Command)
	assert.Equal(t, "shopping", data["mode"])
	products, _ := data["products"].([]any)
	assert.Len(t, products, 1)
}

func TestAsk_JSONErrorIsReported(t *testing.T) {
	ta := newTestApp(t, "")

	err := ta.run("--api-url", deadBackend(t), "--json", "ask", "hi")
	require.Error(t, err)
	assert.True(t, IsReported(err))

	resp, _ := decodeJSON(t, ta.out.Bytes())
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.NotEmpty(t, *resp.Error)
}

// =============================================================================
// SHOP / MODES / HEALTH
// =============================================================================

func TestShop(t *testing.T) {
	ta := newTestApp(t, "")
	url := startBackend(t)

	require.NoError(t, ta.run("--api-url", url, "shop", "laptop"))
	out := ta.out.String()
	assert.Contains(t, out, `2 products for "laptop"`)
	assert.Contains(t, out, "Dell XPS 13 Plus")
}

func TestShop_NoResults(t *testing.T) {
	ta := newTestApp(t, "")
	url := startBackend(t)

	require.NoError(t, ta.run("--api-url", url, "shop", "zeppelin"))
	assert.Contains(t, ta.out.String(), `No products found for "zeppelin"`)
}

func TestShop_JSON(t *testing.T) {
	ta := newTestApp(t, "")
	url := startBackend(t)

	require.NoError(t, ta.run("--api-url", url, "--json", "shop", "zeppelin"))
	resp, data := decodeJSON(t, ta.out.Bytes())
	assert.True(t, resp.Success)
	assert.EqualValues(t, 0, data["count"])
	assert.NotNil(t, data["products"])
}

func TestModes(t *testing.T) {
	ta := newTestApp(t, "")
	url := startBackend(t)

	require.NoError(t, ta.run("--api-url", url, "modes"))
	out := ta.out.String()
	assert.Contains(t, out, "*")
	assert.Contains(t, out, "Assistant")
	assert.Contains(t, out, "Find and compare products")
	assert.Empty(t, ta.err.String())
}

func TestModes_FallbackWhenDown(t *testing.T) {
	ta := newTestApp(t, "")

	require.NoError(t, ta.run("--api-url", deadBackend(t), "--json", "modes"))
	resp, data := decodeJSON(t, ta.out.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, true, data["fallback"])
	modes, _ := data["modes"].([]any)
	assert.Len(t, modes, len(model.FallbackModes()))
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t, "")
	url := startBackend(t)

	require.NoError(t, ta.run("--api-url", url, "health"))
	out := ta.out.String()
	assert.Contains(t, out, "healthy")
	assert.Contains(t, out, devserver.DefaultVersion)
}

func TestHealth_DownExitsWithError(t *testing.T) {
	ta := newTestApp(t, "")
	url := deadBackend(t)

	err := ta.run("--api-url", url, "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unreachable at "+url)
}

// =============================================================================
// CONFIG / VERSION
// =============================================================================

func TestConfig_SetGetPath(t *testing.T) {
	ta := newTestApp(t, "")
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, ta.run("--config", path, "config", "path"))
	assert.Equal(t, path+"\n", ta.out.String())

	ta.out.Reset()
	require.NoError(t, ta.run("--config", path, "config", "set", "ui.theme", "dark"))
	assert.FileExists(t, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	ta.out.Reset()
	require.NoError(t, ta.run("--config", path, "config", "get", "ui.theme"))
	assert.Equal(t, "dark\n", ta.out.String())
}

func TestConfig_SetRejectsInvalid(t *testing.T) {
	ta := newTestApp(t, "")
	path := filepath.Join(t.TempDir(), "config.toml")

	assert.Error(t, ta.run("--config", path, "config", "set", "ui.word_wrap", "wide"))
	assert.Error(t, ta.run("--config", path, "config", "set", "no.such.key", "1"))
	assert.NoFileExists(t, path)
}

func TestConfig_ShowAppliesFlags(t *testing.T) {
	ta := newTestApp(t, "")

	require.NoError(t, ta.run("--api-url", "http://example.test:9000", "config", "show"))
	var cfg config.Config
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &cfg))
	assert.Equal(t, "http://example.test:9000", cfg.API.BaseURL)
}

func TestVersion(t *testing.T) {
	ta := newTestApp(t, "")

	require.NoError(t, ta.run("version"))
	assert.True(t, strings.HasPrefix(ta.out.String(), "nuvexa "+Version))
}

func TestRoot_RequiresTerminal(t *testing.T) {
	ta := newTestApp(t, "")

	err := ta.run()
	var ttyErr *TTYRequiredError
	assert.True(t, errors.As(err, &ttyErr))
}

// =============================================================================
// REPL
// =============================================================================

// scriptReader feeds fixed lines to the REPL, then io.EOF.
type scriptReader struct {
	lines   []string
	prompts []string
	closed  bool
}

func (s *scriptReader) ReadInput(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptReader) Close() { s.closed = true }

func newTestREPL(t *testing.T) (*repl, *testApp, *[]string) {
	t.Helper()
	ta := newTestApp(t, "")
	cfg := config.Default()
	cfg.SetDefaults()
	cfg.API.BaseURL = startBackend(t)
	cfg.Export.Dir = t.TempDir()
	ta.cfg = cfg

	r := ta.newREPL("")
	copied := &[]string{}
	r.clipboard = func(s string) error {
		*copied = append(*copied, s)
		return nil
	}
	r.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r, ta, copied
}

func TestREPL_ConversationAndCommands(t *testing.T) {
	r, ta, copied := newTestREPL(t)
	in := &scriptReader{lines: []string{
		"hello",
		"/mode shopping",
		"/shop laptop",
		"/copy",
		"/export md",
		"/bogus",
	}}

	require.NoError(t, r.run(context.Background(), in))
	assert.True(t, in.closed)

	out := ta.out.String()
	assert.Contains(t, out, "> hello")
	assert.Contains(t, out, "Mode: 🛒 Shopping")
	assert.Contains(t, out, "Dell XPS 13 Plus")
	assert.Contains(t, out, "Saved ")
	assert.Contains(t, ta.err.String(), "Unknown command /bogus")

	require.Len(t, *copied, 1)
	assert.Contains(t, (*copied)[0], "laptop")

	assert.Contains(t, in.prompts[0], "assistant>")
	assert.Contains(t, in.prompts[len(in.prompts)-1], "shopping>")

	entries, err := os.ReadDir(r.cfg.Export.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".md"))

	snap := r.store.Snapshot()
	assert.Len(t, snap.History, 4)
}

func TestREPL_QuitWords(t *testing.T) {
	for _, word := range []string{"exit", "QUIT", "/quit", "/q"} {
		t.Run(word, func(t *testing.T) {
			r, _, _ := newTestREPL(t)
			in := &scriptReader{lines: []string{word, "never sent"}}

			require.NoError(t, r.run(context.Background(), in))
			assert.Len(t, in.lines, 1)
			assert.True(t, r.store.Snapshot().IsEmpty())
		})
	}
}

func TestREPL_ErrorsAndGuards(t *testing.T) {
	r, ta, copied := newTestREPL(t)

	assert.False(t, r.handleLine(context.Background(), "   "))
	assert.False(t, r.handleLine(context.Background(), "/copy"))
	assert.False(t, r.handleLine(context.Background(), "/export"))
	assert.False(t, r.handleLine(context.Background(), "/mode travel"))
	assert.False(t, r.handleLine(context.Background(), "/shop"))

	errOut := ta.err.String()
	assert.Contains(t, errOut, "No reply to copy")
	assert.Contains(t, errOut, "Nothing to export yet")
	assert.Contains(t, errOut, `Unknown mode "travel"`)
	assert.Contains(t, errOut, "Usage: /shop <query>")
	assert.Empty(t, *copied)
	assert.True(t, r.store.Snapshot().IsEmpty())
}

func TestREPL_BackendFailureShowsError(t *testing.T) {
	r, ta, _ := newTestREPL(t)
	r.store = ta.newStoreAt(deadBackend(t))

	assert.False(t, r.handleLine(context.Background(), "hi"))
	assert.Contains(t, ta.err.String(), "[Error]")

	snap := r.store.Snapshot()
	require.Len(t, snap.History, 2)
	assert.True(t, snap.HasError())
}

func TestREPL_Health(t *testing.T) {
	r, ta, _ := newTestREPL(t)

	r.handleLine(context.Background(), "/health")
	assert.Contains(t, ta.out.String(), "Backend healthy · v"+devserver.DefaultVersion)
}

// newStoreAt returns a store talking to url.
func (ta *testApp) newStoreAt(url string) *store.Store {
	ta.cfg.API.BaseURL = url
	return ta.newStore("")
}
