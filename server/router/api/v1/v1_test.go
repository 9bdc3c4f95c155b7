package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/require"

	"github.com/nikoo-app/assistant/plugin/llm"
	"github.com/nikoo-app/assistant/server/profile"
	"github.com/nikoo-app/assistant/store"
	"github.com/nikoo-app/assistant/store/db/sqlite"
)

// scriptedCompleter replies deterministically, failing on turns whose final
// content matches a scripted key.
type scriptedCompleter struct {
	mu     sync.Mutex
	reply  string
	failOn map[string]error
	calls  int
}

func (s *scriptedCompleter) Complete(_ context.Context, turns []llm.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(turns) == 0 {
		return s.reply, nil
	}
	if err, ok := s.failOn[turns[len(turns)-1].Content]; ok {
		return "", err
	}
	return s.reply, nil
}

func (s *scriptedCompleter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestServer(t *testing.T, completer llm.Completer, apiKey string) (*APIV1Service, *httptest.Server) {
	t.Helper()
	driver, err := sqlite.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	require.NoError(t, driver.Migrate(context.Background()))

	p := &profile.Profile{
		Driver:           "sqlite",
		AIAPIKey:         apiKey,
		AIModel:          "test-model",
		CompactThreshold: 400_000,
		KeepRecent:       10,
	}
	svc := NewAPIV1Service(p, store.New(driver), completer)
	e := echo.New()
	svc.RegisterRoutes(e)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return svc, srv
}

func postJSON(t *testing.T, url string, body any) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return out
}
