package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/build"
	"github.com/aretw0/espalier/pkg/session"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	mgr := session.NewManager(func() build.Value {
		return build.NewRecord("greeting", "",
			build.Field{Name: "who", Value: build.NewString(build.CellConfig[string]{})},
		)
	})
	return NewHandler(mgr)
}

func doJSON(t *testing.T, h http.Handler, method, url string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	var created SessionResponse
	rec := doJSON(t, h, http.MethodPost, "/sessions/", nil, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestSessionWalkthrough(t *testing.T) {
	h := newTestHandler(t)
	id := createSession(t, h)

	var resp ChooseResponse
	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/choose",
		ChooseRequest{Choice: strPtr("who")}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Options)
	assert.True(t, resp.Options.TextInput)

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/choose",
		ChooseRequest{Text: strPtr("world")}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Options)
	assert.True(t, resp.Options.HasChoice("__finalize"))

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/choose",
		ChooseRequest{Choice: strPtr("__finalize")}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Done)
	assert.Equal(t, map[string]any{"who": "world"}, resp.Value)

	// Finishing retires the session.
	rec = doJSON(t, h, http.MethodGet, "/sessions/"+id+"/options", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRejectedInputKeepsSession(t *testing.T) {
	h := newTestHandler(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/choose",
		ChooseRequest{Choice: strPtr("nope")}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var opts struct {
		Prompt string `json:"prompt"`
	}
	rec = doJSON(t, h, http.MethodGet, "/sessions/"+id+"/options", nil, &opts)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Select the field to edit", opts.Prompt)
}

func TestChooseBodyValidation(t *testing.T) {
	h := newTestHandler(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/choose", ChooseRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/choose",
		ChooseRequest{Choice: strPtr("who"), Text: strPtr("x")}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownSession(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/sessions/ghost/tree", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, h, http.MethodDelete, "/sessions/ghost/", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTreeEndpoint(t *testing.T) {
	h := newTestHandler(t)
	id := createSession(t, h)

	var tree struct {
		Composite bool `json:"composite"`
		Children  []struct {
			Name string `json:"name"`
		} `json:"children"`
	}
	rec := doJSON(t, h, http.MethodGet, "/sessions/"+id+"/tree", nil, &tree)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, tree.Composite)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "who", tree.Children[0].Name)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)
	createSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "espalier_sessions_created_total 1"))
	assert.True(t, strings.Contains(body, "espalier_active_sessions 1"))
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestHandler(t)

	var health map[string]string
	rec := doJSON(t, h, http.MethodGet, "/health", nil, &health)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", health["status"])

	var info map[string]string
	rec = doJSON(t, h, http.MethodGet, "/info", nil, &info)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "espalier-http", info["app"])
	assert.NotEmpty(t, info["version"])
}

func strPtr(s string) *string { return &s }
