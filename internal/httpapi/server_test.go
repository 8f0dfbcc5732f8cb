package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ycmd-go/internal/dispatch"
	"github.com/standardbeagle/ycmd-go/internal/idcompleter"
	"github.com/standardbeagle/ycmd-go/internal/identifier"
)

func newTestServer() *Server {
	regexes := identifier.NewRegistry()
	ids := idcompleter.NewDatabase(regexes)
	d := dispatch.NewDispatcher(ids, nil, regexes, 0, 0)
	return New(d, func() {})
}

func doJSON(t *testing.T, mux http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleCompletionsReturnsIdentifierMatches(t *testing.T) {
	s := newTestServer()
	mux := s.Mux()

	// Seed the identifier database the way a FileReadyToParse event would.
	doJSON(t, mux, http.MethodPost, "/event_notification", map[string]interface{}{
		"line_num": 1, "column_num": 1, "filepath": "/a.go",
		"file_data": map[string]interface{}{
			"/a.go": map[string]interface{}{"filetypes": []string{"go"}, "contents": "func fooBar() { var fooBaz int }"},
		},
		"event_name": "FileReadyToParse",
	})

	rec := doJSON(t, mux, http.MethodPost, "/completions", map[string]interface{}{
		"line_num": 1, "column_num": 7, "filepath": "/a.go",
		"file_data": map[string]interface{}{
			"/a.go": map[string]interface{}{"filetypes": []string{"go"}, "contents": "fooBaz"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Completions []struct {
			InsertionText string `json:"insertion_text"`
		} `json:"completions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Completions, 1)
	assert.Equal(t, "fooBaz", resp.Completions[0].InsertionText)
}

func TestHandleCompletionsRejectsFilepathMissingFromFileData(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s.Mux(), http.MethodPost, "/completions", map[string]interface{}{
		"line_num": 1, "column_num": 1, "filepath": "/a.go",
		"file_data": map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RequestError", body["exception"])
}

func TestHandleFilterAndSortPlainStrings(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s.Mux(), http.MethodPost, "/filter_and_sort_candidates", map[string]interface{}{
		"candidates": []string{"foo_bar", "foobar", "fo", "barfoo"},
		"query":      "fb",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"foo_bar", "foobar"}, got)
}

func TestHandleFilterAndSortObjectsWithSortProperty(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s.Mux(), http.MethodPost, "/filter_and_sort_candidates", map[string]interface{}{
		"candidates": []map[string]string{
			{"word": "foo_bar"},
			{"word": "zzz"},
		},
		"sort_property": "word",
		"query":         "fb",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "foo_bar", got[0]["word"])
}

func TestHandleFilterAndSortObjectWithoutSortPropertyIsBadRequest(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s.Mux(), http.MethodPost, "/filter_and_sort_candidates", map[string]interface{}{
		"candidates": []map[string]string{{"word": "foo_bar"}},
		"query":      "fb",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleShutdownInvokesCallback(t *testing.T) {
	called := make(chan struct{})
	regexes := identifier.NewRegistry()
	ids := idcompleter.NewDatabase(regexes)
	d := dispatch.NewDispatcher(ids, nil, regexes, 0, 0)
	s := New(d, func() { close(called) })

	rec := doJSON(t, s.Mux(), http.MethodPost, "/shutdown", map[string]interface{}{})
	assert.Equal(t, http.StatusOK, rec.Code)
	<-called
}
