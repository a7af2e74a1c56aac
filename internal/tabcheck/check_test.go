package tabcheck_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nikbrunner/tabscope/internal/model"
	"github.com/nikbrunner/tabscope/internal/tabcheck"
	"go.uber.org/goleak"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusGone) })
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func tab(id, url string) model.Tab {
	return model.Tab{ID: id, ContextID: "profile_default", URL: url, Title: id}
}

func TestCheck_Statuses(t *testing.T) {
	srv := newServer(t)
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tabs := []model.Tab{
		tab("ok", srv.URL+"/ok"),
		tab("missing", srv.URL+"/missing"),
		tab("gone", srv.URL+"/gone"),
		tab("broken", srv.URL+"/broken"),
		tab("file", "file:///etc/hosts"),
		tab("down", closedURL),
	}

	var progress atomic.Int32
	results := tabcheck.Check(context.Background(), tabs, tabcheck.Params{
		Concurrency: 3,
		Timeout:     5 * time.Second,
		OnProgress:  func(completed, total int) { progress.Add(1) },
	})

	assert.Assert(t, is.Len(results, len(tabs)))
	want := []tabcheck.Status{
		tabcheck.Healthy,
		tabcheck.Dead,
		tabcheck.Dead,
		tabcheck.Unreachable,
		tabcheck.Skipped,
		tabcheck.Unreachable,
	}
	for i, r := range results {
		assert.Equal(t, r.Tab.ID, tabs[i].ID)
		assert.Equal(t, r.Status, want[i], "tab %s", r.Tab.ID)
	}
	assert.Equal(t, results[3].Error, "Internal Server Error")
	assert.Equal(t, results[5].Error, "Connection refused")
	assert.Equal(t, int(progress.Load()), len(tabs))

	assert.DeepEqual(t, tabcheck.DeadTabIDs(results), []string{"missing", "gone"})
}

func TestCheck_ExcludedDomainIsNotDead(t *testing.T) {
	srv := newServer(t)

	results := tabcheck.Check(context.Background(), []model.Tab{tab("private", srv.URL+"/missing")}, tabcheck.Params{
		Concurrency:    1,
		Timeout:        5 * time.Second,
		ExcludeDomains: []string{"127.0.0.1"},
	})

	assert.Equal(t, results[0].Status, tabcheck.Unreachable)
	assert.Equal(t, results[0].Error, "Possibly private (auth required)")
}

func TestCheck_Empty(t *testing.T) {
	assert.Assert(t, is.Nil(tabcheck.Check(context.Background(), nil, tabcheck.Params{})))
}
