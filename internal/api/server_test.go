package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/jobtrack/internal/classifier"
	"github.com/pbaille/jobtrack/internal/domain"
	"github.com/pbaille/jobtrack/internal/logger"
	"github.com/pbaille/jobtrack/internal/store"
	"github.com/pbaille/jobtrack/internal/tracker"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	srv *httptest.Server
	mem *store.Memory
	tr  *tracker.Tracker
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	mem := store.NewMemory()
	n := 0
	v := domain.NewValidator()
	tr := tracker.New(store.New(mem, "job-hunt-tracker"),
		tracker.WithClock(func() time.Time { return fixedNow }),
		tracker.WithIDGenerator(func(k domain.Kind) string {
			n++
			return fmt.Sprintf("%s-%d", k.Prefix(), n)
		}),
		tracker.WithValidator(func(rec interface{}) error { return v.Struct(rec) }),
	)
	s := New(tr, ":0", append([]Option{WithLogger(logger.NewTestLogger(t))}, opts...)...)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, mem: mem, tr: tr}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	if resp.StatusCode != http.StatusNoContent && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func validApplication() map[string]interface{} {
	return map[string]interface{}{
		"companyName": "Acme",
		"roleTitle":   "Staff Engineer",
		"workType":    "remote",
		"priority":    "high",
		"status":      "applied",
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestCollection_CreateListGet(t *testing.T) {
	env := newTestEnv(t)

	resp, created := env.do(t, http.MethodPost, "/applications", validApplication())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "app-1", created["id"])
	assert.Equal(t, "2024-06-15T12:00:00Z", created["createdAt"])
	assert.Equal(t, "2024-06-15T12:00:00Z", created["updatedAt"])

	resp, list := env.do(t, http.MethodGet, "/applications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, list["count"])
	apps := list["applications"].([]interface{})
	require.Len(t, apps, 1)
	assert.Equal(t, created, apps[0])

	resp, got := env.do(t, http.MethodGet, "/applications/app-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, got)

	resp, _ = env.do(t, http.MethodGet, "/applications/app-404", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCollection_EmptyListIsArray(t *testing.T) {
	env := newTestEnv(t)
	_, list := env.do(t, http.MethodGet, "/contacts", nil)
	assert.Equal(t, []interface{}{}, list["contacts"])
}

func TestCollection_CreateRejectsInvalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		path string
		body interface{}
	}{
		{"missing required", "/leads", map[string]interface{}{"name": "x"}},
		{"bad enum", "/applications", func() map[string]interface{} {
			b := validApplication()
			b["status"] = "ghosted"
			return b
		}()},
		{"unknown field", "/tasks", map[string]interface{}{"title": "t", "type": "prep", "priority": "low", "color": "red"}},
		{"bad date", "/offers", map[string]interface{}{"applicationId": "app-1", "deadline": "someday"}},
		{"round zero", "/interviews", map[string]interface{}{"applicationId": "app-1", "round": 0, "type": "hr"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}

	doc := env.tr.Snapshot(t.Context())
	assert.Empty(t, doc.Leads)
	assert.Empty(t, doc.Applications)
	assert.Empty(t, doc.Tasks)
}

func TestCollection_Patch(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/applications", validApplication())

	resp, updated := env.do(t, http.MethodPatch, "/applications/app-1", map[string]interface{}{
		"status": "interviewing",
		"id":     "app-999",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "interviewing", updated["status"])
	assert.Equal(t, "app-1", updated["id"])

	resp, _ = env.do(t, http.MethodPatch, "/applications/app-404", map[string]interface{}{"status": "offer"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := env.do(t, http.MethodPatch, "/applications/app-1", map[string]interface{}{"status": "ghosted"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "status")
}

func TestCollection_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mem.FailWrites = errors.New("quota exceeded")

	resp, body := env.do(t, http.MethodPost, "/applications", validApplication())

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["error"], "quota exceeded")
}

func TestInterviewsByApplication(t *testing.T) {
	env := newTestEnv(t)
	for _, appID := range []string{"app-a", "app-b", "app-a"} {
		resp, _ := env.do(t, http.MethodPost, "/interviews", map[string]interface{}{
			"applicationId": appID, "round": 1, "type": "screen",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	_, body := env.do(t, http.MethodGet, "/applications/app-a/interviews", nil)
	ivs := body["interviews"].([]interface{})
	require.Len(t, ivs, 2)
	assert.Equal(t, "interview-1", ivs[0].(map[string]interface{})["id"])
	assert.Equal(t, "interview-3", ivs[1].(map[string]interface{})["id"])
}

func TestTaskRoutes(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/tasks", map[string]interface{}{
		"title": "Send thank-you", "type": "thank-you", "priority": "medium", "dueDate": "2024-06-10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, buckets := env.do(t, http.MethodGet, "/tasks/buckets", nil)
	assert.Len(t, buckets["overdue"], 1)

	resp, snoozed := env.do(t, http.MethodPost, "/tasks/task-1/snooze?days=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2024-06-17", snoozed["dueDate"])

	resp, _ = env.do(t, http.MethodPost, "/tasks/task-1/snooze?days=soon", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, toggled := env.do(t, http.MethodPost, "/tasks/task-1/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, toggled["completed"])

	_, active := env.do(t, http.MethodGet, "/tasks?filter=active", nil)
	assert.EqualValues(t, 0, active["count"])
	_, completed := env.do(t, http.MethodGet, "/tasks?filter=completed", nil)
	assert.EqualValues(t, 1, completed["count"])
	resp, _ = env.do(t, http.MethodGet, "/tasks?filter=archived", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/tasks/task-1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/tasks/task-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardAndViews(t *testing.T) {
	env := newTestEnv(t)
	app := validApplication()
	app["lastFollowUp"] = "2024-05-01"
	env.do(t, http.MethodPost, "/applications", app)
	env.do(t, http.MethodPost, "/offers", map[string]interface{}{"applicationId": "app-1", "deadline": "2024-06-17"})
	env.do(t, http.MethodPost, "/offers", map[string]interface{}{"applicationId": "app-1", "deadline": "2024-06-20"})

	resp, dash := env.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, dash["totalApplications"])
	assert.Len(t, dash["stalledApplications"], 1)
	assert.Len(t, dash["urgentOffers"], 1)

	_, urgent := env.do(t, http.MethodGet, "/offers/urgent", nil)
	assert.Len(t, urgent["offers"], 1)

	_, board := env.do(t, http.MethodGet, "/applications/kanban", nil)
	cols := board["columns"].([]interface{})
	require.Len(t, cols, 5)
	first := cols[0].(map[string]interface{})
	assert.Equal(t, "applied", first["status"])
	assert.Len(t, first["applications"], 1)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/applications", validApplication())
	env.do(t, http.MethodPost, "/leads", map[string]interface{}{
		"name": "n", "roleTitle": "r", "companyName": "c", "status": "new",
	})

	resp, exp := env.do(t, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "job-hunt-backup-2024-06-15.json")
	assert.Len(t, exp["applications"], 1)
	assert.Equal(t, []interface{}{}, exp["offers"])
	assert.Equal(t, "2024-06-15T12:00:00Z", exp["exportDate"])
	assert.NotContains(t, exp, "leads")
}

func TestLeadPreview(t *testing.T) {
	listing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Platform Engineer</title><meta property="og:site_name" content="Globex"></head></html>`))
	}))
	defer listing.Close()
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/leads/preview?url="+listing.URL+"/jobs/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lead := body["lead"].(map[string]interface{})
	assert.Equal(t, "Platform Engineer", lead["roleTitle"])
	assert.Equal(t, "Globex", lead["companyName"])
	assert.Equal(t, listing.URL+"/jobs/1", lead["listingUrl"])

	resp, _ = env.do(t, http.MethodGet, "/leads/preview", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLeadPreview_JobBoard(t *testing.T) {
	board := `<html><head><title>Senior Backend Engineer at Acme | Greenhouse</title>` +
		`<meta property="og:site_name" content="Greenhouse"></head>` +
		`<body><p>Acme is hiring a backend engineer.</p></body></html>`
	listing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(board))
	}))
	defer listing.Close()

	t.Run("title heuristic", func(t *testing.T) {
		env := newTestEnv(t)
		resp, body := env.do(t, http.MethodGet, "/leads/preview?url="+listing.URL, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		lead := body["lead"].(map[string]interface{})
		assert.Equal(t, "Senior Backend Engineer", lead["roleTitle"])
		assert.Equal(t, "Acme", lead["companyName"])
		assert.Equal(t, "Senior Backend Engineer at Acme", lead["name"])
	})

	t.Run("classifier", func(t *testing.T) {
		model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"content":[{"type":"text","text":"{\"roleTitle\":\"Backend Engineer, Payments\",\"companyName\":\"Acme Corp\"}"}]}`))
		}))
		defer model.Close()
		t.Setenv("ANTHROPIC_API_KEY", "test-key")
		t.Setenv("ANTHROPIC_BASE_URL", model.URL)
		c, err := classifier.New()
		require.NoError(t, err)

		env := newTestEnv(t, WithClassifier(c))
		resp, body := env.do(t, http.MethodGet, "/leads/preview?url="+listing.URL, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		lead := body["lead"].(map[string]interface{})
		assert.Equal(t, "Backend Engineer, Payments", lead["roleTitle"])
		assert.Equal(t, "Acme Corp", lead["companyName"])
	})
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodOptions, "/applications", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/health", nil)

	resp, err := http.Get(env.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
