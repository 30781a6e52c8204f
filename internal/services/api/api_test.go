package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lectern/internal/platform/config"
	andomain "lectern/internal/services/analysis/domain"
)

func testConf(t *testing.T, url string) config.Conf {
	t.Helper()
	t.Setenv("LECTERN_API_CONTENT_API_URL", url)
	return config.New().Prefix("LECTERN_API_")
}

func TestRemoteFetcherDisabledByDefault(t *testing.T) {
	if _, ok := remoteFetcher(testConf(t, "")); ok {
		t.Fatal("remote fetcher built without CONTENT_API_URL")
	}
}

func TestRemoteFetcherReadsContentAPI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/content/c1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status_code": 200,
			"status":      "ok",
			"data": map[string]any{
				"id":                "c1",
				"title":             "On Hope",
				"category":          "sermon",
				"body":              "full text",
				"processing_status": "pending",
			},
		})
	}))
	defer ts.Close()

	fetch, ok := remoteFetcher(testConf(t, ts.URL))
	if !ok {
		t.Fatal("remote fetcher not built")
	}

	snap, err := fetch.FetchContent(context.Background(), "c1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := andomain.Snapshot{
		ID: "c1", Title: "On Hope", Category: "sermon",
		Body: "full text", ProcessingStatus: "pending",
	}
	if snap.ID != want.ID || snap.Body != want.Body || snap.ProcessingStatus != want.ProcessingStatus {
		t.Fatalf("snapshot = %+v, want %+v", snap, want)
	}
}
