package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "lectern/internal/platform/errors"
	lnet "lectern/internal/platform/net"
	phttp "lectern/internal/platform/net/http"
)

// helper to build a request with a request_id in context
func reqWithReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req = req.WithContext(lnet.WithRequest(req.Context(), rid))
	return req
}

func TestJSONHelper(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("JSON status: expected 418, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content-type set")
	}
}

func TestRespondOKCreatedNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	req := reqWithReqID("GET", "/x", "rid-1")
	phttp.RespondOK(rec, req, map[string]string{"a": "b"})
	if rec.Code != http.StatusOK {
		t.Fatalf("RespondOK code: %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("bad envelope: %+v", env)
	}

	recC := httptest.NewRecorder()
	phttp.RespondCreated(recC, req, map[string]int{"id": 7})
	if recC.Code != http.StatusCreated {
		t.Fatalf("RespondCreated code: %d", recC.Code)
	}

	// NoContent should not write a JSON body
	recN := httptest.NewRecorder()
	phttp.RespondNoContent(recN, req)
	if recN.Code != http.StatusNoContent {
		t.Fatalf("RespondNoContent code: %d", recN.Code)
	}
	if recN.Body.Len() != 0 {
		t.Fatalf("RespondNoContent should have empty body, got %q", recN.Body.String())
	}
}

func TestRespondErrorMapsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := reqWithReqID("GET", "/missing", "rid-3")
	phttp.RespondError(rec, req, perr.NotFoundf("item %q not found", "abc"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("RespondError code: %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Code != perr.ErrorCodeNotFound || env.Error == "" || env.RequestID != "rid-3" {
		t.Fatalf("bad error envelope: %+v", env)
	}
}

func TestHandleReturnStyle(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Created(map[string]string{"id": "new"})
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("POST", "/y", "rid-4"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Handle created code: %d", rec.Code)
	}

	hErr := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Error(perr.Timeoutf("gave up"))
	})
	recE := httptest.NewRecorder()
	hErr(recE, reqWithReqID("GET", "/z", "rid-5"))
	if recE.Code != http.StatusGatewayTimeout {
		t.Fatalf("Handle timeout code: %d", recE.Code)
	}
}

func TestListEnvelope(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.List([]int{1, 2, 3}, 30, 2, 15)
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("GET", "/list", "rid-6"))
	if rec.Code != http.StatusOK {
		t.Fatalf("List code: %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("List data shape: %+v", env.Data)
	}
	page, ok := data["page"].(map[string]any)
	if !ok || page["total"].(float64) != 30 {
		t.Fatalf("List page block: %+v", data["page"])
	}
}
