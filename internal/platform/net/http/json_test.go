package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type inDTO struct {
	N int `json:"n"`
}

func TestJSONHandler_Success(t *testing.T) {
	t.Parallel()

	h := JSONHandler[inDTO](func(_ *http.Request, in inDTO) (any, error) {
		return map[string]int{"doubled": in.N * 2}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"n":7}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"doubled":14`) {
		t.Fatalf("body %q missing doubled result", rr.Body.String())
	}
}

func TestJSONHandler_BindError(t *testing.T) {
	t.Parallel()

	h := JSONHandler[inDTO](func(_ *http.Request, _ inDTO) (any, error) {
		t.Fatal("handler should not be called on bind error")
		return nil, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h(rr, req)

	if rr.Code == http.StatusOK {
		t.Fatalf("expected non-200 on bind error, got %d", rr.Code)
	}
}

func TestJSONHandlerNoBody(t *testing.T) {
	t.Parallel()

	h := JSONHandlerNoBody(func(_ *http.Request) (any, error) {
		return map[string]bool{"ok": true}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	h(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok":true`) {
		t.Fatalf("body %q missing payload", rr.Body.String())
	}
}
