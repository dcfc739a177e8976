package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"test","value":123}`))
		var out payload
		if err := ReadJSON(req, &out, 1024); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Name != "test" || out.Value != 123 {
			t.Errorf("unexpected decode: %+v", out)
		}
	})

	t.Run("empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("  "))
		var out payload
		if err := ReadJSON(req, &out, 1024); !errors.Is(err, ErrEmptyBody) {
			t.Errorf("expected ErrEmptyBody, got %v", err)
		}
	})

	t.Run("too_large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"0123456789"}`))
		var out payload
		if err := ReadJSON(req, &out, 8); !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("expected ErrBodyTooLarge, got %v", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{invalid json}`))
		var out payload
		if err := ReadJSON(req, &out, 1024); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}

func TestWriteErrorJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	if err := WriteErrorJSON(rr, http.StatusBadRequest, " INVALID_REQUEST ", "bad"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != ContentTypeJSON {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), `"error":"INVALID_REQUEST"`) {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}
