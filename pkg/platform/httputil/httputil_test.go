package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "organmatch/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("stale match maps to conflict with description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeStaleMatch, "donor no longer registered"))

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "stale_match" {
			t.Fatalf("expected error code stale_match, got %q", body["error"])
		}
		if body["error_description"] != "donor no longer registered" {
			t.Fatalf("unexpected description %q", body["error_description"])
		}
	})

	t.Run("uncoded errors are internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, http.ErrHandlerTimeout)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Notes string `json:"notes"`
	}

	t.Run("empty body decodes to zero value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		v, err := DecodeJSON[payload](r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Notes != "" {
			t.Fatalf("expected empty notes")
		}
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"note":"x"}`))
		_, err := DecodeJSON[payload](r)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad request, got %v", err)
		}
	})
}
