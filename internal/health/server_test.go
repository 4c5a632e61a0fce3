package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleHealth(t *testing.T) {
	s := New("0")
	s.SetRunning(true)
	s.SetLastDeliveryOK(false)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp["running"] {
		t.Error("running should be true")
	}
	if resp["last_delivery_ok"] {
		t.Error("last_delivery_ok should be false")
	}

	s.SetLastDeliveryOK(true)
	rec = httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp["last_delivery_ok"] {
		t.Error("last_delivery_ok should flip to true")
	}
}
