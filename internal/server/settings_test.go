package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadSlipStoresObject(t *testing.T) {
	s, engine := newTestServer(&fakeDonationService{}, &fakeSettingsService{}, &fakeAuditService{})
	store := s.store.(*fakeObjectStore)

	body, contentType := multipartUpload(t, "file", "slip.jpg", []byte("fake image bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/donations/slip", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if !strings.Contains(resp.URL, "/slips/") || !strings.HasSuffix(resp.URL, ".jpg") {
		t.Errorf("url = %q", resp.URL)
	}
	if len(store.puts) != 1 {
		t.Errorf("stored objects = %d", len(store.puts))
	}
}

func TestUploadSignatureRequiresAuth(t *testing.T) {
	_, engine := newTestServer(&fakeDonationService{}, &fakeSettingsService{}, &fakeAuditService{})

	body, contentType := multipartUpload(t, "file", "sig.png", []byte("png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/settings/signature", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated upload status = %d", rec.Code)
	}
}

func TestUploadSignatureStoresObject(t *testing.T) {
	s, engine := newTestServer(&fakeDonationService{}, &fakeSettingsService{}, &fakeAuditService{})
	store := s.store.(*fakeObjectStore)

	body, contentType := multipartUpload(t, "file", "sig.png", []byte("png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/settings/signature", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.URL, "/signatures/") {
		t.Errorf("url = %q", resp.URL)
	}
	if len(store.puts) != 1 {
		t.Errorf("stored objects = %d", len(store.puts))
	}
}

func TestUploadMissingFile(t *testing.T) {
	_, engine := newTestServer(&fakeDonationService{}, &fakeSettingsService{}, &fakeAuditService{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/donations/slip", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}
