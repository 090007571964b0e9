package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hqzhou/textreflow/internal/config"
	"github.com/hqzhou/textreflow/internal/pipeline"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:         testAPIKey,
		WorkerCount:    2,
		MaxQueueSize:   8,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
		AddPageHeaders: true,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return NewServer(orch, log, cfg)
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func TestHealth_NoAuthRequired(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"text":"abc"}`)
	s.ServeHTTP(rec, httptest.NewRequest("POST", "/api/reflow", body))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_WrongToken(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/reflow", strings.NewReader(`{"text":"abc"}`))
	req.Header.Set("Authorization", "Bearer wrong")
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestReflow_Sync(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	body := `{"text":"今天天氣\n很好。"}`
	req := authed(httptest.NewRequest("POST", "/api/reflow", strings.NewReader(body)))
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp reflowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text != "今天天氣很好。" {
		t.Errorf("expected merged paragraph, got %q", resp.Text)
	}
}

func TestReflow_CompactOverride(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	body := `{"text":"第一章\n他走了。","options":{"compact":true}}`
	req := authed(httptest.NewRequest("POST", "/api/reflow", strings.NewReader(body)))
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp reflowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text != "第一章\n他走了。" {
		t.Errorf("expected compact join, got %q", resp.Text)
	}
}

func TestReflow_BadBoundaryLevel(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	body := `{"text":"abc","options":{"boundary_level":7}}`
	req := authed(httptest.NewRequest("POST", "/api/reflow", strings.NewReader(body)))
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestReflow_BadTitlePattern(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	body := `{"text":"abc","options":{"title_pattern":"(unclosed"}}`
	req := authed(httptest.NewRequest("POST", "/api/reflow", strings.NewReader(body)))
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(content))
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/convert", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return authed(req)
}

func pollResult(t *testing.T, s *Server, jobID string) string {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("job %s did not complete", jobID)
		case <-time.After(10 * time.Millisecond):
		}
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, authed(httptest.NewRequest("GET", "/api/convert/"+jobID+"/status", nil)))
		var snap pipeline.JobSnapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		switch snap.Status {
		case pipeline.StatusCompleted:
			rec = httptest.NewRecorder()
			s.ServeHTTP(rec, authed(httptest.NewRequest("GET", "/api/convert/"+jobID+"/result", nil)))
			if rec.Code != http.StatusOK {
				t.Fatalf("result fetch: %d %s", rec.Code, rec.Body.String())
			}
			return rec.Body.String()
		case pipeline.StatusFailed, pipeline.StatusCanceled:
			t.Fatalf("job %s ended %s", jobID, snap.Status)
		}
	}
}

func TestConvert_TxtRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "novel.txt", "今天天氣\n很好。", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var accepted struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode accept response: %v", err)
	}
	if accepted.JobID == "" || !strings.Contains(accepted.PollURL, accepted.JobID) {
		t.Fatalf("bad accept response: %+v", accepted)
	}

	got := pollResult(t, s, accepted.JobID)
	if got != "今天天氣很好。" {
		t.Errorf("expected merged paragraph, got %q", got)
	}
}

func TestConvert_UnsupportedExtension(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "photo.png", "binary", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestConvert_FormOverrides(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "novel.txt", "第一章\n他走了。", map[string]string{"compact": "true"}))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID string `json:"job_id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &accepted)

	got := pollResult(t, s, accepted.JobID)
	if got != "第一章\n他走了。" {
		t.Errorf("expected compact output, got %q", got)
	}
}

func TestConvert_BadFormOverride(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "novel.txt", "abc", map[string]string{"boundary_level": "nope"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestConvertStatus_NotFound(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest("GET", "/api/convert/nope/status", nil)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestConvertResult_NotReady(t *testing.T) {
	s := newTestServer(t)

	// Submit directly so we can query before completion is guaranteed;
	// a queued or running job must return 409, a completed one 200.
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "novel.txt", "今天天氣很好。", nil))
	var accepted struct {
		JobID string `json:"job_id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &accepted)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest("GET", "/api/convert/"+accepted.JobID+"/result", nil)))
	if rec.Code != http.StatusOK && rec.Code != http.StatusConflict {
		t.Fatalf("expected 200 or 409, got %d", rec.Code)
	}
}

func TestConvertCancel(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "novel.txt", "今天天氣很好。", nil))
	var accepted struct {
		JobID string `json:"job_id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &accepted)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest("DELETE", "/api/convert/"+accepted.JobID, nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap pipeline.JobSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode cancel response: %v", err)
	}
	switch snap.Status {
	case pipeline.StatusQueued, pipeline.StatusExtracting, pipeline.StatusReflowing,
		pipeline.StatusCompleted, pipeline.StatusCanceled:
	default:
		t.Fatalf("unexpected status after cancel: %q", snap.Status)
	}
}
