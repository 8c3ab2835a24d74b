package videogen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testOperationName = "models/veo-3.0-generate-001/operations/op-123"

func newTestClient(t *testing.T, baseURL string, opts Options) *Client {
	t.Helper()
	if opts.Credentials == nil {
		opts.Credentials = StaticCredentials("test-key")
	}
	opts.BaseURL = baseURL
	if opts.PollInterval == 0 {
		opts.PollInterval = 5 * time.Millisecond
	}
	if opts.PollTimeout == 0 {
		opts.PollTimeout = 2 * time.Second
	}
	client, err := NewClient(opts)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func TestSubmitAppliesDefaults(t *testing.T) {
	var captured predictRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Fatalf("unexpected api key header: %q", got)
		}
		if r.URL.Path != "/models/veo-3.0-generate-001:predictLongRunning" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(operation{Name: testOperationName})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{})
	job, err := client.Submit(context.Background(), GenerateRequest{})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if job.Name != testOperationName {
		t.Fatalf("unexpected job name: %s", job.Name)
	}
	if len(captured.Instances) != 1 {
		t.Fatalf("unexpected instances length: %d", len(captured.Instances))
	}
	if captured.Instances[0].Prompt != DefaultPrompt {
		t.Fatalf("prompt not defaulted: %q", captured.Instances[0].Prompt)
	}
	if captured.Instances[0].Image != nil {
		t.Fatalf("image should be omitted when not supplied")
	}
	if captured.Parameters.SampleCount != 1 {
		t.Fatalf("sample count mismatch: %d", captured.Parameters.SampleCount)
	}
	if captured.Parameters.AspectRatio != "16:9" {
		t.Fatalf("aspect ratio not defaulted: %q", captured.Parameters.AspectRatio)
	}
	if captured.Parameters.Resolution != "720p" {
		t.Fatalf("resolution not defaulted: %q", captured.Parameters.Resolution)
	}
}

func TestSubmitEncodesSourceImage(t *testing.T) {
	var captured predictRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(operation{Name: testOperationName})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{})
	_, err := client.Submit(context.Background(), GenerateRequest{
		Prompt:      "make the waves roll",
		Image:       &SourceImage{Data: []byte{0x89, 0x50, 0x4e, 0x47}, MIMEType: "image/png"},
		AspectRatio: AspectPortrait,
		Resolution:  Resolution1080p,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	img := captured.Instances[0].Image
	if img == nil {
		t.Fatal("image missing from payload")
	}
	if img.MimeType != "image/png" {
		t.Fatalf("mime type mismatch: %q", img.MimeType)
	}
	if img.BytesBase64Encoded != "iVBORw==" {
		t.Fatalf("unexpected base64 payload: %q", img.BytesBase64Encoded)
	}
	if captured.Parameters.AspectRatio != "9:16" {
		t.Fatalf("aspect ratio mismatch: %q", captured.Parameters.AspectRatio)
	}
	if captured.Parameters.Resolution != "1080p" {
		t.Fatalf("resolution mismatch: %q", captured.Parameters.Resolution)
	}
}

func TestSubmitWithoutCredential(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the provider without a key")
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{Credentials: StaticCredentials("")})
	if _, err := client.Submit(context.Background(), GenerateRequest{}); !errors.Is(err, ErrCredentialMissing) {
		t.Fatalf("expected ErrCredentialMissing, got %v", err)
	}
}

func TestSubmitRejectsUnsupportedValues(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid request must not reach transport")
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{})
	if _, err := client.Submit(context.Background(), GenerateRequest{AspectRatio: "4:3"}); err == nil {
		t.Fatal("expected error for unsupported aspect ratio")
	}
	if _, err := client.Submit(context.Background(), GenerateRequest{Resolution: "480p"}); err == nil {
		t.Fatal("expected error for unsupported resolution")
	}
}

func TestSubmitRemoteRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(apiErrorResponse{Error: operationError{
			Code:    403,
			Status:  "PERMISSION_DENIED",
			Message: "Permission denied: please use an API key from a paid project",
		}})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{})
	_, err := client.Submit(context.Background(), GenerateRequest{Prompt: "x"})
	var sub *SubmissionError
	if !errors.As(err, &sub) {
		t.Fatalf("expected *SubmissionError, got %v", err)
	}
	if sub.Code != 403 || !strings.Contains(sub.Message, "Permission denied") {
		t.Fatalf("envelope not carried: %+v", sub)
	}
	if !IsCredentialError(err) {
		t.Fatal("403 submission error should classify as credential error")
	}
}

func TestAwaitPollsUntilDone(t *testing.T) {
	var statusQueries int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+testOperationName {
			t.Fatalf("unexpected poll path: %s", r.URL.Path)
		}
		statusQueries++
		op := operation{Name: testOperationName}
		if statusQueries >= 3 {
			op.Done = true
			op.Response = &operationResponse{GenerateVideoResponse: &generateVideoResponse{
				GeneratedSamples: []generatedSample{{Video: &videoRef{URI: "https://x/y"}}},
			}}
		}
		_ = json.NewEncoder(w).Encode(op)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{})
	completed, err := client.Await(context.Background(), &Job{Name: testOperationName})
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if statusQueries != 3 {
		t.Fatalf("expected exactly 3 status queries, got %d", statusQueries)
	}
	if completed.ResultURI() != "https://x/y" {
		t.Fatalf("result uri mismatch: %q", completed.ResultURI())
	}
}

func TestAwaitPropagatesOperationFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(operation{
			Name:  testOperationName,
			Done:  true,
			Error: &operationError{Code: 500, Status: "INTERNAL", Message: "generation failed"},
		})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{})
	_, err := client.Await(context.Background(), &Job{Name: testOperationName})
	var poll *PollError
	if !errors.As(err, &poll) {
		t.Fatalf("expected *PollError, got %v", err)
	}
	if !strings.Contains(poll.Message, "generation failed") {
		t.Fatalf("provider message not carried: %+v", poll)
	}
}

func TestAwaitPropagatesRejectedQuery(t *testing.T) {
	var statusQueries int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		statusQueries++
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(apiErrorResponse{Error: operationError{Code: 429, Message: "quota exhausted"}})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{})
	_, err := client.Await(context.Background(), &Job{Name: testOperationName})
	var poll *PollError
	if !errors.As(err, &poll) {
		t.Fatalf("expected *PollError, got %v", err)
	}
	if statusQueries != 1 {
		t.Fatalf("rejected query must not be retried, got %d queries", statusQueries)
	}
}

func TestAwaitHonorsDeadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(operation{Name: testOperationName})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{
		PollInterval: 10 * time.Millisecond,
		PollTimeout:  25 * time.Millisecond,
	})
	_, err := client.Await(context.Background(), &Job{Name: testOperationName})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	var poll *PollError
	if !errors.As(err, &poll) {
		t.Fatalf("deadline should surface as *PollError, got %v", err)
	}
}

func TestDownloadMissingResult(t *testing.T) {
	client := newTestClient(t, "http://unused", Options{})
	completed := &CompletedJob{Job: Job{Name: testOperationName}, response: &operationResponse{}}
	if _, err := client.Download(context.Background(), completed); !errors.Is(err, ErrMissingResult) {
		t.Fatalf("expected ErrMissingResult, got %v", err)
	}
}

func TestDownloadNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{})
	completed := &CompletedJob{
		Job: Job{Name: testOperationName},
		response: &operationResponse{GenerateVideoResponse: &generateVideoResponse{
			GeneratedSamples: []generatedSample{{Video: &videoRef{URI: ts.URL + "/files/video.mp4"}}},
		}},
	}
	video, err := client.Download(context.Background(), completed)
	var dl *DownloadError
	if !errors.As(err, &dl) {
		t.Fatalf("expected *DownloadError, got %v", err)
	}
	if !strings.Contains(dl.StatusText, "404") {
		t.Fatalf("status text not carried: %q", dl.StatusText)
	}
	if video != nil {
		t.Fatal("no video must be returned on failed download")
	}
}

func TestGenerateFullFlow(t *testing.T) {
	var statusQueries int
	mux := http.NewServeMux()
	var ts *httptest.Server
	mux.HandleFunc("/models/veo-3.0-generate-001:predictLongRunning", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(operation{Name: testOperationName})
	})
	mux.HandleFunc("/"+testOperationName, func(w http.ResponseWriter, r *http.Request) {
		statusQueries++
		op := operation{Name: testOperationName}
		if statusQueries >= 2 {
			op.Done = true
			op.Response = &operationResponse{GenerateVideoResponse: &generateVideoResponse{
				GeneratedSamples: []generatedSample{{Video: &videoRef{URI: ts.URL + "/files/clip.mp4"}}},
			}}
		}
		_ = json.NewEncoder(w).Encode(op)
	})
	mux.HandleFunc("/files/clip.mp4", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Fatalf("download not authenticated: %q", got)
		}
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("mp4-bytes"))
	})
	ts = httptest.NewServer(mux)
	defer ts.Close()

	client := newTestClient(t, ts.URL, Options{})
	video, err := client.Generate(context.Background(), GenerateRequest{
		Prompt: "gentle camera pan",
		Image:  &SourceImage{Data: []byte{1, 2, 3}, MIMEType: "image/jpeg"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if string(video.Data) != "mp4-bytes" {
		t.Fatalf("unexpected video bytes: %q", video.Data)
	}
	if video.MIMEType != "video/mp4" {
		t.Fatalf("unexpected mime type: %q", video.MIMEType)
	}
	if statusQueries != 2 {
		t.Fatalf("expected 2 status queries, got %d", statusQueries)
	}
}
