package videogen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stillmotion/internal/infra"
)

// Credentials supplies the API key for outbound calls. The key is resolved
// per call so a key selected or cleared at runtime takes effect without
// rebuilding the client.
type Credentials interface {
	APIKey() string
}

// Options controls how the video generation client is configured.
type Options struct {
	Credentials  Credentials
	BaseURL      string
	Model        string
	HTTPClient   *http.Client
	PollInterval time.Duration
	PollTimeout  time.Duration
	Logger       *infra.Logger
}

// Client talks to the Veo long-running generation surface: it submits a job,
// polls the returned operation until it is done, and downloads the produced
// video with an authenticated fetch. Calls are strictly sequential per job;
// independent jobs may run concurrently, each with its own handle.
type Client struct {
	creds        Credentials
	baseURL      string
	model        string
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *infra.Logger
}

type staticKey string

func (k staticKey) APIKey() string { return string(k) }

// StaticCredentials wraps a fixed API key in the Credentials interface.
func StaticCredentials(key string) Credentials {
	return staticKey(strings.TrimSpace(key))
}

// NewClient constructs a client with sane defaults. Callers may provide a
// nil HTTP client; a reusable one with a timeout will be created.
func NewClient(opts Options) (*Client, error) {
	if opts.Credentials == nil {
		return nil, fmt.Errorf("videogen: credentials are required")
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := opts.Model
	if model == "" {
		model = "veo-3.0-generate-001"
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Minute
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		creds:        opts.Credentials,
		baseURL:      baseURL,
		model:        model,
		httpClient:   client,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		logger:       logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate runs the full submit, poll, download chain and returns the
// produced video bytes.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Video, error) {
	job, err := c.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	completed, err := c.Await(ctx, job)
	if err != nil {
		return nil, err
	}
	return c.Download(ctx, completed)
}

// Submit sends a generation request and returns a handle to the remote
// operation. Defaults are applied before transport: 16:9 aspect, 720p
// resolution and a fixed prompt when none is given. The remote rejecting the
// request surfaces as a *SubmissionError with the provider's message; there
// is no local retry.
func (c *Client) Submit(ctx context.Context, req GenerateRequest) (*Job, error) {
	key := c.creds.APIKey()
	if key == "" {
		return nil, ErrCredentialMissing
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = DefaultPrompt
	}
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = AspectLandscape
	}
	resolution := req.Resolution
	if resolution == "" {
		resolution = Resolution720p
	}
	if !aspect.Valid() {
		return nil, fmt.Errorf("videogen: unsupported aspect ratio %q", aspect)
	}
	if !resolution.Valid() {
		return nil, fmt.Errorf("videogen: unsupported resolution %q", resolution)
	}

	instance := predictInstance{Prompt: prompt}
	if req.Image != nil && len(req.Image.Data) > 0 {
		instance.Image = &inlineImage{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(req.Image.Data),
			MimeType:           req.Image.MIMEType,
		}
	}
	payload := predictRequest{
		Instances: []predictInstance{instance},
		Parameters: predictParameters{
			SampleCount: 1,
			AspectRatio: string(aspect),
			Resolution:  string(resolution),
		},
	}

	endpoint := fmt.Sprintf("%s/models/%s:predictLongRunning", c.baseURL, url.PathEscape(c.model))
	var op operation
	if err := c.invoke(ctx, http.MethodPost, endpoint, key, payload, &op); err != nil {
		var envelope *apiError
		if errors.As(err, &envelope) {
			return nil, &SubmissionError{Code: envelope.code, Status: envelope.status, Message: envelope.message}
		}
		return nil, &SubmissionError{Message: err.Error()}
	}
	if op.Name == "" {
		return nil, &SubmissionError{Message: "provider returned no operation name"}
	}

	c.logger.Debug().
		Str("model", c.model).
		Str("operation", op.Name).
		Msg("videogen: job submitted")

	return &Job{Name: op.Name}, nil
}

// Await polls the operation at a fixed interval until it reports done. The
// first query fires immediately; afterwards exactly one query is issued per
// interval tick, and no query is issued after a terminal transition. The
// wait is bounded by the configured poll timeout and aborts when ctx is
// cancelled. Any failed status query propagates immediately as *PollError.
func (c *Client) Await(ctx context.Context, job *Job) (*CompletedJob, error) {
	if job == nil || job.Name == "" {
		return nil, &PollError{Message: "missing job handle"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	for {
		op, err := c.queryOperation(ctx, job.Name)
		if err != nil {
			return nil, err
		}
		if op.Error != nil {
			return nil, &PollError{
				JobName: job.Name,
				Code:    op.Error.Code,
				Status:  op.Error.Status,
				Message: op.Error.Message,
			}
		}
		if op.Done {
			c.logger.Debug().Str("operation", job.Name).Msg("videogen: job done")
			return &CompletedJob{Job: *job, response: op.Response}, nil
		}

		c.logger.Debug().Str("operation", job.Name).Msg("videogen: job pending")

		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &PollError{JobName: job.Name, Err: ctx.Err()}
		case <-timer.C:
		}
	}
}

// Download retrieves the produced video bytes from the completed job's
// result location, authenticating the fetch with the API key header. A
// completed job without a result location yields ErrMissingResult; a
// non-success response yields *DownloadError with the status text, and no
// bytes are returned.
func (c *Client) Download(ctx context.Context, completed *CompletedJob) (*Video, error) {
	uri := completed.ResultURI()
	if uri == "" {
		return nil, ErrMissingResult
	}

	key := c.creds.APIKey()
	if key == "" {
		return nil, ErrCredentialMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("videogen: create download request: %w", err)
	}
	req.Header.Set("x-goog-api-key", key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("videogen: download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &DownloadError{StatusText: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("videogen: read video bytes: %w", err)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = "video/mp4"
	}

	c.logger.Debug().
		Str("operation", completed.Job.Name).
		Int("bytes", len(data)).
		Msg("videogen: video downloaded")

	return &Video{Data: data, MIMEType: mime}, nil
}

func (c *Client) queryOperation(ctx context.Context, name string) (*operation, error) {
	key := c.creds.APIKey()
	if key == "" {
		return nil, ErrCredentialMissing
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(name, "/")
	var op operation
	if err := c.invoke(ctx, http.MethodGet, endpoint, key, nil, &op); err != nil {
		var envelope *apiError
		if errors.As(err, &envelope) {
			return nil, &PollError{JobName: name, Code: envelope.code, Status: envelope.status, Message: envelope.message}
		}
		return nil, &PollError{JobName: name, Err: err}
	}
	return &op, nil
}

// apiError carries the provider's decoded error envelope between invoke and
// the typed errors built at each call site.
type apiError struct {
	code    int
	status  string
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("provider status %d: %s", e.code, e.message)
}

func (c *Client) invoke(ctx context.Context, method, endpoint, key string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", key)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope apiErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && envelope.Error.Message != "" {
			code := envelope.Error.Code
			if code == 0 {
				code = resp.StatusCode
			}
			return &apiError{code: code, status: envelope.Error.Status, message: envelope.Error.Message}
		}
		data, _ := io.ReadAll(resp.Body)
		return &apiError{code: resp.StatusCode, message: strings.TrimSpace(string(data))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
