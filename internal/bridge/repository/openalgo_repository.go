package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"openalgo-sheets/internal/bridge/config"
	"openalgo-sheets/pkg/logger"

	"golang.org/x/time/rate"
)

// OpenAlgoRepository issues synchronous POST requests against the OpenAlgo
// REST API and returns the decoded JSON response.
type OpenAlgoRepository interface {
	// Post calls <base_url>/api/<version>/<endpoint> with the given payload.
	// The error message formats are stable; the service layer surfaces them
	// verbatim inside error grids.
	Post(ctx context.Context, endpoint string, payload map[string]interface{}) (interface{}, int, error)
}

type openAlgoRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewOpenAlgoRepository creates a rate-limited OpenAlgo API client.
func NewOpenAlgoRepository(cfg *config.Config, log *logger.Logger) OpenAlgoRepository {
	timeout := cfg.OpenAlgo.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	perMinute := cfg.OpenAlgo.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 120
	}
	requestLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)

	return &openAlgoRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: requestLimiter,
	}
}

func (r *openAlgoRepository) Post(ctx context.Context, endpoint string, payload map[string]interface{}) (interface{}, int, error) {
	url := fmt.Sprintf("%s/api/%s/%s", r.cfg.OpenAlgo.BaseURL, r.cfg.OpenAlgo.Version, endpoint)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err))
		return nil, 0, fmt.Errorf("URL Error: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to create HTTP request", logger.ErrorField(err), logger.StringField("endpoint", endpoint))
		return nil, 0, fmt.Errorf("URL Error: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to reach OpenAlgo API", logger.ErrorField(err), logger.StringField("endpoint", endpoint))
		return nil, 0, fmt.Errorf("URL Error: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to read response body", logger.ErrorField(err), logger.StringField("endpoint", endpoint))
		return nil, resp.StatusCode, fmt.Errorf("URL Error: %v", err)
	}

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("HTTP Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		r.log.ErrorContext(ctx, "OpenAlgo API returned an error status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("endpoint", endpoint),
		)
		return nil, resp.StatusCode, err
	}

	var decoded interface{}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		r.log.ErrorContext(ctx, "Failed to decode response body", logger.ErrorField(err), logger.StringField("endpoint", endpoint))
		return nil, resp.StatusCode, fmt.Errorf("JSON Decode Error: %v", err)
	}

	r.log.DebugContext(ctx, "OpenAlgo request completed",
		logger.StringField("endpoint", endpoint),
		logger.IntField("status_code", resp.StatusCode),
	)
	return decoded, resp.StatusCode, nil
}
