package control

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// consoleTimeout bounds one notification round-trip.
	consoleTimeout = 3 * time.Second

	// actionResizePanel is the console verb for a workspace split change.
	actionResizePanel = "resize_panel"
)

// consoleAction is the request body for POSTs to the console endpoint.
type consoleAction struct {
	Action string `json:"action"`
	Value  int    `json:"value"`
}

// ConsoleClient posts workspace actions to the desktop console endpoint.
// An empty endpoint disables delivery without error, so the feature can
// stay unconfigured on machines without a console.
type ConsoleClient struct {
	httpClient *http.Client
	log        zerolog.Logger

	mu       sync.RWMutex
	endpoint string
}

// NewConsoleClient creates a client posting to endpoint.
func NewConsoleClient(logger zerolog.Logger, endpoint string) *ConsoleClient {
	return &ConsoleClient{
		httpClient: &http.Client{Timeout: consoleTimeout},
		log:        logger.With().Str("component", "console").Logger(),
		endpoint:   strings.TrimSpace(endpoint),
	}
}

// SetEndpoint replaces the console endpoint for subsequent notifications.
func (c *ConsoleClient) SetEndpoint(endpoint string) {
	c.mu.Lock()
	c.endpoint = strings.TrimSpace(endpoint)
	c.mu.Unlock()
}

// NotifyResize reports an accumulated split delta, in percentage points.
func (c *ConsoleClient) NotifyResize(ctx context.Context, delta int) error {
	return c.post(ctx, consoleAction{Action: actionResizePanel, Value: delta})
}

func (c *ConsoleClient) post(ctx context.Context, action consoleAction) error {
	c.mu.RLock()
	endpoint := c.endpoint
	c.mu.RUnlock()

	if endpoint == "" {
		c.log.Debug().Str("action", action.Action).Msg("console endpoint not configured, dropping action")
		return nil
	}

	body, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("marshaling console action: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating console request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting console action: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("console returned status %d", resp.StatusCode)
	}
	return nil
}
