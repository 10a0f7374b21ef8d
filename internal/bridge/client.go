package bridge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// reconnectDelay is the fixed pause between reconnect attempts. No
	// backoff growth and no attempt ceiling: the channel targets a
	// trusted bench-local controller and availability wins over
	// thundering-herd protection.
	reconnectDelay = 5 * time.Second

	// connectFailedMessage is the generic status string for any transport
	// failure. Details go to the log, never to the status line.
	connectFailedMessage = "connection failed"

	// responseHeaderTimeout bounds how long the server may take to start
	// the stream. The stream itself carries no deadline.
	responseHeaderTimeout = 10 * time.Second

	// maxEventSize bounds a single inbound event.
	maxEventSize = 1 << 20
)

// DispatchFunc receives every decoded command, in stream order, from the
// client's read goroutine.
type DispatchFunc func(Command)

// Client subscribes to the controller's SSE endpoint and keeps the
// subscription alive until disposed. A blank endpoint parks the client in
// an idle disconnected state.
type Client struct {
	log      zerolog.Logger
	dispatch DispatchFunc

	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	endpoint string
	state    ConnectionState
	onState  func(ConnectionState)
	cancel   context.CancelFunc

	wg sync.WaitGroup
}

// NewClient creates an event channel client delivering commands to
// dispatch. The client owns no connection until SetEndpoint.
func NewClient(logger zerolog.Logger, dispatch DispatchFunc) *Client {
	if dispatch == nil {
		panic("bridge.NewClient: dispatch function cannot be nil")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = responseHeaderTimeout

	return &Client{
		log:      logger.With().Str("component", "bridge").Logger(),
		dispatch: dispatch,
		// No overall client timeout: the stream stays open indefinitely.
		httpClient: &http.Client{Transport: transport},
		sleep:      sleepWithContext,
		state:      ConnectionState{Status: StatusDisconnected},
	}
}

// OnStateChange registers a listener for connection state transitions.
// The listener runs on the client's goroutine; implementations post to
// their own loop as needed.
func (c *Client) OnStateChange(fn func(ConnectionState)) {
	c.mu.Lock()
	c.onState = fn
	c.mu.Unlock()
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Endpoint returns the currently configured endpoint.
func (c *Client) Endpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoint
}

// SetEndpoint repoints the subscription. The active connection and any
// pending reconnect timer are torn down first. A blank endpoint leaves the
// client idle and disconnected with no error; setting the same endpoint
// again is a no-op while its session is alive.
func (c *Client) SetEndpoint(endpoint string) {
	endpoint = strings.TrimSpace(endpoint)

	c.mu.Lock()
	if endpoint == c.endpoint && (endpoint == "" || c.cancel != nil) {
		c.mu.Unlock()
		return
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.endpoint = endpoint

	if endpoint == "" {
		c.mu.Unlock()
		c.setState(ConnectionState{Status: StatusDisconnected})
		c.log.Info().Msg("event channel idle: no endpoint configured")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(ctx, endpoint)
}

// Close tears down the connection and the reconnect loop. The client can
// be reused afterwards by setting a new endpoint.
func (c *Client) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.endpoint = ""
	c.mu.Unlock()

	c.wg.Wait()
	c.setState(ConnectionState{Status: StatusDisconnected})
}

// run owns one endpoint's connect/read/reconnect cycle until its context
// is canceled by teardown.
func (c *Client) run(ctx context.Context, endpoint string) {
	defer c.wg.Done()

	for {
		c.setState(ConnectionState{Status: StatusConnecting, LastError: c.State().LastError})

		err := c.stream(ctx, endpoint)
		if ctx.Err() != nil {
			// Torn down; whoever canceled owns the state transition.
			return
		}

		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("event stream closed")
		c.setState(ConnectionState{Status: StatusDisconnected, LastError: connectFailedMessage})

		if err := c.sleep(ctx, reconnectDelay); err != nil {
			return
		}
	}
}

// stream opens the SSE connection and pumps events until the transport
// fails or the context is canceled. A clean server close returns io.EOF;
// the caller reconnects either way.
func (c *Client) stream(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("open stream: unexpected status %s", resp.Status)
	}

	c.setState(ConnectionState{Status: StatusConnected})
	c.log.Info().Str("endpoint", endpoint).Msg("event channel connected")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

	var data []byte
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				c.handleEvent(data)
				data = data[:0]
			}
		case strings.HasPrefix(line, ":"):
			// Heartbeat comment; keeps intermediaries from idling out.
		case strings.HasPrefix(line, "data:"):
			chunk := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
			if len(data) > 0 {
				data = append(data, '\n')
			}
			data = append(data, chunk...)
		default:
			// event:/id:/retry: fields are not part of this protocol.
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return io.EOF
}

// handleEvent decodes and dispatches one event. Decode failures of any
// kind are logged and dropped; the stream stays open.
func (c *Client) handleEvent(data []byte) {
	cmd, err := DecodeCommand(data)
	if err != nil {
		c.log.Warn().Err(err).Str("event", string(data)).Msg("dropping event")
		return
	}

	c.log.Debug().Str("type", cmd.kind()).Msg("command received")
	c.dispatch(cmd)
}

func (c *Client) setState(next ConnectionState) {
	c.mu.Lock()
	if c.state == next {
		c.mu.Unlock()
		return
	}
	c.state = next
	fn := c.onState
	c.mu.Unlock()

	if fn != nil {
		fn(next)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
