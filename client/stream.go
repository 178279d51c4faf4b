package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrStreamClosed is returned by Stream when the server ends the stream
// while ctx is still live: a restart, a shutdown, or a subscriber the server
// dropped for falling behind.
var ErrStreamClosed = errors.New("stream closed by server")

const (
	followInitialDelay = time.Second
	followMaxDelay     = 30 * time.Second
)

// Stream reads the server-sent event stream and calls fn with each event's
// topic and data until ctx ends, the server closes the stream or fn fails.
func (c *Client) Stream(ctx context.Context, fn func(topic string, data []byte) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/stream?token="+url.QueryEscape(c.Token), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	// The stream stays open indefinitely, so it must not inherit the
	// request timeout.
	httpClient := *c.HTTP
	httpClient.Timeout = 0
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: "stream refused"}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var topic string
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if topic != "" {
				if err := fn(topic, []byte(data.String())); err != nil {
					return err
				}
			}
			topic = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
			// keep-alive
		case strings.HasPrefix(line, "event:"):
			topic = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	return ErrStreamClosed
}

// Follow keeps the event stream open until ctx ends or fn fails. When the
// server closes the stream, the network fails or the server answers 5xx it
// reconnects with exponential backoff; the server resends every snapshot on
// connect. Any other refusal, such as an expired session, is returned.
func (c *Client) Follow(ctx context.Context, fn func(topic string, data []byte) error) error {
	initial := c.retryDelay
	if initial <= 0 {
		initial = followInitialDelay
	}

	attempt := 0
	for {
		var fnErr error
		received := false
		err := c.Stream(ctx, func(topic string, data []byte) error {
			received = true
			if err := fn(topic, data); err != nil {
				fnErr = err
				return err
			}
			return nil
		})
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case fnErr != nil:
			return fnErr
		case !retryable(err):
			return err
		}

		// A connection that delivered events was healthy; start over.
		if received {
			attempt = 0
		}
		attempt++
		delay := initial << (attempt - 1)
		if delay > followMaxDelay || delay <= 0 {
			delay = followMaxDelay
		}
		if c.OnReconnect != nil {
			c.OnReconnect(err, delay)
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return err != nil
}
