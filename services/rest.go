// services/rest.go
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

var (
	// ErrNotFound 远端记录不存在
	ErrNotFound = errors.New("remote record not found")
	// ErrRoomGone is returned when the service reports the room no
	// longer exists; callers must force a local leave instead of
	// retrying.
	ErrRoomGone = errors.New("room no longer exists")
)

// Connectivity tracks whether the last remote round-trip succeeded.
// The scan resolver consults it to skip remote lookups outright while
// offline.
type Connectivity struct {
	online atomic.Bool
}

func NewConnectivity() *Connectivity {
	c := &Connectivity{}
	c.online.Store(true)
	return c
}

func (c *Connectivity) Online() bool {
	return c.online.Load()
}

// SetOnline overrides the tracked link state; round-trips keep
// updating it afterwards.
func (c *Connectivity) SetOnline(up bool) {
	c.online.Store(up)
}

// restClient is the shared JSON-over-HTTP helper both service clients
// build on.
type restClient struct {
	baseURL string
	http    *http.Client
	conn    *Connectivity
}

func newRESTClient(baseURL string, timeout time.Duration, conn *Connectivity) *restClient {
	return &restClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		conn:    conn,
	}
}

// do issues one request and decodes the JSON response into out when out
// is non-nil. Transport-level failures flip the connectivity flag; any
// response at all, error status included, marks the link up.
func (c *restClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.conn.SetOnline(false)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.conn.SetOnline(true)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
