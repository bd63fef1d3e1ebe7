package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"
)

// Framing limits and default timeouts
const (
	maxFrameSize          = 64 << 20 // refuse absurd length prefixes
	DefaultProbeTimeout   = 2 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// Error is a store-layer failure: a transport problem, a malformed frame,
// or an explicit error status from the server.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store: %s: %v", e.Message, e.Err)
	}
	return "store: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Result is a single search hit, ordered by descending relevance score
type Result struct {
	ChunkID  string         `json:"chunk_id"`
	Score    float64        `json:"score"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// Client talks to the external content store. Each call opens its own
// connection, sends one length-prefixed JSON request, reads one
// length-prefixed JSON response, and closes. The client never retries;
// retry policy belongs to the caller.
type Client struct {
	Host           string
	Port           int
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration
}

// NewClient creates a store client with default timeouts
func NewClient(host string, port int) *Client {
	return &Client{
		Host:           host,
		Port:           port,
		ProbeTimeout:   DefaultProbeTimeout,
		RequestTimeout: DefaultRequestTimeout,
	}
}

func (c *Client) addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

// IsAlive checks whether the server is reachable by opening and closing a
// fresh connection. It is a liveness probe only; no request is sent.
func (c *Client) IsAlive() bool {
	conn, err := net.DialTimeout("tcp", c.addr(), c.ProbeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Store upserts a chunk by chunk ID
func (c *Client) Store(chunkID, docID, text string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	request := map[string]any{
		"action":   "store",
		"chunk_id": chunkID,
		"doc_id":   docID,
		"text":     text,
		"metadata": metadata,
	}
	_, err := c.sendRequest(request)
	return err
}

// Search runs a similarity search. An empty docID searches all documents.
func (c *Client) Search(query string, topK int, docID string) ([]Result, error) {
	request := map[string]any{
		"action": "search",
		"query":  query,
		"top_k":  topK,
	}
	if docID != "" {
		request["doc_id"] = docID
	}

	response, err := c.sendRequest(request)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Results []Result `json:"results"`
	}
	if err := json.Unmarshal(response, &parsed); err != nil {
		return nil, &Error{Message: "malformed search results", Err: err}
	}
	return parsed.Results, nil
}

// sendRequest performs one request/response round trip and returns the raw
// response payload after checking its status field.
func (c *Client) sendRequest(request map[string]any) ([]byte, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, &Error{Message: "failed to encode request", Err: err}
	}

	conn, err := net.DialTimeout("tcp", c.addr(), c.RequestTimeout)
	if err != nil {
		return nil, &Error{Message: "connection failed", Err: err}
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.RequestTimeout)); err != nil {
		return nil, &Error{Message: "failed to set deadline", Err: err}
	}

	if err := writeFrame(conn, payload); err != nil {
		return nil, err
	}

	response, err := readFrame(conn)
	if err != nil {
		return nil, err
	}

	var status struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(response, &status); err != nil {
		return nil, &Error{Message: "malformed response", Err: err}
	}
	if status.Status == "error" {
		msg := status.Message
		if msg == "" {
			msg = "unknown"
		}
		return nil, &Error{Message: "server error: " + msg}
	}

	return response, nil
}

// writeFrame sends a 4-byte big-endian length prefix followed by the payload
func writeFrame(conn net.Conn, payload []byte) error {
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(payload)))

	if _, err := conn.Write(append(header, payload...)); err != nil {
		return &Error{Message: "failed to send request", Err: err}
	}
	return nil
}

// readFrame reads a 4-byte big-endian length prefix and exactly that many
// payload bytes
func readFrame(conn net.Conn) ([]byte, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(conn, header); err != nil {
		return nil, &Error{Message: "connection closed while reading response header", Err: err}
	}

	length := binary.BigEndian.Uint32(header)
	if length > maxFrameSize {
		return nil, &Error{Message: fmt.Sprintf("malformed length prefix: %d", length)}
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return nil, &Error{Message: "connection closed while reading response", Err: err}
	}
	return payload, nil
}
