// Package jsonrpc implements the JSON-RPC 2.0 transport used to reach the
// ledger provider. It knows nothing about the contract surface; callers map
// methods and payloads.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
)

const responseBodyLimit int64 = 4 << 20

var errEndpointRequired = errors.New("jsonrpc endpoint is required")

// RPCError is the error object returned by the provider.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Client is a minimal JSON-RPC 2.0 client over HTTP.
type Client struct {
	httpClient *http.Client
	endpoint   string
	nextID     atomic.Int64
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a client pointed at the provider endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errEndpointRequired
	}

	client := &Client{
		endpoint:   trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// Call performs a single request. Transport failures surface as
// LEDGER_UNAVAILABLE; a provider-side error object is returned as *RPCError
// so the caller can decide what it means for the operation at hand.
func (c *Client) Call(ctx context.Context, method string, params any, result any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeLedgerDown, "jsonrpc client not configured")
	}
	if strings.TrimSpace(method) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "rpc method is required")
	}

	payload, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode rpc request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build rpc request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeLedgerDown, err, "reach ledger provider")
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, responseBodyLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeLedgerDown, err, "read provider response")
	}
	if httpResp.StatusCode != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeLedgerDown, "provider returned non-200").
			WithDetails(map[string]any{"status": httpResp.StatusCode})
	}

	var decoded response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeLedgerDown, err, "decode provider response")
	}
	if decoded.Error != nil {
		return decoded.Error
	}
	if result != nil {
		if err := json.Unmarshal(decoded.Result, result); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeLedgerDown, err, "decode rpc result")
		}
	}
	return nil
}

// AsRPCError unwraps a provider-side error object if err carries one.
func AsRPCError(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return nil
}
