/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package jsonrpc is the thin JSON-RPC 2.0 client of SPEC_FULL §6:
// explicitly out-of-scope for the core itself (spec.md §1 excludes
// higher-level encoders from the protocol core), but still a peripheral
// package built on httpclient the way the origin's example/client/jsonrpc
// demonstrates driving the composed client operations for a real
// protocol on top.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/sabouaram/htcore/httpclient"
)

// Request is one JSON-RPC 2.0 call.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      string      `json:"id"`
}

// rpcError is the JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *rpcError) Error() string { return e.Message }

// response is the envelope a JSON-RPC 2.0 server replies with; exactly
// one of Result/Error is populated on success/failure respectively.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      string          `json:"id"`
}

// Client is a JSON-RPC 2.0 caller over httpclient's plain HTTP POST
// transport; it carries no session state between calls.
type Client struct {
	Endpoint string
	http     *httpclient.Client
}

// New returns a Client posting JSON-RPC envelopes to endpoint.
func New(endpoint string) *Client {
	return &Client{Endpoint: endpoint, http: httpclient.New()}
}

// Call issues method with params and decodes the result into out (which
// should be a pointer, as for json.Unmarshal); out may be nil to
// discard the result.
func (c *Client) Call(ctx context.Context, method string, params interface{}, out interface{}) error {
	id := uuid.New().String()

	body, err := json.Marshal(Request{JSONRPC: "2.0", Method: method, Params: params, ID: id})
	if err != nil {
		return err
	}

	res, err := c.http.Do(ctx, "POST", c.Endpoint, body)
	if err != nil {
		return err
	}

	var env response
	dec := json.NewDecoder(bytes.NewReader(res.Body))
	if err := dec.Decode(&env); err != nil {
		return ErrorMalformedResponse.Error(err)
	}

	if env.ID != id {
		return ErrorMismatchedID.Error()
	}
	if env.Error != nil {
		return ErrorServerFault.Error(env.Error)
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	return json.Unmarshal(env.Result, out)
}
