package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// PostJSON sends payload to url and returns the body of a 2xx answer.
// Every failure comes back as *GatewayError.
func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload interface{}) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, &GatewayError{Kind: KindTransport, Message: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, &GatewayError{Kind: KindTransport, Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, &GatewayError{Kind: KindTransport, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &GatewayError{Kind: KindTransport, StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, ClassifyStatus(resp.StatusCode, raw)
	}
	return raw, resp.StatusCode, nil
}

// Malformed reports a 2xx answer that did not carry a usable tool call.
func Malformed(status int, msg string, err error) *GatewayError {
	return &GatewayError{Kind: KindMalformedResponse, StatusCode: status, Message: msg, Err: err}
}
