package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

type HTTPPaymentClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*ChargeResponse]
	timeout time.Duration
}

func NewHTTPPaymentClient(baseURL string, timeout time.Duration) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*ChargeResponse](gobreaker.Settings{Name: "payment-service"}),
		timeout: timeout,
	}
}

func (c *HTTPPaymentClient) Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	return c.breaker.Execute(func() (*ChargeResponse, error) {
		body, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("marshal charge request: %w", err)
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost,
			c.baseURL+"/api/v1/charges", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build charge request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("payment service request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("payment service returned status %d", resp.StatusCode)
		}

		var charge ChargeResponse
		if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
			return nil, fmt.Errorf("decode charge response: %w", err)
		}
		return &charge, nil
	})
}
