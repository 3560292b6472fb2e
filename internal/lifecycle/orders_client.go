package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/levelup-gamer/checkout/internal/domain"
)

type HTTPOrdersClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	timeout time.Duration
}

func NewHTTPOrdersClient(baseURL string, timeout time.Duration) *HTTPOrdersClient {
	return &HTTPOrdersClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{Name: "orders-service"}),
		timeout: timeout,
	}
}

func (c *HTTPOrdersClient) CreateOrder(ctx context.Context, order *domain.Order) error {
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, c.baseURL+"/api/v1/orders", body, http.StatusCreated)
	return err
}

func (c *HTTPOrdersClient) UpdateOrderStatus(ctx context.Context, code string, status domain.OrderStatus) error {
	body, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/orders/%s/status", c.baseURL, code)
	_, err = c.do(ctx, http.MethodPatch, url, body, http.StatusOK)
	return err
}

func (c *HTTPOrdersClient) GetOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	url := fmt.Sprintf("%s/api/v1/orders/%s", c.baseURL, code)
	data, err := c.do(ctx, http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &order, nil
}

func (c *HTTPOrdersClient) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	url := fmt.Sprintf("%s/api/v1/orders?user_id=%s", c.baseURL, userID)
	data, err := c.do(ctx, http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var orders []*domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("unmarshal orders: %w", err)
	}
	return orders, nil
}

// do runs one request through the circuit breaker, treating any status other
// than wantStatus as a failure so repeated outages trip the breaker.
func (c *HTTPOrdersClient) do(ctx context.Context, method, url string, body []byte, wantStatus int) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(reqCtx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("orders service request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		if resp.StatusCode != wantStatus {
			return nil, fmt.Errorf("orders service returned status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
}
