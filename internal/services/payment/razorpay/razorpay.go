package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"turf-booking/utils"

	"github.com/shopspring/decimal"
)

type Config struct {
	KeyID     string `json:"keyId" mapstructure:"key_id"`
	KeySecret string `json:"keySecret" mapstructure:"key_secret"`
	BaseURL   string `json:"baseUrl" mapstructure:"base_url"`
}

type Client struct {
	// keyID and keySecret authenticate against the Razorpay REST API
	// via basic auth.
	keyID     string
	keySecret string

	// baseURL is the Razorpay API root.
	baseURL string

	// hc is the http client.
	hc *http.Client

	// cb guards gateway calls so a failing upstream trips open instead
	// of stalling admissions.
	cb *utils.CircuitBreaker
}

// New creates a Razorpay client. Returns nil when no key is configured so
// callers can run without a gateway in development.
func New(cfg *Config) *Client {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil
	}
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   cfg.BaseURL,
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
		cb: utils.NewCircuitBreaker("razorpay"),
	}
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type Payment struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"` // paise
	Status  string `json:"status"` // created, authorized, captured, failed
}

// CreateOrder opens a gateway order for the booking amount. Rupees are
// converted to paise, the unit Razorpay bills in.
func (c *Client) CreateOrder(ctx context.Context, amountRupees int, receipt string) (*Order, error) {
	paise := decimal.NewFromInt(int64(amountRupees)).Mul(decimal.NewFromInt(100))

	payload := map[string]any{
		"amount":   paise.IntPart(),
		"currency": "INR",
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	result, err := c.cb.Execute(ctx, func() (interface{}, error) {
		resp, err := c.hc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("razorpay create order: unexpected status %d", resp.StatusCode)
		}

		var order Order
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			return nil, fmt.Errorf("razorpay create order: decode: %w", err)
		}
		return &order, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Order), nil
}

// FetchPayment reads the gateway's view of a payment, used to cross-check
// a verified callback before trusting its verdict.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	result, err := c.cb.Execute(ctx, func() (interface{}, error) {
		resp, err := c.hc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("razorpay fetch payment: unexpected status %d", resp.StatusCode)
		}

		var payment Payment
		if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
			return nil, fmt.Errorf("razorpay fetch payment: decode: %w", err)
		}
		return &payment, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Payment), nil
}
