package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Client represents a payment platform API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new payment platform client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// SetPaymentCapability enables or disables payment processing for a business.
// The platform treats repeated calls with the same value as a no-op, so the
// call is safe to retry.
func (c *Client) SetPaymentCapability(ctx context.Context, businessID uint, enabled bool) error {
	req := CapabilityRequest{
		MerchantID: c.config.MerchantID,
		BusinessID: strconv.FormatUint(uint64(businessID), 10),
		Enabled:    enabled,
	}

	resp, err := c.doRequest(ctx, "capabilities/payments", req)
	if err != nil {
		return fmt.Errorf("failed to update payment capability: %w", err)
	}

	var capResp CapabilityResponse
	if err := json.Unmarshal(resp, &capResp); err != nil {
		return fmt.Errorf("failed to unmarshal capability response: %w", err)
	}

	if capResp.Enabled != enabled {
		return fmt.Errorf("%w: platform reports enabled=%v", ErrCapabilityUpdateFailed, capResp.Enabled)
	}

	return nil
}

// doRequest performs an HTTP request to the payment platform API
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errResp.Message)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errResp.Message)
		default:
			return nil, fmt.Errorf("%w: status %d: %s", ErrCapabilityUpdateFailed, resp.StatusCode, errResp.Message)
		}
	}

	return body, nil
}
