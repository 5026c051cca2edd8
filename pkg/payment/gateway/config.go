package gateway

// Config represents the configuration for the payment platform client
type Config struct {
	// APIKey is the secret key used for API authentication
	APIKey string

	// BaseURL is the payment platform API base URL
	BaseURL string

	// MerchantID identifies the Gym Buddy platform account
	MerchantID string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.MerchantID == "" {
		return ErrInvalidRequest
	}
	return nil
}
