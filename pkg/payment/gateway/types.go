package gateway

// CapabilityRequest asks the payment platform to enable or disable the
// payment capability for a business account
type CapabilityRequest struct {
	MerchantID string `json:"merchant_id"`
	BusinessID string `json:"business_id"`
	Enabled    bool   `json:"enabled"`
}

// CapabilityResponse is the payment platform's answer to a capability change
type CapabilityResponse struct {
	BusinessID string `json:"business_id"`
	Enabled    bool   `json:"enabled"`
	UpdatedAt  string `json:"updated_at"`
}

// ErrorResponse is the error payload returned by the payment platform
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
