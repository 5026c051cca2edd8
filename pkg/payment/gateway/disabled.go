package gateway

import "context"

// Disabled is a stand-in gateway for environments without payment
// credentials. Every call succeeds and nothing is sent.
type Disabled struct{}

func (Disabled) SetPaymentCapability(ctx context.Context, businessID uint, enabled bool) error {
	return nil
}
