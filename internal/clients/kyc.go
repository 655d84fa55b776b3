package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// KYCStatusApproved is the only status that clears checkout.
const KYCStatusApproved = "approved"

type KYCClient struct{ c *Client }

func NewKYCClient(c *Client) *KYCClient { return &KYCClient{c: c} }

// Status returns the buyer's KYC status as reported by the KYC service.
// Unknown buyers come back as "pending".
func (kc *KYCClient) Status(ctx context.Context, buyerID string) (string, error) {
	resp, err := kc.c.Do(ctx, http.MethodGet, "/api/kyc/"+buyerID, nil)
	if err != nil {
		return "", fmt.Errorf("kyc request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "pending", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kyc service returned %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode kyc response: %w", err)
	}
	return body.Status, nil
}
