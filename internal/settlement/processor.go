package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"staffing-platform-backend/internal/database/models"
	"staffing-platform-backend/internal/logger"
)

// HTTPProcessor submits payouts to an external payment provider. Any non-2xx
// response is a failure the pipeline records on the payout.
type HTTPProcessor struct {
	url    string
	client *http.Client
}

// NewHTTPProcessor creates a processor posting to the provider URL
func NewHTTPProcessor(url string, timeout time.Duration) *HTTPProcessor {
	return &HTTPProcessor{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Execute submits one payout for payment
func (p *HTTPProcessor) Execute(ctx context.Context, payout *models.Payout) error {
	body, err := json.Marshal(map[string]string{
		"payout_id":    payout.ID.String(),
		"agency_id":    payout.AgencyID.String(),
		"amount":       payout.TotalAmount.StringFixed(2),
		"period_start": payout.PeriodStart.UTC().Format(time.RFC3339),
		"period_end":   payout.PeriodEnd.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode payout: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned %d", resp.StatusCode)
	}
	return nil
}

// ManualProcessor approves every payout and leaves the actual transfer to an
// operator. Development default when no provider is configured.
type ManualProcessor struct {
	log *logger.Logger
}

// NewManualProcessor creates a manual processor
func NewManualProcessor() *ManualProcessor {
	return &ManualProcessor{log: logger.New()}
}

// Execute marks the payout for manual transfer
func (p *ManualProcessor) Execute(ctx context.Context, payout *models.Payout) error {
	p.log.WithFields(map[string]interface{}{
		"payout_id": payout.ID,
		"agency_id": payout.AgencyID,
		"amount":    payout.TotalAmount.StringFixed(2),
	}).Info("payout queued for manual transfer")
	return nil
}
