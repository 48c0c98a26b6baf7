package webhook_test

import (
	"testing"

	"staffing-platform-backend/internal/webhook"

	"github.com/stretchr/testify/assert"
)

func TestSignAndVerify(t *testing.T) {
	payload := []byte(`{"event":"shift.assigned"}`)

	signature := webhook.Sign("topsecret", payload)

	assert.Len(t, signature, 64)
	assert.True(t, webhook.Verify("topsecret", payload, signature))
}

func TestVerify_WrongSecret(t *testing.T) {
	payload := []byte(`{"event":"shift.assigned"}`)
	signature := webhook.Sign("topsecret", payload)

	assert.False(t, webhook.Verify("othersecret", payload, signature))
}

func TestVerify_TamperedPayload(t *testing.T) {
	signature := webhook.Sign("topsecret", []byte(`{"amount":"10.00"}`))

	assert.False(t, webhook.Verify("topsecret", []byte(`{"amount":"99.00"}`), signature))
}
