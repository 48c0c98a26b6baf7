package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueName_PerSubscriber(t *testing.T) {
	// Two wildcard subscribers in the same deployment must not share a
	// queue, or they would compete for the same messages instead of each
	// receiving every event.
	auditQueue := queueName("worker", "audit", Wildcard)
	webhookQueue := queueName("worker", "webhook", Wildcard)

	assert.Equal(t, "worker.audit.all", auditQueue)
	assert.Equal(t, "worker.webhook.all", webhookQueue)
	assert.NotEqual(t, auditQueue, webhookQueue)
}

func TestQueueName_NamedEvent(t *testing.T) {
	assert.Equal(t,
		"worker.settlement.timesheet.employer_approved",
		queueName("worker", "settlement", TimesheetEmployerApproved))
}

func TestBindingKey(t *testing.T) {
	assert.Equal(t, "#", bindingKey(Wildcard))
	assert.Equal(t, InvoicePaid, bindingKey(InvoicePaid))
}
