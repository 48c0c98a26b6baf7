package settlement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"staffing-platform-backend/internal/database/models"
	apperrors "staffing-platform-backend/internal/errors"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/settlement"
	"staffing-platform-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// stubProcessor fails while err is set and counts executions
type stubProcessor struct {
	err   error
	calls int
}

func (p *stubProcessor) Execute(ctx context.Context, payout *models.Payout) error {
	p.calls++
	return p.err
}

type PipelineTestSuite struct {
	suite.Suite
	store     *testutils.FakeStore
	bus       *testutils.RecordingBus
	processor *stubProcessor
	pipeline  *settlement.Pipeline
	now       time.Time
	ctx       context.Context

	agency    *models.Agency
	employer  *models.Employer
	location  *models.Location
	shift     *models.Shift
	timesheet *models.Timesheet
}

func (suite *PipelineTestSuite) SetupTest() {
	suite.store = testutils.NewFakeStore()
	suite.bus = testutils.NewRecordingBus()
	suite.processor = &stubProcessor{}
	suite.now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	suite.ctx = context.Background()
	suite.pipeline = settlement.NewPipeline(
		suite.store,
		suite.bus,
		settlement.NewStaticTaxRates(map[string]float64{"NL": 0.21}),
		suite.processor,
		settlement.Config{
			InvoiceDueDays:   14,
			PayoutPeriodDays: 7,
			PayrollTaxRate:   decimal.NewFromFloat(0.10),
		},
	).WithClock(func() time.Time { return suite.now })

	// One fully approved timesheet: 7.58 hours at a 20.00 shift rate, worked
	// under an assignment paying 20.00 against an agreed 25.00.
	suite.agency = testutils.NewAgencyFactory().WithCommissionRate(0.05)
	suite.store.SeedAgency(suite.agency)
	suite.employer = testutils.NewEmployerFactory().WithJurisdiction("NL")
	suite.store.SeedEmployer(suite.employer)
	suite.location = testutils.NewLocationFactory().WithEmployer(suite.employer.ID)
	suite.store.SeedLocation(suite.location)

	assignment := testutils.NewAssignmentFactory().Create()
	assignment.AgencyID = suite.agency.ID
	suite.store.SeedAssignment(assignment)

	suite.shift = testutils.NewShiftFactory().WithAssignment(assignment.ID)
	suite.shift.LocationID = suite.location.ID
	suite.shift.Status = models.ShiftStatusCompleted
	suite.store.SeedShift(suite.shift)

	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8*time.Hour + 5*time.Minute)
	suite.timesheet = testutils.NewTimesheetFactory().WithStatus(models.TimesheetStatusEmployerApproved)
	suite.timesheet.ShiftID = suite.shift.ID
	suite.timesheet.EmployeeID = assignment.EmployeeID
	suite.timesheet.ClockIn = &clockIn
	suite.timesheet.ClockOut = &clockOut
	suite.timesheet.BreakMinutes = 30
	suite.timesheet.ComputeHours()
	suite.store.SeedTimesheet(suite.timesheet)
}

func (suite *PipelineTestSuite) TestSettleTimesheet_GeneratesInvoice() {
	invoice, err := suite.pipeline.SettleTimesheet(suite.ctx, suite.timesheet.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceTypeEmployerToAgency, invoice.Type)
	assert.Equal(suite.T(), suite.employer.ID, invoice.FromID)
	assert.Equal(suite.T(), suite.agency.ID, invoice.ToID)
	// 7.58 hours x 20.00 = 151.60, NL tax at 21% = 31.84
	assert.Equal(suite.T(), "151.60", invoice.Subtotal.StringFixed(2))
	assert.Equal(suite.T(), "31.84", invoice.TaxAmount.StringFixed(2))
	assert.Equal(suite.T(), "183.44", invoice.TotalAmount.StringFixed(2))
	assert.Equal(suite.T(), models.InvoiceStatusPending, invoice.Status)
	assert.True(suite.T(), invoice.DueDate.Equal(suite.now.AddDate(0, 0, 14)))
	assert.Equal(suite.T(), []string{events.InvoiceGenerated}, suite.bus.Names())
}

func (suite *PipelineTestSuite) TestSettleTimesheet_Idempotent() {
	first, err := suite.pipeline.SettleTimesheet(suite.ctx, suite.timesheet.ID)
	assert.NoError(suite.T(), err)

	suite.bus.Reset()
	second, err := suite.pipeline.SettleTimesheet(suite.ctx, suite.timesheet.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), first.ID, second.ID)
	assert.Empty(suite.T(), suite.bus.Names())
}

func (suite *PipelineTestSuite) TestSettleTimesheet_UnknownJurisdictionTaxedAtZero() {
	suite.employer.Jurisdiction = "XX"
	suite.store.SeedEmployer(suite.employer)

	invoice, err := suite.pipeline.SettleTimesheet(suite.ctx, suite.timesheet.ID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), invoice.TaxAmount.IsZero())
	assert.Equal(suite.T(), "151.60", invoice.TotalAmount.StringFixed(2))
}

func (suite *PipelineTestSuite) TestSettleTimesheet_NotEmployerApproved() {
	pending := suite.timesheet
	pending.Status = models.TimesheetStatusAgencyApproved
	suite.store.SeedTimesheet(pending)

	_, err := suite.pipeline.SettleTimesheet(suite.ctx, pending.ID)

	var invalid *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &invalid)
}

func (suite *PipelineTestSuite) TestMarkInvoicePaid_Idempotent() {
	invoice, err := suite.pipeline.SettleTimesheet(suite.ctx, suite.timesheet.ID)
	assert.NoError(suite.T(), err)
	suite.bus.Reset()

	paid, err := suite.pipeline.MarkInvoicePaid(suite.ctx, invoice.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusPaid, paid.Status)
	assert.NotNil(suite.T(), paid.PaidAt)
	assert.Equal(suite.T(), []string{events.InvoicePaid}, suite.bus.Names())

	suite.bus.Reset()
	again, err := suite.pipeline.MarkInvoicePaid(suite.ctx, invoice.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusPaid, again.Status)
	assert.Empty(suite.T(), suite.bus.Names())
}

func (suite *PipelineTestSuite) paidInvoice() *models.Invoice {
	invoice, err := suite.pipeline.SettleTimesheet(suite.ctx, suite.timesheet.ID)
	assert.NoError(suite.T(), err)
	paid, err := suite.pipeline.MarkInvoicePaid(suite.ctx, invoice.ID)
	assert.NoError(suite.T(), err)
	suite.bus.Reset()
	return paid
}

func (suite *PipelineTestSuite) TestSplitCommission() {
	paid := suite.paidInvoice()

	err := suite.pipeline.SplitCommission(suite.ctx, paid.ID)
	assert.NoError(suite.T(), err)

	// Commission comes off the paid total: 183.44 x 5% = 9.17
	commission, err := suite.store.Invoices().GetBySourceInvoiceID(paid.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceTypeAgencyToPlatform, commission.Type)
	assert.Equal(suite.T(), "9.17", commission.TotalAmount.StringFixed(2))

	// The agency keeps the remainder in its payout for the period
	payout, err := suite.store.Payouts().GetByID(suite.payoutID())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "174.27", payout.TotalAmount.StringFixed(2))
	assert.Equal(suite.T(), models.PayoutStatusProcessing, payout.Status)
	assert.True(suite.T(), payout.PeriodEnd.Equal(payout.PeriodStart.AddDate(0, 0, 7)))
	assert.False(suite.T(), payout.PeriodStart.After(suite.now))
	assert.True(suite.T(), payout.PeriodEnd.After(suite.now))

	// Payroll accumulates the employee's share: 7.58 x 20.00 pay rate
	payrolls, err := suite.store.Payrolls().ListByPayout(payout.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), payrolls, 1)
	assert.Equal(suite.T(), "7.58", payrolls[0].TotalHours.StringFixed(2))
	assert.Equal(suite.T(), "151.60", payrolls[0].GrossPay.StringFixed(2))
	assert.Equal(suite.T(), "15.16", payrolls[0].Taxes.StringFixed(2))
	assert.Equal(suite.T(), "136.44", payrolls[0].NetPay.StringFixed(2))

	assert.Equal(suite.T(), []string{events.InvoiceGenerated}, suite.bus.Names())
}

func (suite *PipelineTestSuite) TestSplitCommission_Idempotent() {
	paid := suite.paidInvoice()

	assert.NoError(suite.T(), suite.pipeline.SplitCommission(suite.ctx, paid.ID))
	suite.bus.Reset()
	assert.NoError(suite.T(), suite.pipeline.SplitCommission(suite.ctx, paid.ID))

	payout, err := suite.store.Payouts().GetByID(suite.payoutID())
	assert.NoError(suite.T(), err)
	// A replayed payment event must not double the payout
	assert.Equal(suite.T(), "174.27", payout.TotalAmount.StringFixed(2))
	assert.Empty(suite.T(), suite.bus.Names())
}

func (suite *PipelineTestSuite) TestSplitCommission_UnpaidInvoice() {
	invoice, err := suite.pipeline.SettleTimesheet(suite.ctx, suite.timesheet.ID)
	assert.NoError(suite.T(), err)

	err = suite.pipeline.SplitCommission(suite.ctx, invoice.ID)

	var invalid *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &invalid)
}

func (suite *PipelineTestSuite) TestEventDriven_ApprovalToPayout() {
	// Wired through the bus: the approval event generates the invoice, the
	// payment confirmation runs the split.
	suite.pipeline.Register(suite.bus)

	err := suite.bus.Publish(suite.ctx, events.NewTimesheetEmployerApproved(suite.timesheet))
	assert.NoError(suite.T(), err)

	invoice, err := suite.store.Invoices().GetByTimesheetID(suite.timesheet.ID)
	assert.NoError(suite.T(), err)

	_, err = suite.pipeline.MarkInvoicePaid(suite.ctx, invoice.ID)
	assert.NoError(suite.T(), err)

	commission, err := suite.store.Invoices().GetBySourceInvoiceID(invoice.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "9.17", commission.TotalAmount.StringFixed(2))
}

func (suite *PipelineTestSuite) TestExecutePayout_Success() {
	paid := suite.paidInvoice()
	assert.NoError(suite.T(), suite.pipeline.SplitCommission(suite.ctx, paid.ID))
	payoutID := suite.payoutID()
	suite.bus.Reset()

	payout, err := suite.pipeline.ExecutePayout(suite.ctx, payoutID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PayoutStatusPaid, payout.Status)
	assert.Equal(suite.T(), 1, suite.processor.calls)

	payrolls, _ := suite.store.Payrolls().ListByPayout(payoutID)
	assert.Equal(suite.T(), models.PayrollStatusPaid, payrolls[0].Status)
	assert.Equal(suite.T(), []string{events.PayoutProcessed}, suite.bus.Names())

	// Re-execution of a paid payout is a no-op
	suite.bus.Reset()
	again, err := suite.pipeline.ExecutePayout(suite.ctx, payoutID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PayoutStatusPaid, again.Status)
	assert.Equal(suite.T(), 1, suite.processor.calls)
	assert.Empty(suite.T(), suite.bus.Names())
}

func (suite *PipelineTestSuite) TestExecutePayout_FailureThenRetry() {
	paid := suite.paidInvoice()
	assert.NoError(suite.T(), suite.pipeline.SplitCommission(suite.ctx, paid.ID))
	payoutID := suite.payoutID()
	suite.bus.Reset()

	suite.processor.err = errors.New("provider unavailable")
	payout, err := suite.pipeline.ExecutePayout(suite.ctx, payoutID)

	var external *apperrors.ExternalDependencyError
	assert.ErrorAs(suite.T(), err, &external)
	assert.Equal(suite.T(), models.PayoutStatusFailed, payout.Status)
	assert.Equal(suite.T(), "provider unavailable", payout.FailureNote)
	assert.Equal(suite.T(), []string{events.PayoutFailed}, suite.bus.Names())

	// The failed payout stays retryable
	suite.bus.Reset()
	suite.processor.err = nil
	retried, err := suite.pipeline.ExecutePayout(suite.ctx, payoutID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PayoutStatusPaid, retried.Status)
	assert.Equal(suite.T(), []string{events.PayoutProcessed}, suite.bus.Names())
}

// payoutID finds the single payout created by the split via the
// epoch-aligned period window containing the suite clock
func (suite *PipelineTestSuite) payoutID() uuid.UUID {
	day := time.Date(suite.now.Year(), suite.now.Month(), suite.now.Day(), 0, 0, 0, 0, time.UTC)
	offset := int(day.Unix()/86400) % 7
	payout, err := suite.store.Payouts().GetByAgencyAndPeriod(suite.agency.ID, day.AddDate(0, 0, -offset))
	assert.NoError(suite.T(), err)
	return payout.ID
}

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}
