// Package settlement turns an employer-approved timesheet into money
// movements: the employer invoice, the platform commission split, the agency
// payout and the per-employee payroll rows. Every step is idempotent by a
// natural key and individually retryable, so an at-least-once bus can replay
// events without double-billing.
package settlement

import (
	"context"
	"fmt"
	"time"

	"staffing-platform-backend/internal/database/models"
	apperrors "staffing-platform-backend/internal/errors"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/logger"
	"staffing-platform-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutProcessor is the external payment collaborator. Only its
// success/failure outcome is consumed.
type PayoutProcessor interface {
	Execute(ctx context.Context, payout *models.Payout) error
}

// Config carries the settlement tunables
type Config struct {
	InvoiceDueDays   int
	PayoutPeriodDays int
	PayrollTaxRate   decimal.Decimal
}

// Pipeline consumes approval and payment events and produces the financial
// records
type Pipeline struct {
	store     repository.Store
	bus       events.Bus
	taxRates  TaxRates
	processor PayoutProcessor
	cfg       Config
	now       func() time.Time
	log       *logger.Logger
}

// NewPipeline creates a settlement pipeline
func NewPipeline(store repository.Store, bus events.Bus, taxRates TaxRates, processor PayoutProcessor, cfg Config) *Pipeline {
	return &Pipeline{
		store:     store,
		bus:       bus,
		taxRates:  taxRates,
		processor: processor,
		cfg:       cfg,
		now:       time.Now,
		log:       logger.New(),
	}
}

// WithClock overrides the time source, used by tests
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Register subscribes the pipeline to its triggering events
func (p *Pipeline) Register(bus events.Bus) {
	bus.Subscribe("settlement", events.TimesheetEmployerApproved, p.HandleTimesheetApproved)
	bus.Subscribe("settlement", events.InvoicePaid, p.HandleInvoicePaid)
}

// HandleTimesheetApproved is the bus entry point for the approval trigger
func (p *Pipeline) HandleTimesheetApproved(ctx context.Context, evt events.Event) error {
	_, err := p.SettleTimesheet(ctx, evt.TargetID)
	return err
}

// HandleInvoicePaid is the bus entry point for the payment confirmation
func (p *Pipeline) HandleInvoicePaid(ctx context.Context, evt events.Event) error {
	return p.SplitCommission(ctx, evt.TargetID)
}

// SettleTimesheet generates the employer_to_agency invoice for an
// employer-approved timesheet: subtotal = hours x shift rate (falling back
// to the assignment's agreed rate when the shift rate is unset), plus tax by
// employer jurisdiction, due in the configured window. One invoice per
// timesheet; a replayed event finds the existing invoice and stops.
func (p *Pipeline) SettleTimesheet(ctx context.Context, timesheetID uuid.UUID) (*models.Invoice, error) {
	if existing, err := p.store.Invoices().GetByTimesheetID(timesheetID); err == nil {
		return existing, nil
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("check existing invoice: %w", err)
	}

	timesheet, err := p.store.Timesheets().GetByID(timesheetID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &apperrors.NotFoundError{Entity: "timesheet"}
		}
		return nil, fmt.Errorf("load timesheet: %w", err)
	}
	if timesheet.Status != models.TimesheetStatusEmployerApproved {
		return nil, &apperrors.InvalidTransitionError{
			Entity: "timesheet",
			From:   string(timesheet.Status),
			To:     "settled",
		}
	}

	shift, err := p.store.Shifts().GetByID(timesheet.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("load shift: %w", err)
	}
	if shift.AssignmentID == nil {
		return nil, &apperrors.ValidationError{
			Field:   "assignment_id",
			Message: "shift has no assignment, cannot resolve billing parties",
		}
	}
	assignment, err := p.store.Assignments().GetByID(*shift.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("load assignment: %w", err)
	}

	rate := shift.HourlyRate
	if rate.IsZero() {
		rate = assignment.AgreedRate
	}
	subtotal := timesheet.HoursWorked.Mul(rate).Round(2)

	jurisdiction, err := p.employerJurisdiction(shift.LocationID)
	if err != nil {
		return nil, err
	}
	taxAmount := subtotal.Mul(p.taxRates.RateFor(jurisdiction.jurisdiction)).Round(2)

	tsID := timesheet.ID
	invoice := &models.Invoice{
		Type:        models.InvoiceTypeEmployerToAgency,
		FromType:    models.PartyTypeEmployer,
		FromID:      jurisdiction.employerID,
		ToType:      models.PartyTypeAgency,
		ToID:        assignment.AgencyID,
		TimesheetID: &tsID,
		Subtotal:    subtotal,
		TaxAmount:   taxAmount,
		TotalAmount: subtotal.Add(taxAmount),
		Status:      models.InvoiceStatusPending,
		DueDate:     p.now().AddDate(0, 0, p.cfg.InvoiceDueDays),
	}
	if err := p.store.Invoices().Create(invoice); err != nil {
		if repository.IsUniqueViolation(err) {
			return p.store.Invoices().GetByTimesheetID(timesheetID)
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	p.publish(ctx, events.NewInvoiceGenerated(invoice))
	return invoice, nil
}

// MarkInvoicePaid records an external payment confirmation and publishes
// invoice.paid, which triggers the commission split. Marking a paid invoice
// paid again is a no-op.
func (p *Pipeline) MarkInvoicePaid(ctx context.Context, invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice *models.Invoice
	var evts []events.Event
	err := p.store.Transaction(func(tx repository.Store) error {
		var err error
		invoice, err = tx.Invoices().GetForUpdate(invoiceID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "invoice"}
			}
			return fmt.Errorf("load invoice: %w", err)
		}
		if invoice.Status == models.InvoiceStatusPaid {
			return nil
		}

		if _, err := models.InvoiceTransitions.Transition(invoice.Status, models.InvoiceStatusPaid); err != nil {
			return err
		}

		paidAt := p.now()
		invoice.Status = models.InvoiceStatusPaid
		invoice.PaidAt = &paidAt
		if err := tx.Invoices().Update(invoice); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		evts = append(evts, events.NewInvoicePaid(invoice))
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.publish(ctx, evts...)
	return invoice, nil
}

// SplitCommission runs once per paid employer invoice: it mirrors the
// platform commission into an agency_to_platform invoice, folds the
// remainder into the agency's payout for the period and accumulates the
// employee's payroll row. The commission invoice's source_invoice_id unique
// key makes the whole step idempotent; a replay that finds it stops here.
func (p *Pipeline) SplitCommission(ctx context.Context, invoiceID uuid.UUID) error {
	source, err := p.store.Invoices().GetByID(invoiceID)
	if err != nil {
		if repository.IsNotFound(err) {
			return &apperrors.NotFoundError{Entity: "invoice"}
		}
		return fmt.Errorf("load invoice: %w", err)
	}
	if source.Type != models.InvoiceTypeEmployerToAgency {
		// Commission invoices do not split again
		return nil
	}
	if source.Status != models.InvoiceStatusPaid {
		return &apperrors.InvalidTransitionError{
			Entity: "invoice",
			From:   string(source.Status),
			To:     "commission_split",
		}
	}
	if _, err := p.store.Invoices().GetBySourceInvoiceID(source.ID); err == nil {
		return nil
	} else if !repository.IsNotFound(err) {
		return fmt.Errorf("check commission invoice: %w", err)
	}

	agency, err := p.store.Parties().GetAgency(source.ToID)
	if err != nil {
		if repository.IsNotFound(err) {
			return &apperrors.NotFoundError{Entity: "agency"}
		}
		return fmt.Errorf("load agency: %w", err)
	}

	// Commission is computed from the paid invoice's total
	commission := source.TotalAmount.Mul(agency.CommissionRate).Round(2)
	agencyShare := source.TotalAmount.Sub(commission)

	var evts []events.Event
	err = p.store.Transaction(func(tx repository.Store) error {
		sourceID := source.ID
		commissionInvoice := &models.Invoice{
			Type:            models.InvoiceTypeAgencyToPlatform,
			FromType:        models.PartyTypeAgency,
			FromID:          agency.ID,
			ToType:          models.PartyTypePlatform,
			ToID:            uuid.Nil,
			SourceInvoiceID: &sourceID,
			Subtotal:        commission,
			TaxAmount:       decimal.Zero,
			TotalAmount:     commission,
			Status:          models.InvoiceStatusPending,
			DueDate:         p.now().AddDate(0, 0, p.cfg.InvoiceDueDays),
		}
		if err := tx.Invoices().Create(commissionInvoice); err != nil {
			if repository.IsUniqueViolation(err) {
				// A concurrent replay already split this invoice
				return nil
			}
			return fmt.Errorf("create commission invoice: %w", err)
		}
		evts = append(evts, events.NewInvoiceGenerated(commissionInvoice))

		payout, err := p.payoutForPeriod(tx, agency.ID)
		if err != nil {
			return err
		}
		payout.TotalAmount = payout.TotalAmount.Add(agencyShare)
		if err := tx.Payouts().Update(payout); err != nil {
			return fmt.Errorf("update payout: %w", err)
		}

		return p.accumulatePayroll(tx, source, payout)
	})
	if err != nil {
		return err
	}

	p.publish(ctx, evts...)
	return nil
}

// ExecutePayout calls the external payout processor. On success the payout
// and its payroll rows become paid; on failure the payout is marked failed
// and re-raised on the bus for the external retry scheduler, never rolled
// back to processing.
func (p *Pipeline) ExecutePayout(ctx context.Context, payoutID uuid.UUID) (*models.Payout, error) {
	var payout *models.Payout
	err := p.store.Transaction(func(tx repository.Store) error {
		var err error
		payout, err = tx.Payouts().GetForUpdate(payoutID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "payout"}
			}
			return fmt.Errorf("load payout: %w", err)
		}
		if payout.Status == models.PayoutStatusPaid {
			return nil
		}
		if payout.Status == models.PayoutStatusFailed {
			// External scheduler retry
			if _, err := models.PayoutTransitions.Transition(payout.Status, models.PayoutStatusProcessing); err != nil {
				return err
			}
			payout.Status = models.PayoutStatusProcessing
			if err := tx.Payouts().Update(payout); err != nil {
				return fmt.Errorf("update payout: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if payout.Status == models.PayoutStatusPaid {
		return payout, nil
	}

	// No row lock is held across the provider call. Concurrent executions
	// of the same payout must be serialized by the caller: the API exposes
	// explicit execution and the retry scheduler re-dispatches failed
	// payouts one at a time.
	if execErr := p.processor.Execute(ctx, payout); execErr != nil {
		markErr := p.store.Transaction(func(tx repository.Store) error {
			fresh, err := tx.Payouts().GetForUpdate(payout.ID)
			if err != nil {
				return err
			}
			fresh.Status = models.PayoutStatusFailed
			fresh.FailureNote = execErr.Error()
			if err := tx.Payouts().Update(fresh); err != nil {
				return err
			}
			payout = fresh
			return nil
		})
		if markErr != nil {
			return nil, fmt.Errorf("mark payout failed: %w", markErr)
		}
		p.publish(ctx, events.NewPayoutFailed(payout, execErr.Error()))
		return payout, &apperrors.ExternalDependencyError{Dependency: "payout processor", Err: execErr}
	}

	err = p.store.Transaction(func(tx repository.Store) error {
		fresh, err := tx.Payouts().GetForUpdate(payout.ID)
		if err != nil {
			return err
		}
		fresh.Status = models.PayoutStatusPaid
		if err := tx.Payouts().Update(fresh); err != nil {
			return err
		}

		payrolls, err := tx.Payrolls().ListByPayout(fresh.ID)
		if err != nil {
			return fmt.Errorf("list payrolls: %w", err)
		}
		for i := range payrolls {
			if payrolls[i].Status == models.PayrollStatusPaid {
				continue
			}
			payrolls[i].Status = models.PayrollStatusPaid
			if err := tx.Payrolls().Update(&payrolls[i]); err != nil {
				return fmt.Errorf("update payroll: %w", err)
			}
		}
		payout = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.publish(ctx, events.NewPayoutProcessed(payout))
	return payout, nil
}

// payoutForPeriod finds or creates the agency's processing payout for the
// period containing now
func (p *Pipeline) payoutForPeriod(tx repository.Store, agencyID uuid.UUID) (*models.Payout, error) {
	start, end := p.currentPeriod()
	payout, err := tx.Payouts().GetByAgencyAndPeriod(agencyID, start)
	if err == nil {
		return payout, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("load payout: %w", err)
	}

	payout = &models.Payout{
		AgencyID:    agencyID,
		PeriodStart: start,
		PeriodEnd:   end,
		TotalAmount: decimal.Zero,
		Status:      models.PayoutStatusProcessing,
	}
	if err := tx.Payouts().Create(payout); err != nil {
		return nil, fmt.Errorf("create payout: %w", err)
	}
	return payout, nil
}

// accumulatePayroll folds the invoice's timesheet into the employee's
// payroll row for the payout: hours and gross accumulate, taxes and net are
// recomputed from the running totals.
func (p *Pipeline) accumulatePayroll(tx repository.Store, source *models.Invoice, payout *models.Payout) error {
	if source.TimesheetID == nil {
		return nil
	}
	timesheet, err := tx.Timesheets().GetByID(*source.TimesheetID)
	if err != nil {
		return fmt.Errorf("load timesheet: %w", err)
	}
	shift, err := tx.Shifts().GetByID(timesheet.ShiftID)
	if err != nil {
		return fmt.Errorf("load shift: %w", err)
	}

	payRate := shift.HourlyRate
	if shift.AssignmentID != nil {
		assignment, err := tx.Assignments().GetByID(*shift.AssignmentID)
		if err != nil {
			return fmt.Errorf("load assignment: %w", err)
		}
		payRate = assignment.PayRate
	}

	payroll, err := tx.Payrolls().GetByPayoutAndEmployee(payout.ID, timesheet.EmployeeID)
	if repository.IsNotFound(err) {
		payoutID := payout.ID
		payroll = &models.Payroll{
			AgencyID:   payout.AgencyID,
			EmployeeID: timesheet.EmployeeID,
			PayoutID:   &payoutID,
			Status:     models.PayrollStatusPending,
		}
		if err := tx.Payrolls().Create(payroll); err != nil {
			return fmt.Errorf("create payroll: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("load payroll: %w", err)
	}

	payroll.TotalHours = payroll.TotalHours.Add(timesheet.HoursWorked)
	payroll.GrossPay = payroll.GrossPay.Add(timesheet.HoursWorked.Mul(payRate)).Round(2)
	payroll.Taxes = payroll.GrossPay.Mul(p.cfg.PayrollTaxRate).Round(2)
	payroll.NetPay = payroll.GrossPay.Sub(payroll.Taxes)
	return tx.Payrolls().Update(payroll)
}

type employerRef struct {
	employerID   uuid.UUID
	jurisdiction string
}

func (p *Pipeline) employerJurisdiction(locationID uuid.UUID) (employerRef, error) {
	location, err := p.store.Parties().GetLocation(locationID)
	if err != nil {
		if repository.IsNotFound(err) {
			return employerRef{}, &apperrors.NotFoundError{Entity: "location"}
		}
		return employerRef{}, fmt.Errorf("load location: %w", err)
	}
	employer, err := p.store.Parties().GetEmployer(location.EmployerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return employerRef{}, &apperrors.NotFoundError{Entity: "employer"}
		}
		return employerRef{}, fmt.Errorf("load employer: %w", err)
	}
	return employerRef{employerID: employer.ID, jurisdiction: employer.Jurisdiction}, nil
}

// currentPeriod aligns payout periods to fixed windows of PayoutPeriodDays
// counted from the Unix epoch, so the same day always maps to the same
// period regardless of when the split runs.
func (p *Pipeline) currentPeriod() (time.Time, time.Time) {
	now := p.now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	epochDays := int(day.Unix() / 86400)
	offset := epochDays % p.cfg.PayoutPeriodDays
	start := day.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, p.cfg.PayoutPeriodDays)
	return start, end
}

func (p *Pipeline) publish(ctx context.Context, evts ...events.Event) {
	for _, evt := range evts {
		if err := p.bus.Publish(ctx, evt); err != nil {
			p.log.WithField("event", evt.Name).WithError(err).Error("publish event failed")
		}
	}
}
