package testutils

import (
	"sort"
	"sync"
	"time"

	"staffing-platform-backend/internal/database/models"
	"staffing-platform-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// FakeStore is an in-memory repository.Store for service tests. It enforces
// the same uniqueness rules as the real schema (one pending offer per shift,
// one timesheet per shift, one invoice per timesheet or source invoice, one
// payroll per payout and employee) and returns the same error types the
// services branch on. Transaction runs the callback against the store
// directly; writes are immediate and not rolled back on error.
type FakeStore struct {
	mu sync.Mutex

	shifts        map[uuid.UUID]models.Shift
	offers        map[uuid.UUID]models.ShiftOffer
	assignments   map[uuid.UUID]models.Assignment
	extensions    map[uuid.UUID]models.AssignmentExtension
	timesheets    map[uuid.UUID]models.Timesheet
	invoices      map[uuid.UUID]models.Invoice
	payouts       map[uuid.UUID]models.Payout
	payrolls      map[uuid.UUID]models.Payroll
	agencies      map[uuid.UUID]models.Agency
	employers     map[uuid.UUID]models.Employer
	employees     map[uuid.UUID]models.Employee
	locations     map[uuid.UUID]models.Location
	auditLogs     []models.AuditLog
	subscriptions map[uuid.UUID]models.WebhookSubscription
}

// NewFakeStore creates an empty fake store
func NewFakeStore() *FakeStore {
	return &FakeStore{
		shifts:        make(map[uuid.UUID]models.Shift),
		offers:        make(map[uuid.UUID]models.ShiftOffer),
		assignments:   make(map[uuid.UUID]models.Assignment),
		extensions:    make(map[uuid.UUID]models.AssignmentExtension),
		timesheets:    make(map[uuid.UUID]models.Timesheet),
		invoices:      make(map[uuid.UUID]models.Invoice),
		payouts:       make(map[uuid.UUID]models.Payout),
		payrolls:      make(map[uuid.UUID]models.Payroll),
		agencies:      make(map[uuid.UUID]models.Agency),
		employers:     make(map[uuid.UUID]models.Employer),
		employees:     make(map[uuid.UUID]models.Employee),
		locations:     make(map[uuid.UUID]models.Location),
		subscriptions: make(map[uuid.UUID]models.WebhookSubscription),
	}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// Seed helpers insert fixtures directly, bypassing uniqueness checks.

// SeedShift inserts a shift fixture
func (s *FakeStore) SeedShift(shift *models.Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts[shift.ID] = *shift
}

// SeedOffer inserts an offer fixture
func (s *FakeStore) SeedOffer(offer *models.ShiftOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[offer.ID] = *offer
}

// SeedAssignment inserts an assignment fixture
func (s *FakeStore) SeedAssignment(assignment *models.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[assignment.ID] = *assignment
}

// SeedTimesheet inserts a timesheet fixture
func (s *FakeStore) SeedTimesheet(timesheet *models.Timesheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timesheets[timesheet.ID] = *timesheet
}

// SeedInvoice inserts an invoice fixture
func (s *FakeStore) SeedInvoice(invoice *models.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[invoice.ID] = *invoice
}

// SeedPayout inserts a payout fixture
func (s *FakeStore) SeedPayout(payout *models.Payout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payouts[payout.ID] = *payout
}

// SeedAgency inserts an agency fixture
func (s *FakeStore) SeedAgency(agency *models.Agency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agencies[agency.ID] = *agency
}

// SeedEmployer inserts an employer fixture
func (s *FakeStore) SeedEmployer(employer *models.Employer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employers[employer.ID] = *employer
}

// SeedLocation inserts a location fixture
func (s *FakeStore) SeedLocation(location *models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[location.ID] = *location
}

// Store interface

// Shifts returns the shift repository
func (s *FakeStore) Shifts() repository.ShiftRepositoryInterface { return (*fakeShifts)(s) }

// Offers returns the shift offer repository
func (s *FakeStore) Offers() repository.ShiftOfferRepositoryInterface { return (*fakeOffers)(s) }

// Assignments returns the assignment repository
func (s *FakeStore) Assignments() repository.AssignmentRepositoryInterface {
	return (*fakeAssignments)(s)
}

// Extensions returns the assignment extension repository
func (s *FakeStore) Extensions() repository.AssignmentExtensionRepositoryInterface {
	return (*fakeExtensions)(s)
}

// Timesheets returns the timesheet repository
func (s *FakeStore) Timesheets() repository.TimesheetRepositoryInterface {
	return (*fakeTimesheets)(s)
}

// Invoices returns the invoice repository
func (s *FakeStore) Invoices() repository.InvoiceRepositoryInterface { return (*fakeInvoices)(s) }

// Payouts returns the payout repository
func (s *FakeStore) Payouts() repository.PayoutRepositoryInterface { return (*fakePayouts)(s) }

// Payrolls returns the payroll repository
func (s *FakeStore) Payrolls() repository.PayrollRepositoryInterface { return (*fakePayrolls)(s) }

// Parties returns the party repository
func (s *FakeStore) Parties() repository.PartyRepositoryInterface { return (*fakeParties)(s) }

// AuditLogs returns the audit log repository
func (s *FakeStore) AuditLogs() repository.AuditLogRepositoryInterface { return (*fakeAuditLogs)(s) }

// WebhookSubscriptions returns the webhook subscription repository
func (s *FakeStore) WebhookSubscriptions() repository.WebhookSubscriptionRepositoryInterface {
	return (*fakeSubscriptions)(s)
}

// Transaction runs fn against the same store
func (s *FakeStore) Transaction(fn func(repository.Store) error) error {
	return fn(s)
}

type fakeShifts FakeStore

func (r *fakeShifts) Create(shift *models.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&shift.ID)
	r.shifts[shift.ID] = *shift
	return nil
}

func (r *fakeShifts) GetByID(id uuid.UUID) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shift, ok := r.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &shift, nil
}

func (r *fakeShifts) GetForUpdate(id uuid.UUID) (*models.Shift, error) {
	return r.GetByID(id)
}

func (r *fakeShifts) Update(shift *models.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shifts[shift.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.shifts[shift.ID] = *shift
	return nil
}

func (r *fakeShifts) FutureNonTerminal(assignmentID uuid.UUID, after time.Time) ([]models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Shift
	for _, shift := range r.shifts {
		if shift.AssignmentID == nil || *shift.AssignmentID != assignmentID {
			continue
		}
		if !shift.StartTime.After(after) {
			continue
		}
		switch shift.Status {
		case models.ShiftStatusCompleted, models.ShiftStatusNoShow, models.ShiftStatusCancelled:
			continue
		}
		out = append(out, shift)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *fakeShifts) ListByAssignment(assignmentID uuid.UUID, limit, offset int) ([]models.Shift, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.Shift
	for _, shift := range r.shifts {
		if shift.AssignmentID != nil && *shift.AssignmentID == assignmentID {
			all = append(all, shift)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartTime.Before(all[j].StartTime) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

type fakeOffers FakeStore

func (r *fakeOffers) Create(offer *models.ShiftOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offer.Status == models.OfferStatusPending {
		for _, existing := range r.offers {
			if existing.ShiftID == offer.ShiftID && existing.Status == models.OfferStatusPending {
				return uniqueViolation("idx_shift_offers_pending_shift")
			}
		}
	}
	ensureID(&offer.ID)
	r.offers[offer.ID] = *offer
	return nil
}

func (r *fakeOffers) GetByID(id uuid.UUID) (*models.ShiftOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &offer, nil
}

func (r *fakeOffers) GetForUpdate(id uuid.UUID) (*models.ShiftOffer, error) {
	return r.GetByID(id)
}

func (r *fakeOffers) Update(offer *models.ShiftOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[offer.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	offer.UpdatedAt = time.Now()
	r.offers[offer.ID] = *offer
	return nil
}

func (r *fakeOffers) PendingByShift(shiftID uuid.UUID) (*models.ShiftOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, offer := range r.offers {
		if offer.ShiftID == shiftID && offer.Status == models.OfferStatusPending {
			o := offer
			return &o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOffers) AcceptedByShift(shiftID uuid.UUID) (*models.ShiftOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.ShiftOffer
	for _, offer := range r.offers {
		if offer.ShiftID != shiftID || offer.Status != models.OfferStatusAccepted {
			continue
		}
		o := offer
		if latest == nil || o.UpdatedAt.After(latest.UpdatedAt) {
			latest = &o
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *fakeOffers) ListExpiredPending(now time.Time, limit int) ([]models.ShiftOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ShiftOffer
	for _, offer := range r.offers {
		if offer.Status == models.OfferStatusPending && !offer.ExpiresAt.After(now) {
			out = append(out, offer)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeAssignments FakeStore

func (r *fakeAssignments) Create(assignment *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&assignment.ID)
	r.assignments[assignment.ID] = *assignment
	return nil
}

func (r *fakeAssignments) GetByID(id uuid.UUID) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment, ok := r.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &assignment, nil
}

func (r *fakeAssignments) GetForUpdate(id uuid.UUID) (*models.Assignment, error) {
	return r.GetByID(id)
}

func (r *fakeAssignments) Update(assignment *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.assignments[assignment.ID] = *assignment
	return nil
}

type fakeExtensions FakeStore

func (r *fakeExtensions) Create(ext *models.AssignmentExtension) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&ext.ID)
	r.extensions[ext.ID] = *ext
	return nil
}

func (r *fakeExtensions) ListByAssignment(assignmentID uuid.UUID) ([]models.AssignmentExtension, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AssignmentExtension
	for _, ext := range r.extensions {
		if ext.AssignmentID == assignmentID {
			out = append(out, ext)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeTimesheets FakeStore

func (r *fakeTimesheets) Create(timesheet *models.Timesheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.timesheets {
		if existing.ShiftID == timesheet.ShiftID {
			return uniqueViolation("idx_timesheets_shift_id")
		}
	}
	ensureID(&timesheet.ID)
	r.timesheets[timesheet.ID] = *timesheet
	return nil
}

func (r *fakeTimesheets) GetByID(id uuid.UUID) (*models.Timesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	timesheet, ok := r.timesheets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &timesheet, nil
}

func (r *fakeTimesheets) GetForUpdate(id uuid.UUID) (*models.Timesheet, error) {
	return r.GetByID(id)
}

func (r *fakeTimesheets) GetByShiftID(shiftID uuid.UUID) (*models.Timesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, timesheet := range r.timesheets {
		if timesheet.ShiftID == shiftID {
			t := timesheet
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTimesheets) Update(timesheet *models.Timesheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.timesheets[timesheet.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.timesheets[timesheet.ID] = *timesheet
	return nil
}

type fakeInvoices FakeStore

func (r *fakeInvoices) Create(invoice *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if invoice.TimesheetID != nil && existing.TimesheetID != nil && *existing.TimesheetID == *invoice.TimesheetID {
			return uniqueViolation("idx_invoices_timesheet_id")
		}
		if invoice.SourceInvoiceID != nil && existing.SourceInvoiceID != nil && *existing.SourceInvoiceID == *invoice.SourceInvoiceID {
			return uniqueViolation("idx_invoices_source_invoice_id")
		}
	}
	ensureID(&invoice.ID)
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *fakeInvoices) GetByID(id uuid.UUID) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &invoice, nil
}

func (r *fakeInvoices) GetForUpdate(id uuid.UUID) (*models.Invoice, error) {
	return r.GetByID(id)
}

func (r *fakeInvoices) Update(invoice *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[invoice.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *fakeInvoices) GetByTimesheetID(timesheetID uuid.UUID) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invoice := range r.invoices {
		if invoice.TimesheetID != nil && *invoice.TimesheetID == timesheetID {
			inv := invoice
			return &inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInvoices) GetBySourceInvoiceID(sourceInvoiceID uuid.UUID) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invoice := range r.invoices {
		if invoice.SourceInvoiceID != nil && *invoice.SourceInvoiceID == sourceInvoiceID {
			inv := invoice
			return &inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePayouts FakeStore

func (r *fakePayouts) Create(payout *models.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&payout.ID)
	r.payouts[payout.ID] = *payout
	return nil
}

func (r *fakePayouts) GetByID(id uuid.UUID) (*models.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payout, ok := r.payouts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &payout, nil
}

func (r *fakePayouts) GetForUpdate(id uuid.UUID) (*models.Payout, error) {
	return r.GetByID(id)
}

func (r *fakePayouts) Update(payout *models.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payouts[payout.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.payouts[payout.ID] = *payout
	return nil
}

func (r *fakePayouts) GetByAgencyAndPeriod(agencyID uuid.UUID, periodStart time.Time) (*models.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payout := range r.payouts {
		if payout.AgencyID == agencyID && payout.PeriodStart.Equal(periodStart) {
			p := payout
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePayrolls FakeStore

func (r *fakePayrolls) Create(payroll *models.Payroll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.payrolls {
		if payroll.PayoutID != nil && existing.PayoutID != nil &&
			*existing.PayoutID == *payroll.PayoutID && existing.EmployeeID == payroll.EmployeeID {
			return uniqueViolation("idx_payrolls_payout_employee")
		}
	}
	ensureID(&payroll.ID)
	r.payrolls[payroll.ID] = *payroll
	return nil
}

func (r *fakePayrolls) Update(payroll *models.Payroll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payrolls[payroll.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.payrolls[payroll.ID] = *payroll
	return nil
}

func (r *fakePayrolls) GetByPayoutAndEmployee(payoutID, employeeID uuid.UUID) (*models.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payroll := range r.payrolls {
		if payroll.PayoutID != nil && *payroll.PayoutID == payoutID && payroll.EmployeeID == employeeID {
			p := payroll
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePayrolls) ListByPayout(payoutID uuid.UUID) ([]models.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Payroll
	for _, payroll := range r.payrolls {
		if payroll.PayoutID != nil && *payroll.PayoutID == payoutID {
			out = append(out, payroll)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeParties FakeStore

func (r *fakeParties) CreateAgency(agency *models.Agency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&agency.ID)
	r.agencies[agency.ID] = *agency
	return nil
}

func (r *fakeParties) GetAgency(id uuid.UUID) (*models.Agency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agency, ok := r.agencies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &agency, nil
}

func (r *fakeParties) CreateEmployer(employer *models.Employer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&employer.ID)
	r.employers[employer.ID] = *employer
	return nil
}

func (r *fakeParties) GetEmployer(id uuid.UUID) (*models.Employer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	employer, ok := r.employers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &employer, nil
}

func (r *fakeParties) CreateEmployee(employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&employee.ID)
	r.employees[employee.ID] = *employee
	return nil
}

func (r *fakeParties) GetEmployee(id uuid.UUID) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	employee, ok := r.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &employee, nil
}

func (r *fakeParties) CreateLocation(location *models.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&location.ID)
	r.locations[location.ID] = *location
	return nil
}

func (r *fakeParties) GetLocation(id uuid.UUID) (*models.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	location, ok := r.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &location, nil
}

type fakeAuditLogs FakeStore

func (r *fakeAuditLogs) Create(log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&log.ID)
	r.auditLogs = append(r.auditLogs, *log)
	return nil
}

func (r *fakeAuditLogs) ListByTarget(targetID uuid.UUID, limit, offset int) ([]models.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.AuditLog
	for _, log := range r.auditLogs {
		if log.TargetID == targetID {
			all = append(all, log)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

// AuditCount returns the total number of audit rows recorded
func (s *FakeStore) AuditCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.auditLogs)
}

type fakeSubscriptions FakeStore

func (r *fakeSubscriptions) Create(sub *models.WebhookSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&sub.ID)
	r.subscriptions[sub.ID] = *sub
	return nil
}

func (r *fakeSubscriptions) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscriptions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.subscriptions, id)
	return nil
}

func (r *fakeSubscriptions) ListForEvent(event string) ([]models.WebhookSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WebhookSubscription
	for _, sub := range r.subscriptions {
		if sub.Active && (sub.Event == event || sub.Event == "*") {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *fakeSubscriptions) ListAll() ([]models.WebhookSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.WebhookSubscription, 0, len(r.subscriptions))
	for _, sub := range r.subscriptions {
		out = append(out, sub)
	}
	return out, nil
}
