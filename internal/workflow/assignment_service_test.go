package workflow_test

import (
	"context"
	"testing"
	"time"

	"staffing-platform-backend/internal/database/models"
	apperrors "staffing-platform-backend/internal/errors"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/testutils"
	"staffing-platform-backend/internal/workflow"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AssignmentServiceTestSuite struct {
	suite.Suite
	store   *testutils.FakeStore
	bus     *testutils.RecordingBus
	service *workflow.AssignmentService
	now     time.Time
	ctx     context.Context
}

func (suite *AssignmentServiceTestSuite) SetupTest() {
	suite.store = testutils.NewFakeStore()
	suite.bus = testutils.NewRecordingBus()
	suite.now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	suite.ctx = context.Background()
	suite.service = workflow.NewAssignmentService(suite.store, suite.bus, validator.New()).
		WithClock(func() time.Time { return suite.now })
}

func (suite *AssignmentServiceTestSuite) createRequest() *workflow.CreateAssignmentRequest {
	end := suite.now.AddDate(0, 6, 0)
	return &workflow.CreateAssignmentRequest{
		ContractID: uuid.New(),
		AgencyID:   uuid.New(),
		EmployeeID: uuid.New(),
		LocationID: uuid.New(),
		Role:       "forklift operator",
		StartDate:  suite.now,
		EndDate:    &end,
		AgreedRate: decimal.NewFromInt(25),
		PayRate:    decimal.NewFromInt(20),
	}
}

func (suite *AssignmentServiceTestSuite) TestCreate_DerivesMarkup() {
	assignment, err := suite.service.Create(suite.ctx, suite.createRequest())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssignmentStatusPending, assignment.Status)
	assert.Equal(suite.T(), "5.00", assignment.MarkupAmount.StringFixed(2))
	assert.Equal(suite.T(), "25.00", assignment.MarkupPercent.StringFixed(2))
}

func (suite *AssignmentServiceTestSuite) TestCreate_PayAboveAgreed() {
	req := suite.createRequest()
	req.AgreedRate = decimal.NewFromInt(18)

	_, err := suite.service.Create(suite.ctx, req)

	var validation *apperrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validation)
}

func (suite *AssignmentServiceTestSuite) TestLifecycle_Transitions() {
	assignment := testutils.NewAssignmentFactory().WithStatus(models.AssignmentStatusPending)
	suite.store.SeedAssignment(assignment)

	activated, err := suite.service.Activate(suite.ctx, assignment.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssignmentStatusActive, activated.Status)

	suspended, err := suite.service.Suspend(suite.ctx, assignment.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssignmentStatusSuspended, suspended.Status)

	reactivated, err := suite.service.Reactivate(suite.ctx, assignment.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssignmentStatusActive, reactivated.Status)

	completed, err := suite.service.Complete(suite.ctx, assignment.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssignmentStatusCompleted, completed.Status)

	assert.Equal(suite.T(), []string{
		events.AssignmentActivated,
		events.AssignmentSuspended,
		events.AssignmentActivated,
		events.AssignmentCompleted,
	}, suite.bus.Names())
}

func (suite *AssignmentServiceTestSuite) TestActivate_AlreadyActiveIsNoOp() {
	assignment := testutils.NewAssignmentFactory().Create()
	suite.store.SeedAssignment(assignment)

	activated, err := suite.service.Activate(suite.ctx, assignment.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssignmentStatusActive, activated.Status)
	assert.Empty(suite.T(), suite.bus.Names())
}

func (suite *AssignmentServiceTestSuite) TestComplete_FromPending() {
	assignment := testutils.NewAssignmentFactory().WithStatus(models.AssignmentStatusPending)
	suite.store.SeedAssignment(assignment)

	_, err := suite.service.Complete(suite.ctx, assignment.ID)

	var invalid *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &invalid)
}

func (suite *AssignmentServiceTestSuite) TestCancel_CascadesToFutureShifts() {
	assignment := testutils.NewAssignmentFactory().Create()
	suite.store.SeedAssignment(assignment)

	// Future open shift with a pending offer holding the candidate lock
	future := testutils.NewShiftFactory().WithAssignment(assignment.ID)
	future.StartTime = suite.now.Add(48 * time.Hour)
	future.Status = models.ShiftStatusOffered
	suite.store.SeedShift(future)
	pending := testutils.NewOfferFactory().ForShift(future.ID)
	suite.store.SeedOffer(pending)

	// Past completed shift must stay untouched
	past := testutils.NewShiftFactory().WithAssignment(assignment.ID)
	past.StartTime = suite.now.Add(-48 * time.Hour)
	past.Status = models.ShiftStatusCompleted
	suite.store.SeedShift(past)

	cancelled, err := suite.service.Cancel(suite.ctx, assignment.ID, "contract terminated")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssignmentStatusCancelled, cancelled.Status)
	assert.Equal(suite.T(), "contract terminated", cancelled.CancellationNote)

	cascaded, _ := suite.store.Shifts().GetByID(future.ID)
	assert.Equal(suite.T(), models.ShiftStatusCancelled, cascaded.Status)
	assert.Contains(suite.T(), cascaded.CancellationReason, "assignment cancelled: contract terminated")

	released, _ := suite.store.Offers().GetByID(pending.ID)
	assert.Equal(suite.T(), models.OfferStatusExpired, released.Status)

	untouched, _ := suite.store.Shifts().GetByID(past.ID)
	assert.Equal(suite.T(), models.ShiftStatusCompleted, untouched.Status)

	assert.Equal(suite.T(), []string{events.ShiftCancelled, events.AssignmentCancelled}, suite.bus.Names())
}

func (suite *AssignmentServiceTestSuite) TestCancel_RequiresNote() {
	assignment := testutils.NewAssignmentFactory().Create()
	suite.store.SeedAssignment(assignment)

	_, err := suite.service.Cancel(suite.ctx, assignment.ID, "")

	var validation *apperrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validation)
}

func (suite *AssignmentServiceTestSuite) TestExtend_RecordsPriorEndDate() {
	assignment := testutils.NewAssignmentFactory().Create()
	suite.store.SeedAssignment(assignment)
	priorEnd := *assignment.EndDate

	newEnd := priorEnd.AddDate(0, 1, 0)
	extended, err := suite.service.Extend(suite.ctx, &workflow.ExtendAssignmentRequest{
		AssignmentID: assignment.ID,
		NewEndDate:   newEnd,
		Reason:       "client renewal",
		ExtendedByID: uuid.New(),
	})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), extended.EndDate.Equal(newEnd))

	exts, _ := suite.store.Extensions().ListByAssignment(assignment.ID)
	assert.Len(suite.T(), exts, 1)
	assert.True(suite.T(), exts[0].PriorEndDate.Equal(priorEnd))
	assert.Equal(suite.T(), []string{events.AssignmentExtended}, suite.bus.Names())
}

func (suite *AssignmentServiceTestSuite) TestExtend_NotBeyondCurrentEnd() {
	assignment := testutils.NewAssignmentFactory().Create()
	suite.store.SeedAssignment(assignment)

	_, err := suite.service.Extend(suite.ctx, &workflow.ExtendAssignmentRequest{
		AssignmentID: assignment.ID,
		NewEndDate:   assignment.EndDate.AddDate(0, -1, 0),
		Reason:       "backdated",
	})

	var validation *apperrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validation)
}

func (suite *AssignmentServiceTestSuite) TestExtend_SuspendedAssignment() {
	assignment := testutils.NewAssignmentFactory().WithStatus(models.AssignmentStatusSuspended)
	suite.store.SeedAssignment(assignment)

	_, err := suite.service.Extend(suite.ctx, &workflow.ExtendAssignmentRequest{
		AssignmentID: assignment.ID,
		NewEndDate:   assignment.EndDate.AddDate(0, 1, 0),
		Reason:       "renewal",
	})

	var invalid *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &invalid)
}

func (suite *AssignmentServiceTestSuite) TestCorrectRates_RecomputesMarkup() {
	assignment := testutils.NewAssignmentFactory().Create()
	suite.store.SeedAssignment(assignment)

	corrected, err := suite.service.CorrectRates(suite.ctx, &workflow.CorrectRatesRequest{
		AssignmentID: assignment.ID,
		AgreedRate:   decimal.NewFromInt(30),
		PayRate:      decimal.NewFromInt(24),
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "6.00", corrected.MarkupAmount.StringFixed(2))
	assert.Equal(suite.T(), "25.00", corrected.MarkupPercent.StringFixed(2))
}

func TestAssignmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentServiceTestSuite))
}
