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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ShiftServiceTestSuite struct {
	suite.Suite
	store   *testutils.FakeStore
	bus     *testutils.RecordingBus
	service *workflow.ShiftService
	now     time.Time
	ctx     context.Context
}

func (suite *ShiftServiceTestSuite) SetupTest() {
	suite.store = testutils.NewFakeStore()
	suite.bus = testutils.NewRecordingBus()
	suite.now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	suite.ctx = context.Background()
	suite.service = workflow.NewShiftService(suite.store, suite.bus, validator.New(), 2*time.Hour).
		WithClock(func() time.Time { return suite.now })
}

func (suite *ShiftServiceTestSuite) TestRequest_CreatesOpenShift() {
	start := suite.now.Add(24 * time.Hour)
	shift, err := suite.service.Request(suite.ctx, &workflow.RequestShiftRequest{
		LocationID: uuid.New(),
		StartTime:  start,
		EndTime:    start.Add(8 * time.Hour),
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.ShiftStatusOpen, shift.Status)
	assert.Equal(suite.T(), []string{events.ShiftRequested}, suite.bus.Names())
}

func (suite *ShiftServiceTestSuite) TestRequest_EndBeforeStart() {
	start := suite.now.Add(24 * time.Hour)
	_, err := suite.service.Request(suite.ctx, &workflow.RequestShiftRequest{
		LocationID: uuid.New(),
		StartTime:  start,
		EndTime:    start.Add(-time.Hour),
	})

	var validation *apperrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validation)
}

func (suite *ShiftServiceTestSuite) TestRequest_SuspendedAssignment() {
	assignment := testutils.NewAssignmentFactory().WithStatus(models.AssignmentStatusSuspended)
	suite.store.SeedAssignment(assignment)

	start := suite.now.Add(24 * time.Hour)
	_, err := suite.service.Request(suite.ctx, &workflow.RequestShiftRequest{
		AssignmentID: &assignment.ID,
		LocationID:   uuid.New(),
		StartTime:    start,
		EndTime:      start.Add(8 * time.Hour),
	})

	var validation *apperrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validation)
}

func (suite *ShiftServiceTestSuite) TestOffer_LocksShift() {
	shift := testutils.NewShiftFactory().Create()
	suite.store.SeedShift(shift)

	offer, err := suite.service.Offer(suite.ctx, &workflow.OfferShiftRequest{
		ShiftID:     shift.ID,
		EmployeeID:  uuid.New(),
		OfferedByID: uuid.New(),
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OfferStatusPending, offer.Status)
	assert.Equal(suite.T(), suite.now.Add(2*time.Hour), offer.ExpiresAt)

	updated, _ := suite.store.Shifts().GetByID(shift.ID)
	assert.Equal(suite.T(), models.ShiftStatusOffered, updated.Status)
	assert.Equal(suite.T(), []string{events.ShiftOffered, events.OfferSent}, suite.bus.Names())

	// The pending offer is the candidate lock: no second offer allowed
	_, err = suite.service.Offer(suite.ctx, &workflow.OfferShiftRequest{
		ShiftID:     shift.ID,
		EmployeeID:  uuid.New(),
		OfferedByID: uuid.New(),
	})
	var locked *apperrors.AlreadyLockedError
	assert.ErrorAs(suite.T(), err, &locked)
	assert.Equal(suite.T(), shift.ID, locked.ShiftID)
}

func (suite *ShiftServiceTestSuite) TestOffer_AssignedShift() {
	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusAssigned)
	suite.store.SeedShift(shift)

	_, err := suite.service.Offer(suite.ctx, &workflow.OfferShiftRequest{
		ShiftID:     shift.ID,
		EmployeeID:  uuid.New(),
		OfferedByID: uuid.New(),
	})

	var invalid *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &invalid)
}

func (suite *ShiftServiceTestSuite) TestAccept_AssignsShiftExactlyOnce() {
	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusOffered)
	suite.store.SeedShift(shift)
	offer := testutils.NewOfferFactory().ForShift(shift.ID)
	suite.store.SeedOffer(offer)

	accepted, err := suite.service.Accept(suite.ctx, offer.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OfferStatusAccepted, accepted.Status)
	updated, _ := suite.store.Shifts().GetByID(shift.ID)
	assert.Equal(suite.T(), models.ShiftStatusAssigned, updated.Status)
	assert.Equal(suite.T(), []string{events.OfferAccepted, events.ShiftAssigned}, suite.bus.Names())

	// A repeated accept is a no-op and publishes nothing
	suite.bus.Reset()
	again, err := suite.service.Accept(suite.ctx, offer.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OfferStatusAccepted, again.Status)
	assert.Empty(suite.T(), suite.bus.Names())
}

func (suite *ShiftServiceTestSuite) TestAccept_ShiftAlreadyAssigned() {
	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusAssigned)
	suite.store.SeedShift(shift)
	offer := testutils.NewOfferFactory().ForShift(shift.ID)
	suite.store.SeedOffer(offer)

	_, err := suite.service.Accept(suite.ctx, offer.ID)

	var already *apperrors.AlreadyAssignedError
	assert.ErrorAs(suite.T(), err, &already)
}

func (suite *ShiftServiceTestSuite) TestAccept_ExpiredOfferReopensShift() {
	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusOffered)
	suite.store.SeedShift(shift)
	offer := testutils.NewOfferFactory().ForShift(shift.ID)
	offer.ExpiresAt = suite.now.Add(-time.Hour)
	suite.store.SeedOffer(offer)

	// A late accept between sweeps must not win the shift
	_, err := suite.service.Accept(suite.ctx, offer.ID)

	var invalid *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &invalid)

	expired, _ := suite.store.Offers().GetByID(offer.ID)
	assert.Equal(suite.T(), models.OfferStatusExpired, expired.Status)
	reopened, _ := suite.store.Shifts().GetByID(shift.ID)
	assert.Equal(suite.T(), models.ShiftStatusOpen, reopened.Status)
	assert.Equal(suite.T(), []string{events.OfferExpired}, suite.bus.Names())
}

func (suite *ShiftServiceTestSuite) TestReject_ReopensShift() {
	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusOffered)
	suite.store.SeedShift(shift)
	offer := testutils.NewOfferFactory().ForShift(shift.ID)
	suite.store.SeedOffer(offer)

	rejected, err := suite.service.Reject(suite.ctx, offer.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OfferStatusRejected, rejected.Status)
	updated, _ := suite.store.Shifts().GetByID(shift.ID)
	assert.Equal(suite.T(), models.ShiftStatusOpen, updated.Status)
	assert.Equal(suite.T(), []string{events.OfferRejected}, suite.bus.Names())
}

func (suite *ShiftServiceTestSuite) TestClockInAndOut_ComputesHours() {
	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusAssigned)
	suite.store.SeedShift(shift)
	offer := testutils.NewOfferFactory().ForShift(shift.ID)
	offer.Status = models.OfferStatusAccepted
	suite.store.SeedOffer(offer)

	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	_, err := suite.service.ClockIn(suite.ctx, shift.ID, clockIn)
	assert.NoError(suite.T(), err)

	inProgress, _ := suite.store.Shifts().GetByID(shift.ID)
	assert.Equal(suite.T(), models.ShiftStatusInProgress, inProgress.Status)

	// 8h05m on the clock minus a 30 minute break is 7.58 hours
	clockOut := clockIn.Add(8*time.Hour + 5*time.Minute)
	timesheet, err := suite.service.ClockOut(suite.ctx, shift.ID, clockOut, 30)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "7.58", timesheet.HoursWorked.StringFixed(2))
	assert.Equal(suite.T(), offer.EmployeeID, timesheet.EmployeeID)
	assert.Equal(suite.T(), models.TimesheetStatusPending, timesheet.Status)

	completed, _ := suite.store.Shifts().GetByID(shift.ID)
	assert.Equal(suite.T(), models.ShiftStatusCompleted, completed.Status)
	assert.Contains(suite.T(), suite.bus.Names(), events.TimesheetSubmitted)
	assert.Contains(suite.T(), suite.bus.Names(), events.ShiftCompleted)

	// A repeated clock-out neither duplicates the timesheet nor republishes
	suite.bus.Reset()
	again, err := suite.service.ClockOut(suite.ctx, shift.ID, clockOut.Add(time.Hour), 0)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), timesheet.ID, again.ID)
	assert.Equal(suite.T(), "7.58", again.HoursWorked.StringFixed(2))
	assert.Empty(suite.T(), suite.bus.Names())
}

func (suite *ShiftServiceTestSuite) TestCancel_RequiresReason() {
	shift := testutils.NewShiftFactory().Create()
	suite.store.SeedShift(shift)

	_, err := suite.service.Cancel(suite.ctx, shift.ID, "")

	var validation *apperrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validation)
}

func (suite *ShiftServiceTestSuite) TestCancel_ReleasesPendingOffer() {
	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusOffered)
	suite.store.SeedShift(shift)
	offer := testutils.NewOfferFactory().ForShift(shift.ID)
	suite.store.SeedOffer(offer)

	cancelled, err := suite.service.Cancel(suite.ctx, shift.ID, "site closed")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.ShiftStatusCancelled, cancelled.Status)
	assert.Equal(suite.T(), "site closed", cancelled.CancellationReason)

	released, _ := suite.store.Offers().GetByID(offer.ID)
	assert.Equal(suite.T(), models.OfferStatusExpired, released.Status)
	assert.Equal(suite.T(), []string{events.OfferExpired, events.ShiftCancelled}, suite.bus.Names())
}

func (suite *ShiftServiceTestSuite) TestCancel_CompletedShift() {
	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusCompleted)
	suite.store.SeedShift(shift)

	_, err := suite.service.Cancel(suite.ctx, shift.ID, "too late")

	var invalid *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &invalid)
}

func (suite *ShiftServiceTestSuite) TestExpireOffers_ReopensShift() {
	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusOffered)
	suite.store.SeedShift(shift)
	expired := testutils.NewOfferFactory().ForShift(shift.ID)
	expired.ExpiresAt = suite.now.Add(-time.Minute)
	suite.store.SeedOffer(expired)

	freshShift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusOffered)
	suite.store.SeedShift(freshShift)
	fresh := testutils.NewOfferFactory().ForShift(freshShift.ID)
	fresh.ExpiresAt = suite.now.Add(time.Hour)
	suite.store.SeedOffer(fresh)

	count, err := suite.service.ExpireOffers(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, count)

	swept, _ := suite.store.Offers().GetByID(expired.ID)
	assert.Equal(suite.T(), models.OfferStatusExpired, swept.Status)
	reopened, _ := suite.store.Shifts().GetByID(shift.ID)
	assert.Equal(suite.T(), models.ShiftStatusOpen, reopened.Status)

	untouched, _ := suite.store.Offers().GetByID(fresh.ID)
	assert.Equal(suite.T(), models.OfferStatusPending, untouched.Status)
	assert.Equal(suite.T(), []string{events.OfferExpired}, suite.bus.Names())
}

func TestShiftServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ShiftServiceTestSuite))
}
