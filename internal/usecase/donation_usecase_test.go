package usecase

import (
	"errors"
	"testing"
	"time"

	"goodloop/internal/entity"
	"goodloop/pkg/classifier"
	"goodloop/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type donationFixture struct {
	donationRepo *MockDonationRepository
	uploader     *MockUploader
	classifier   *MockClassifier
	publisher    *MockPublisher
	uc           DonationUseCase
}

func newDonationFixture() *donationFixture {
	f := &donationFixture{
		donationRepo: new(MockDonationRepository),
		uploader:     new(MockUploader),
		classifier:   new(MockClassifier),
		publisher:    new(MockPublisher),
	}
	f.uc = NewDonationUseCase(f.donationRepo, f.uploader, f.classifier, f.publisher, logger.New())
	return f
}

func TestSubmit(t *testing.T) {
	f := newDonationFixture()
	f.uploader.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).
		Return("https://cdn.example.com/donor-1/img.jpg", nil)
	f.classifier.On("Classify", mock.Anything, "https://cdn.example.com/donor-1/img.jpg", "Winter jacket").
		Return(&classifier.Suggestion{Category: "clothing", Confidence: 0.88, ClothType: "jacket", Color: "navy"}, nil)
	f.donationRepo.On("Create", mock.MatchedBy(func(d *entity.Donation) bool {
		return d.DonorID == "donor-1" &&
			d.Status == entity.StatusUploaded &&
			d.Category == entity.CategoryClothing &&
			d.ClothType == "jacket" &&
			d.AIConfidence != nil
	})).Return(nil)

	donation, err := f.uc.Submit("donor-1", SubmitDonationInput{
		Title:       "Winter jacket",
		CreditValue: 10,
	}, makeFileHeaders(t, "img.jpg"))

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusUploaded, donation.Status)
	assert.Len(t, donation.Images, 1)
	f.donationRepo.AssertExpectations(t)
}

func TestSubmit_NoTitle(t *testing.T) {
	f := newDonationFixture()

	_, err := f.uc.Submit("donor-1", SubmitDonationInput{}, makeFileHeaders(t, "img.jpg"))

	assert.ErrorIs(t, err, entity.ErrValidation)
	f.donationRepo.AssertNotCalled(t, "Create")
}

func TestSubmit_NoImages(t *testing.T) {
	f := newDonationFixture()

	_, err := f.uc.Submit("donor-1", SubmitDonationInput{Title: "Jacket"}, nil)

	assert.ErrorIs(t, err, entity.ErrValidation)
	f.donationRepo.AssertNotCalled(t, "Create")
}

func TestSubmit_NegativeValue(t *testing.T) {
	f := newDonationFixture()

	_, err := f.uc.Submit("donor-1", SubmitDonationInput{Title: "Jacket", CreditValue: -1}, makeFileHeaders(t, "img.jpg"))

	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestSubmit_ClassifierDown(t *testing.T) {
	f := newDonationFixture()
	f.uploader.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).
		Return("https://cdn.example.com/donor-1/img.jpg", nil)
	f.classifier.On("Classify", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))
	f.donationRepo.On("Create", mock.MatchedBy(func(d *entity.Donation) bool {
		// Classifier failure means no suggestion, never a hard error.
		return d.AIConfidence == nil && d.Category == entity.CategoryOther
	})).Return(nil)

	donation, err := f.uc.Submit("donor-1", SubmitDonationInput{Title: "Mystery box"}, makeFileHeaders(t, "img.jpg"))

	assert.NoError(t, err)
	assert.Nil(t, donation.AIConfidence)
}

func TestApprove(t *testing.T) {
	f := newDonationFixture()
	listed := &entity.Donation{
		ID:          "don-1",
		DonorID:     "donor-1",
		Title:       "Winter jacket",
		Category:    entity.CategoryClothing,
		CreditValue: 10,
		Status:      entity.StatusListed,
	}
	listing := &entity.Listing{ID: "lst-1", SourceDonationID: "don-1", CreditCost: 10, IsAvailable: true}

	f.donationRepo.On("ApproveAndList", "don-1", entity.Category(""), mock.AnythingOfType("time.Time")).
		Return(listed, listing, nil)
	f.publisher.On("PublishNotificationTask", mock.MatchedBy(func(task map[string]interface{}) bool {
		return task["user_id"] == "donor-1" && task["type"] == entity.NotificationDonationApproved
	})).Return(nil)

	donation, err := f.uc.Approve("don-1", "admin-1")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusListed, donation.Status)
	f.donationRepo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestApprove_WrongState(t *testing.T) {
	f := newDonationFixture()
	f.donationRepo.On("ApproveAndList", "don-1", entity.Category(""), mock.AnythingOfType("time.Time")).
		Return(nil, nil, entity.GuardError(entity.StatusListed, "approve"))

	_, err := f.uc.Approve("don-1", "admin-1")

	assert.ErrorIs(t, err, entity.ErrGuardViolation)
	f.publisher.AssertNotCalled(t, "PublishNotificationTask")
}

func TestApprove_ListingWriteFails(t *testing.T) {
	f := newDonationFixture()
	// The repository rolled the whole approval back, so nothing may leak
	// out to the donor and the retried approve starts from uploaded again.
	f.donationRepo.On("ApproveAndList", "don-1", entity.Category(""), mock.AnythingOfType("time.Time")).
		Return(nil, nil, errors.New("connection reset")).Once()

	_, err := f.uc.Approve("don-1", "admin-1")
	assert.Error(t, err)
	f.publisher.AssertNotCalled(t, "PublishNotificationTask")

	f.donationRepo.On("ApproveAndList", "don-1", entity.Category(""), mock.AnythingOfType("time.Time")).
		Return(&entity.Donation{ID: "don-1", DonorID: "donor-1", Status: entity.StatusListed},
			&entity.Listing{ID: "lst-1", SourceDonationID: "don-1"}, nil).Once()
	f.publisher.On("PublishNotificationTask", mock.Anything).Return(nil)

	donation, err := f.uc.Approve("don-1", "admin-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.StatusListed, donation.Status)
}

func TestReclassify(t *testing.T) {
	f := newDonationFixture()
	listed := &entity.Donation{
		ID:       "don-1",
		DonorID:  "donor-1",
		Title:    "Shirt",
		Category: entity.CategoryClothing,
		Status:   entity.StatusListed,
	}

	f.donationRepo.On("ApproveAndList", "don-1", entity.CategoryClothing, mock.AnythingOfType("time.Time")).
		Return(listed, &entity.Listing{ID: "lst-1"}, nil)
	f.publisher.On("PublishNotificationTask", mock.Anything).Return(nil)

	_, err := f.uc.Reclassify("don-1", "admin-1", entity.CategoryClothing)

	assert.NoError(t, err)
	f.donationRepo.AssertExpectations(t)
}

func TestReclassify_UnknownCategory(t *testing.T) {
	f := newDonationFixture()

	_, err := f.uc.Reclassify("don-1", "admin-1", entity.Category("furniture"))

	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestReject(t *testing.T) {
	f := newDonationFixture()
	rejected := &entity.Donation{
		ID:              "don-1",
		DonorID:         "donor-1",
		Title:           "Torn shirt",
		Status:          entity.StatusRejected,
		RejectionReason: "item damaged",
	}

	f.donationRepo.On("Reject", "don-1", "item damaged").Return(rejected, nil)
	f.publisher.On("PublishNotificationTask", mock.MatchedBy(func(task map[string]interface{}) bool {
		return task["type"] == entity.NotificationDonationRejected
	})).Return(nil)

	donation, err := f.uc.Reject("don-1", "admin-1", "item damaged")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, donation.Status)
	assert.Equal(t, "item damaged", donation.RejectionReason)
	f.publisher.AssertExpectations(t)
}

func TestReject_NoReason(t *testing.T) {
	f := newDonationFixture()

	_, err := f.uc.Reject("don-1", "admin-1", "")

	assert.ErrorIs(t, err, entity.ErrValidation)
	f.donationRepo.AssertNotCalled(t, "Reject")
}

func TestReopen(t *testing.T) {
	f := newDonationFixture()
	reopened := &entity.Donation{ID: "don-1", Status: entity.StatusUploaded}
	f.donationRepo.On("Reopen", "don-1").Return(reopened, nil)

	donation, err := f.uc.Reopen("don-1", "admin-1")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusUploaded, donation.Status)
	assert.Empty(t, donation.RejectionReason)
}

func TestMarkReceived_WrongState(t *testing.T) {
	f := newDonationFixture()
	f.donationRepo.On("MarkReceived", "don-1", mock.AnythingOfType("time.Time")).
		Return(nil, entity.GuardError(entity.StatusListed, "mark received"))

	_, err := f.uc.MarkReceived("don-1")

	assert.ErrorIs(t, err, entity.ErrGuardViolation)
}

func TestMarkReceived(t *testing.T) {
	f := newDonationFixture()
	now := time.Now()
	received := &entity.Donation{ID: "don-1", Status: entity.StatusReceived, ReceivedAt: &now}
	f.donationRepo.On("MarkReceived", "don-1", mock.AnythingOfType("time.Time")).Return(received, nil)

	donation, err := f.uc.MarkReceived("don-1")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusReceived, donation.Status)
	assert.NotNil(t, donation.ReceivedAt)
}

func TestEditValue_Negative(t *testing.T) {
	f := newDonationFixture()

	err := f.uc.EditValue("don-1", -5)

	assert.ErrorIs(t, err, entity.ErrValidation)
	f.donationRepo.AssertNotCalled(t, "UpdateCreditValue")
}

func TestRemoveImage(t *testing.T) {
	f := newDonationFixture()
	donation := &entity.Donation{
		ID:      "don-1",
		DonorID: "donor-1",
		Status:  entity.StatusUploaded,
		Images: []entity.DonationImage{
			{ID: "img-1"}, {ID: "img-2"},
		},
	}
	f.donationRepo.On("GetByID", "don-1").Return(donation, nil)
	f.donationRepo.On("RemoveImage", "don-1", "img-2").Return(nil)

	err := f.uc.RemoveImage("don-1", "donor-1", "img-2")

	assert.NoError(t, err)
	f.donationRepo.AssertExpectations(t)
}

func TestRemoveImage_NotOwner(t *testing.T) {
	f := newDonationFixture()
	donation := &entity.Donation{ID: "don-1", DonorID: "donor-1", Status: entity.StatusUploaded,
		Images: []entity.DonationImage{{ID: "img-1"}, {ID: "img-2"}}}
	f.donationRepo.On("GetByID", "don-1").Return(donation, nil)

	err := f.uc.RemoveImage("don-1", "donor-2", "img-2")

	assert.ErrorIs(t, err, entity.ErrForbidden)
	f.donationRepo.AssertNotCalled(t, "RemoveImage")
}

func TestRemoveImage_AfterVerification(t *testing.T) {
	f := newDonationFixture()
	donation := &entity.Donation{ID: "don-1", DonorID: "donor-1", Status: entity.StatusListed,
		Images: []entity.DonationImage{{ID: "img-1"}, {ID: "img-2"}}}
	f.donationRepo.On("GetByID", "don-1").Return(donation, nil)

	err := f.uc.RemoveImage("don-1", "donor-1", "img-2")

	assert.ErrorIs(t, err, entity.ErrGuardViolation)
	f.donationRepo.AssertNotCalled(t, "RemoveImage")
}
