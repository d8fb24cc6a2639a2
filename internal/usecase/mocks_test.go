package usecase

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"goodloop/internal/entity"
	"goodloop/pkg/classifier"

	"github.com/stretchr/testify/mock"
)

// MockDonationRepository is a mock implementation of persistent.DonationRepository
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(donation *entity.Donation) error {
	args := m.Called(donation)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByID(id string) (*entity.Donation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListByDonor(donorID string, limit, offset int) ([]*entity.Donation, error) {
	args := m.Called(donorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListByStatus(status entity.DonationStatus, limit, offset int) ([]*entity.Donation, error) {
	args := m.Called(status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Donation), args.Error(1)
}

func (m *MockDonationRepository) ApproveAndList(id string, category entity.Category, verifiedAt time.Time) (*entity.Donation, *entity.Listing, error) {
	args := m.Called(id, category, verifiedAt)
	var (
		donation *entity.Donation
		listing  *entity.Listing
	)
	if args.Get(0) != nil {
		donation = args.Get(0).(*entity.Donation)
	}
	if args.Get(1) != nil {
		listing = args.Get(1).(*entity.Listing)
	}
	return donation, listing, args.Error(2)
}

func (m *MockDonationRepository) Reject(id, reason string) (*entity.Donation, error) {
	args := m.Called(id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationRepository) Reopen(id string) (*entity.Donation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationRepository) MarkReceived(id string, receivedAt time.Time) (*entity.Donation, error) {
	args := m.Called(id, receivedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationRepository) UpdateCreditValue(id string, value int) error {
	args := m.Called(id, value)
	return args.Error(0)
}

func (m *MockDonationRepository) UpdateAdminNote(id, note string) error {
	args := m.Called(id, note)
	return args.Error(0)
}

func (m *MockDonationRepository) RemoveImage(donationID, imageID string) error {
	args := m.Called(donationID, imageID)
	return args.Error(0)
}

func (m *MockDonationRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockListingRepository is a mock implementation of persistent.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(listing *entity.Listing) error {
	args := m.Called(listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(id string) (*entity.Listing, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) ListAvailable(limit, offset int, category string) ([]*entity.Listing, error) {
	args := m.Called(limit, offset, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) ListByOwner(ownerID string, limit, offset int) ([]*entity.Listing, error) {
	args := m.Called(ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) UpdateCreditCost(id string, creditCost int) error {
	args := m.Called(id, creditCost)
	return args.Error(0)
}

func (m *MockListingRepository) RemoveImage(listingID, imageID string) error {
	args := m.Called(listingID, imageID)
	return args.Error(0)
}

func (m *MockListingRepository) RestoreAvailability(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockListingRepository) Claim(listingID, beneficiaryID string) (*entity.Listing, error) {
	args := m.Called(listingID, beneficiaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

// MockLedgerRepository is a mock implementation of persistent.LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetOrCreateWallet(beneficiaryID string) (*entity.Wallet, error) {
	args := m.Called(beneficiaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *MockLedgerRepository) GetBalance(beneficiaryID string) (int, error) {
	args := m.Called(beneficiaryID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) GetEntries(beneficiaryID string, limit, offset int) ([]*entity.Transaction, error) {
	args := m.Called(beneficiaryID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) RecordEntry(entry *entity.Transaction) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) RecordWelcomeBonus(beneficiaryID string, amount int) (bool, error) {
	args := m.Called(beneficiaryID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) Spend(beneficiaryID string, amount int, relatedItemID, description string) error {
	args := m.Called(beneficiaryID, amount, relatedItemID, description)
	return args.Error(0)
}

// MockPublisher is a mock implementation of NotificationPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishNotificationTask(task map[string]interface{}) error {
	args := m.Called(task)
	return args.Error(0)
}

// MockUploader is a mock implementation of ImageUploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadFile(key string, file multipart.File, contentType string) (string, error) {
	args := m.Called(key, file, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockUploader) DeleteFile(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// MockClassifier is a mock implementation of ItemClassifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, imageURL, hint string) (*classifier.Suggestion, error) {
	args := m.Called(ctx, imageURL, hint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.Suggestion), args.Error(1)
}

// makeFileHeaders builds real multipart file headers for submit tests.
func makeFileHeaders(t *testing.T, filenames ...string) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range filenames {
		part, err := writer.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part.Write([]byte("fake image bytes"))
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	return req.MultipartForm.File["images"]
}
