package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"goodloop/internal/entity"
	"goodloop/internal/usecase"
	"goodloop/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDonationUseCase is a mock implementation of DonationUseCase
type MockDonationUseCase struct {
	mock.Mock
}

func (m *MockDonationUseCase) Submit(donorID string, input usecase.SubmitDonationInput, imageFiles []*multipart.FileHeader) (*entity.Donation, error) {
	args := m.Called(donorID, input, imageFiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationUseCase) Get(donationID string) (*entity.Donation, error) {
	args := m.Called(donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationUseCase) ListByDonor(donorID string, limit, offset int) ([]*entity.Donation, error) {
	args := m.Called(donorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Donation), args.Error(1)
}

func (m *MockDonationUseCase) ListPending(limit, offset int) ([]*entity.Donation, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Donation), args.Error(1)
}

func (m *MockDonationUseCase) Approve(donationID, adminID string) (*entity.Donation, error) {
	args := m.Called(donationID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationUseCase) Reclassify(donationID, adminID string, newCategory entity.Category) (*entity.Donation, error) {
	args := m.Called(donationID, adminID, newCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationUseCase) Reject(donationID, adminID, reason string) (*entity.Donation, error) {
	args := m.Called(donationID, adminID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationUseCase) Reopen(donationID, adminID string) (*entity.Donation, error) {
	args := m.Called(donationID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationUseCase) MarkReceived(donationID string) (*entity.Donation, error) {
	args := m.Called(donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationUseCase) EditValue(donationID string, newValue int) error {
	args := m.Called(donationID, newValue)
	return args.Error(0)
}

func (m *MockDonationUseCase) SetAdminNote(donationID, note string) error {
	args := m.Called(donationID, note)
	return args.Error(0)
}

func (m *MockDonationUseCase) RemoveImage(donationID, donorID, imageID string) error {
	args := m.Called(donationID, donorID, imageID)
	return args.Error(0)
}

func (m *MockDonationUseCase) Delete(donationID string) error {
	args := m.Called(donationID)
	return args.Error(0)
}

var _ usecase.DonationUseCase = (*MockDonationUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestGetDonation_Success(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.GET("/donations/:id", handler.GetDonation)

	mockDonation := &entity.Donation{
		ID:          "donation-123",
		DonorID:     "donor-123",
		Title:       "Winter Jacket",
		Category:    entity.CategoryClothing,
		CreditValue: 10,
		Status:      entity.StatusUploaded,
	}

	mockUseCase.On("Get", "donation-123").Return(mockDonation, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/donations/donation-123", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response entity.Donation
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "donation-123", response.ID)
	assert.Equal(t, entity.StatusUploaded, response.Status)

	mockUseCase.AssertExpectations(t)
}

func TestGetDonation_NotFound(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.GET("/donations/:id", handler.GetDonation)

	mockUseCase.On("Get", "missing").Return(nil, entity.ErrNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/donations/missing", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestGetMyDonations_Success(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.GET("/donations/mine", func(c *gin.Context) {
		c.Set("user_id", "donor-123")
		handler.GetMyDonations(c)
	})

	mockDonations := []*entity.Donation{
		{ID: "donation-1", DonorID: "donor-123", Title: "Jacket", Status: entity.StatusUploaded},
		{ID: "donation-2", DonorID: "donor-123", Title: "Boots", Status: entity.StatusListed},
	}

	mockUseCase.On("ListByDonor", "donor-123", 50, 0).Return(mockDonations, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/donations/mine", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	donations := response["donations"].([]interface{})
	assert.Equal(t, 2, len(donations))
	assert.Equal(t, float64(2), response["count"])

	mockUseCase.AssertExpectations(t)
}

func TestGetPendingDonations_Paging(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.GET("/admin/donations/pending", handler.GetPendingDonations)

	mockUseCase.On("ListPending", 10, 20).Return([]*entity.Donation{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/donations/pending?limit=10&offset=20", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestApproveDonation_Success(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.POST("/admin/donations/:id/approve", func(c *gin.Context) {
		c.Set("user_id", "admin-1")
		handler.ApproveDonation(c)
	})

	mockDonation := &entity.Donation{
		ID:     "donation-123",
		Status: entity.StatusListed,
	}

	mockUseCase.On("Approve", "donation-123", "admin-1").Return(mockDonation, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/donations/donation-123/approve", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response entity.Donation
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, entity.StatusListed, response.Status)

	mockUseCase.AssertExpectations(t)
}

func TestApproveDonation_WrongState(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.POST("/admin/donations/:id/approve", func(c *gin.Context) {
		c.Set("user_id", "admin-1")
		handler.ApproveDonation(c)
	})

	mockUseCase.On("Approve", "donation-123", "admin-1").
		Return(nil, entity.GuardError(entity.StatusRejected, "approve"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/donations/donation-123/approve", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestRejectDonation_Success(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.POST("/admin/donations/:id/reject", func(c *gin.Context) {
		c.Set("user_id", "admin-1")
		handler.RejectDonation(c)
	})

	mockDonation := &entity.Donation{
		ID:              "donation-123",
		Status:          entity.StatusRejected,
		RejectionReason: "photos too blurry",
	}

	mockUseCase.On("Reject", "donation-123", "admin-1", "photos too blurry").Return(mockDonation, nil)

	body := `{"reason":"photos too blurry"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/donations/donation-123/reject", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response entity.Donation
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "photos too blurry", response.RejectionReason)

	mockUseCase.AssertExpectations(t)
}

func TestRejectDonation_MissingReason(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.POST("/admin/donations/:id/reject", handler.RejectDonation)

	body := `{}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/donations/donation-123/reject", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "Reject")
}

func TestReopenDonation_Success(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.POST("/admin/donations/:id/reopen", func(c *gin.Context) {
		c.Set("user_id", "admin-1")
		handler.ReopenDonation(c)
	})

	mockDonation := &entity.Donation{
		ID:     "donation-123",
		Status: entity.StatusUploaded,
	}

	mockUseCase.On("Reopen", "donation-123", "admin-1").Return(mockDonation, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/donations/donation-123/reopen", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response entity.Donation
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, entity.StatusUploaded, response.Status)
	assert.Empty(t, response.RejectionReason)

	mockUseCase.AssertExpectations(t)
}

func TestMarkReceived_Conflict(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.POST("/admin/donations/:id/received", handler.MarkReceived)

	mockUseCase.On("MarkReceived", "donation-123").
		Return(nil, entity.GuardError(entity.StatusListed, "mark received"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/donations/donation-123/received", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestEditDonationValue_Success(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.PUT("/admin/donations/:id/value", handler.EditDonationValue)

	mockUseCase.On("EditValue", "donation-123", 25).Return(nil)

	body := `{"credit_value":25}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/admin/donations/donation-123/value", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestEditDonationValue_Negative(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.PUT("/admin/donations/:id/value", handler.EditDonationValue)

	mockUseCase.On("EditValue", "donation-123", -5).
		Return(entity.ValidationError("credit_value", "must not be negative"))

	body := `{"credit_value":-5}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/admin/donations/donation-123/value", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestRemoveDonationImage_Forbidden(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.DELETE("/donations/:id/images/:image_id", func(c *gin.Context) {
		c.Set("user_id", "other-user")
		handler.RemoveDonationImage(c)
	})

	mockUseCase.On("RemoveImage", "donation-123", "other-user", "img-1").Return(entity.ErrForbidden)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/donations/donation-123/images/img-1", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestDeleteDonation_Success(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.DELETE("/admin/donations/:id", handler.DeleteDonation)

	mockUseCase.On("Delete", "donation-123").Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/admin/donations/donation-123", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestSubmitDonation_NoMultipart(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.POST("/donations", handler.SubmitDonation)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/donations", bytes.NewBufferString(`{"title":"Jacket"}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "Submit")
}

func TestGetMyDonations_Error(t *testing.T) {
	mockUseCase := new(MockDonationUseCase)
	logger := logger.New()
	handler := NewDonationHandler(mockUseCase, logger)

	router := setupTestRouter()
	router.GET("/donations/mine", handler.GetMyDonations)

	mockUseCase.On("ListByDonor", "", 50, 0).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/donations/mine", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	mockUseCase.AssertExpectations(t)
}
