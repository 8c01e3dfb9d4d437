package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/admin/cosmic-connect/internal/adapters/primary/http/middlewares"
	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type reviewMock struct {
	mock.Mock
}

func (m *reviewMock) ListPending(ctx context.Context) ([]domain.PendingPayment, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]domain.PendingPayment)
	return p, args.Error(1)
}

func (m *reviewMock) Verify(ctx context.Context, paymentID, adminID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, adminID)
	p, _ := args.Get(0).(*domain.Payment)
	return p, args.Error(1)
}

func (m *reviewMock) Reject(ctx context.Context, paymentID, adminID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, adminID)
	p, _ := args.Get(0).(*domain.Payment)
	return p, args.Error(1)
}

func sessionFor(role domain.Role) *domain.Session {
	id := uuid.New()
	return &domain.Session{ProfileID: id, Profile: &domain.Profile{ID: id, Role: role}}
}

func newRouter(svc *reviewMock, session *domain.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { middlewares.SetSession(c, session) })
	New(svc, logger.Discard()).RegisterRoutes(r)
	return r
}

func TestAdminOnly(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAstrologer} {
		svc := &reviewMock{}
		r := newRouter(svc, sessionFor(role))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/payments/"+uuid.NewString()+"/verify", nil))
		assert.Equal(t, http.StatusForbidden, w.Code, role)
		svc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestVerifyAndReject(t *testing.T) {
	admin := sessionFor(domain.RoleAdmin)
	paymentID := uuid.New()

	svc := &reviewMock{}
	svc.On("Verify", mock.Anything, paymentID, admin.ProfileID).
		Return(&domain.Payment{ID: paymentID, Status: domain.PaymentStatusVerified}, nil).Once()
	svc.On("Reject", mock.Anything, paymentID, admin.ProfileID).
		Return(nil, fmt.Errorf("reject: %w", domain.ErrInvalidPaymentTransition)).Once()
	r := newRouter(svc, admin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/payments/"+paymentID.String()+"/verify", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"verified"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/payments/"+paymentID.String()+"/reject", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	svc.AssertExpectations(t)
}

func TestListPending(t *testing.T) {
	svc := &reviewMock{}
	svc.On("ListPending", mock.Anything).Return([]domain.PendingPayment{
		{Payment: domain.Payment{ID: uuid.New(), Status: domain.PaymentStatusPending}, PayerName: "Nova", ProofLink: "https://proofs/x"},
	}, nil).Once()
	r := newRouter(svc, sessionFor(domain.RoleAdmin))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/payments", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payer_name":"Nova"`)
	assert.Contains(t, w.Body.String(), `"proof_link":"https://proofs/x"`)
}
