package preferences

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/domain"
	"github.com/tripforge/tripforge/internal/app/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockPreferenceService struct {
	mock.Mock
}

var _ Service = (*MockPreferenceService)(nil)

func (m *MockPreferenceService) CreatePreferences(ctx context.Context, userID uuid.UUID, req models.UpsertPreferencesRequest) (*models.UserPreferences, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreferences), args.Error(1)
}

func (m *MockPreferenceService) UpsertPreferences(ctx context.Context, userID uuid.UUID, req models.UpsertPreferencesRequest) (*models.UserPreferences, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreferences), args.Error(1)
}

func (m *MockPreferenceService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreferences), args.Error(1)
}

func (m *MockPreferenceService) GetPreferencesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]*models.UserPreferences, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserPreferences), args.Error(1)
}

func (m *MockPreferenceService) DeletePreferences(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// prefContext builds a request context the way the JWT middleware leaves it:
// the authenticated identity under "user_id" and the owner id as path param.
func prefContext(t *testing.T, method, pathUserID, authUserID string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, "/api/users/"+pathUserID+"/preferences", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "userId", Value: pathUserID}}
	if authUserID != "" {
		c.Set("user_id", authUserID)
	}
	return c, w
}

func newPreferenceHandler(svc Service) *Handler {
	return NewHandler(domain.NewBaseHandler(zap.NewNop()), svc)
}

func TestUpsertRejectsForeignUser(t *testing.T) {
	owner := uuid.New()
	intruder := uuid.New()

	svc := new(MockPreferenceService)
	h := newPreferenceHandler(svc)

	c, w := prefContext(t, http.MethodPut, owner.String(), intruder.String(), `{"activityType":["hiking"],"budget":"3"}`)
	h.Upsert(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "UpsertPreferences")
}

func TestDeleteRejectsForeignUser(t *testing.T) {
	owner := uuid.New()
	intruder := uuid.New()

	svc := new(MockPreferenceService)
	h := newPreferenceHandler(svc)

	c, w := prefContext(t, http.MethodDelete, owner.String(), intruder.String(), "")
	h.Delete(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "DeletePreferences")
}

func TestGetRejectsForeignUser(t *testing.T) {
	owner := uuid.New()
	intruder := uuid.New()

	svc := new(MockPreferenceService)
	h := newPreferenceHandler(svc)

	c, w := prefContext(t, http.MethodGet, owner.String(), intruder.String(), "")
	h.Get(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "GetPreferences")
}

func TestUpsertAllowsOwner(t *testing.T) {
	owner := uuid.New()

	svc := new(MockPreferenceService)
	svc.On("UpsertPreferences", mock.Anything, owner, mock.Anything).
		Return(&models.UserPreferences{UserID: owner, ActivityPreferences: []string{"hiking"}}, nil)
	h := newPreferenceHandler(svc)

	c, w := prefContext(t, http.MethodPut, owner.String(), owner.String(), `{"activityType":["hiking"]}`)
	h.Upsert(c)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateRejectsUnauthenticatedContext(t *testing.T) {
	owner := uuid.New()

	svc := new(MockPreferenceService)
	h := newPreferenceHandler(svc)

	// No identity in context at all: still forbidden, never a write.
	c, w := prefContext(t, http.MethodPost, owner.String(), "", `{"budget":"2"}`)
	h.Create(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "CreatePreferences")
}
