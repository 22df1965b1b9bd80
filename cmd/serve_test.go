package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SampleBase/samplebase-services/api/services"
	"github.com/SampleBase/samplebase-services/internal/appconfig"
	"github.com/SampleBase/samplebase-services/internal/authn"
	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testRouter(mockDB *services.MockStore) (*authn.Issuer, http.Handler) {
	cfg := &appconfig.Config{
		BasePath: "/api",
		DocsPath: "/docs",
	}
	issuer := authn.NewIssuer("test-secret")
	service := &services.Service{
		Config: cfg,
		DB:     mockDB,
		Issuer: issuer,
	}
	return issuer, newRouter(cfg, service, issuer)
}

func TestRouterUsersMeReachesFullProfile(t *testing.T) {
	userID := uuid.New()
	mockDB := new(services.MockStore)
	mockDB.On("GetUserByID", userID).Return(&models.User{
		ID:       userID,
		Username: "testuser",
		Email:    "testuser@example.com",
		Name:     "Test User",
	}, nil)
	mockDB.On("GetUserGroups", userID).Return([]models.Group{}, nil)
	mockDB.On("GetOwnedCollections", userID, false).Return([]models.Collection{}, nil)
	mockDB.On("GetSharedCollections", userID, false).Return([]models.Collection{}, nil)
	mockDB.On("GetUserInvitations", userID).Return([]models.Invitation{}, nil)

	issuer, router := testRouter(mockDB)
	token, err := issuer.AccessToken(userID)
	assert.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	// "me" must never be treated as a username
	mockDB.AssertNotCalled(t, "GetUserByUsername", "me")
	mockDB.AssertCalled(t, "GetUserByID", userID)
}

func TestRouterUsersMeRequiresToken(t *testing.T) {
	mockDB := new(services.MockStore)

	_, router := testRouter(mockDB)

	r := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	mockDB.AssertNotCalled(t, "GetUserByUsername", "me")
	mockDB.AssertNotCalled(t, "GetUserByID", mock.Anything)
}

func TestRouterUsernameRouteStillAnonymous(t *testing.T) {
	userID := uuid.New()
	mockDB := new(services.MockStore)
	mockDB.On("GetUserByUsername", "alice").Return(&models.User{
		ID:       userID,
		Username: "alice",
		Email:    "alice@example.com",
		Name:     "Alice",
	}, nil)
	mockDB.On("GetUserGroups", userID).Return([]models.Group{}, nil)
	mockDB.On("GetOwnedCollections", userID, true).Return([]models.Collection{}, nil)
	mockDB.On("GetSharedCollections", userID, true).Return([]models.Collection{}, nil)

	_, router := testRouter(mockDB)

	r := httptest.NewRequest(http.MethodGet, "/api/users/alice", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	mockDB.AssertCalled(t, "GetUserByUsername", "alice")
	mockDB.AssertNotCalled(t, "GetUserInvitations", userID)
}
