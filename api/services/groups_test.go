package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateGroupService(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	groupID := uuid.New()

	mockDB.On("GetGroupBySlug", "lab-a").Return((*models.Group)(nil), nil)
	mockDB.On("GroupNameTaken", "Lab A").Return(false, nil)
	mockDB.On("CreateGroup", mock.AnythingOfType("*models.Group"), userID).Return(
		&models.Group{ID: groupID, Slug: "lab-a", Name: "Lab A"}, nil)

	body, _ := json.Marshal(models.GroupRequest{Slug: "lab-a", Name: "Lab A", Description: "Sequencing lab"})
	r := httptest.NewRequest(http.MethodPost, "/api/groups", bytes.NewReader(body))
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.CreateGroupService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, fmt.Sprintf("/api/groups/%s", groupID), res.Header.Get("Location"))

	var group models.Group
	json.NewDecoder(res.Body).Decode(&group)
	assert.Equal(t, "lab-a", group.Slug)

	mockDB.AssertExpectations(t)
}

func TestCreateGroupServiceSlugTaken(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	mockDB.On("GetGroupBySlug", "lab-a").Return(&models.Group{ID: uuid.New(), Slug: "lab-a"}, nil)

	body, _ := json.Marshal(models.GroupRequest{Slug: "lab-a", Name: "Lab A"})
	r := httptest.NewRequest(http.MethodPost, "/api/groups", bytes.NewReader(body))
	r = withClaims(r, uuid.New())
	w := httptest.NewRecorder()

	svc.CreateGroupService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var errResp models.ErrorResponse
	json.NewDecoder(res.Body).Decode(&errResp)
	assert.Equal(t, "A group with this slug already exists", errResp.Fields["slug"])

	mockDB.AssertNotCalled(t, "CreateGroup", mock.Anything, mock.Anything)
}

func TestGetGroupServiceAsAdmin(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	groupID := uuid.New()
	group := &models.Group{ID: groupID, Slug: "lab-a", Name: "Lab A", UserCount: 2}

	mockDB.On("GetGroup", groupID).Return(group, nil)
	mockDB.On("GetGroupUsers", groupID).Return([]models.User{
		{ID: userID, Username: "admin"},
		{ID: uuid.New(), Username: "member"},
	}, nil)
	mockDB.On("GetGroupAdmins", groupID).Return([]models.User{{ID: userID, Username: "admin"}}, nil)
	mockDB.On("IsGroupAdmin", groupID, userID).Return(true, nil)
	mockDB.On("GetGroupInvitations", groupID).Return([]models.Invitation{
		{ID: uuid.New(), User: models.User{Username: "invited"}, Group: *group},
	}, nil)

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/groups/%s", groupID), nil)
	r = mux.SetURLVars(r, map[string]string{"group-id": groupID.String()})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.GetGroupService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var detail models.GroupDetail
	json.NewDecoder(res.Body).Decode(&detail)
	assert.Equal(t, "lab-a", detail.Slug)
	assert.Len(t, detail.Users, 2)
	assert.Len(t, detail.Admins, 1)
	assert.Len(t, detail.Invitations, 1, "Admins see pending invitations")
	assert.True(t, detail.IsAdmin)

	mockDB.AssertExpectations(t)
}

func TestGetGroupServiceAsMember(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	groupID := uuid.New()
	group := &models.Group{ID: groupID, Slug: "lab-a", Name: "Lab A"}

	mockDB.On("GetGroup", groupID).Return(group, nil)
	mockDB.On("GetGroupUsers", groupID).Return([]models.User{{ID: userID, Username: "member"}}, nil)
	mockDB.On("GetGroupAdmins", groupID).Return([]models.User{}, nil)
	mockDB.On("IsGroupAdmin", groupID, userID).Return(false, nil)

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/groups/%s", groupID), nil)
	r = mux.SetURLVars(r, map[string]string{"group-id": groupID.String()})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.GetGroupService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var detail models.GroupDetail
	json.NewDecoder(res.Body).Decode(&detail)
	assert.Empty(t, detail.Invitations, "Non-admins never see invitations")

	mockDB.AssertNotCalled(t, "GetGroupInvitations", groupID)
}

func TestUpdateGroupServiceRequiresAdmin(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	groupID := uuid.New()

	mockDB.On("GetGroup", groupID).Return(&models.Group{ID: groupID, Slug: "lab-a", Name: "Lab A"}, nil)
	mockDB.On("IsGroupAdmin", groupID, userID).Return(false, nil)

	body, _ := json.Marshal(models.GroupRequest{Name: "Renamed"})
	r := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/groups/%s", groupID), bytes.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"group-id": groupID.String()})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.UpdateGroupService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	mockDB.AssertNotCalled(t, "UpdateGroup", mock.Anything)
}

func TestDeleteGroupService(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	groupID := uuid.New()

	mockDB.On("GetGroup", groupID).Return(&models.Group{ID: groupID, Slug: "lab-a"}, nil)
	mockDB.On("IsGroupAdmin", groupID, userID).Return(true, nil)
	mockDB.On("DeleteGroup", groupID).Return(nil)

	r := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/groups/%s", groupID), nil)
	r = mux.SetURLVars(r, map[string]string{"group-id": groupID.String()})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.DeleteGroupService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	mockDB.AssertExpectations(t)
}

func TestRemoveMemberServiceSelfLeave(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	groupID := uuid.New()

	mockDB.On("GetGroup", groupID).Return(&models.Group{ID: groupID, Slug: "lab-a"}, nil)
	mockDB.On("GetUserByUsername", "member").Return(&models.User{ID: userID, Username: "member"}, nil)
	mockDB.On("IsGroupMember", groupID, userID).Return(true, nil)
	mockDB.On("IsGroupAdmin", groupID, userID).Return(false, nil)
	mockDB.On("RemoveGroupMember", groupID, userID).Return(nil)

	r := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/groups/%s/members/member", groupID), nil)
	r = mux.SetURLVars(r, map[string]string{"group-id": groupID.String(), "username": "member"})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.RemoveMemberService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	mockDB.AssertExpectations(t)
}

func TestRemoveMemberServiceLastAdmin(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	groupID := uuid.New()

	mockDB.On("GetGroup", groupID).Return(&models.Group{ID: groupID, Slug: "lab-a"}, nil)
	mockDB.On("GetUserByUsername", "admin").Return(&models.User{ID: userID, Username: "admin"}, nil)
	mockDB.On("IsGroupMember", groupID, userID).Return(true, nil)
	mockDB.On("IsGroupAdmin", groupID, userID).Return(true, nil)
	mockDB.On("CountGroupAdmins", groupID).Return(1, nil)

	r := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/groups/%s/members/admin", groupID), nil)
	r = mux.SetURLVars(r, map[string]string{"group-id": groupID.String(), "username": "admin"})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.RemoveMemberService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var errResp models.ErrorResponse
	json.NewDecoder(res.Body).Decode(&errResp)
	assert.Equal(t, "A group must have at least one admin", errResp.Error)

	mockDB.AssertNotCalled(t, "RemoveGroupMember", mock.Anything, mock.Anything)
}

func TestGrantAdminServiceNonMember(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	adminID := uuid.New()
	targetID := uuid.New()
	groupID := uuid.New()

	mockDB.On("GetGroup", groupID).Return(&models.Group{ID: groupID, Slug: "lab-a"}, nil)
	mockDB.On("IsGroupAdmin", groupID, adminID).Return(true, nil)
	mockDB.On("GetUserByUsername", "outsider").Return(&models.User{ID: targetID, Username: "outsider"}, nil)
	mockDB.On("IsGroupMember", groupID, targetID).Return(false, nil)

	r := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/groups/%s/admins/outsider", groupID), nil)
	r = mux.SetURLVars(r, map[string]string{"group-id": groupID.String(), "username": "outsider"})
	r = withClaims(r, adminID)
	w := httptest.NewRecorder()

	svc.GrantAdminService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var errResp models.ErrorResponse
	json.NewDecoder(res.Body).Decode(&errResp)
	assert.Equal(t, "Only members can be made admins", errResp.Error)

	mockDB.AssertNotCalled(t, "SetGroupAdmin", mock.Anything, mock.Anything, mock.Anything)
}

func TestRevokeAdminServiceLastAdmin(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	adminID := uuid.New()
	groupID := uuid.New()

	mockDB.On("GetGroup", groupID).Return(&models.Group{ID: groupID, Slug: "lab-a"}, nil)
	mockDB.On("IsGroupAdmin", groupID, adminID).Return(true, nil)
	mockDB.On("GetUserByUsername", "admin").Return(&models.User{ID: adminID, Username: "admin"}, nil)
	mockDB.On("CountGroupAdmins", groupID).Return(1, nil)

	r := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/groups/%s/admins/admin", groupID), nil)
	r = mux.SetURLVars(r, map[string]string{"group-id": groupID.String(), "username": "admin"})
	r = withClaims(r, adminID)
	w := httptest.NewRecorder()

	svc.RevokeAdminService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	mockDB.AssertNotCalled(t, "SetGroupAdmin", mock.Anything, mock.Anything, mock.Anything)
}

func TestGroupFromPathUnknownGroup(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	groupID := uuid.New()
	mockDB.On("GetGroup", groupID).Return((*models.Group)(nil), nil)

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/groups/%s", groupID), nil)
	r = mux.SetURLVars(r, map[string]string{"group-id": groupID.String()})
	w := httptest.NewRecorder()

	svc.GetGroupService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
