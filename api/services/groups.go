package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// CreateGroupService creates a group with the caller as its first admin.
func (svc *Service) CreateGroupService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := callerID(r)
	if !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	var req models.GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid group payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if msg := validateUsername(req.Slug); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "slug", msg)
		return
	}
	if msg := validateGroupName(req.Name); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "name", msg)
		return
	}
	if msg := validateGroupDescription(req.Description); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "description", msg)
		return
	}

	existing, err := svc.DB.GetGroupBySlug(req.Slug)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check slug uniqueness")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if existing != nil {
		WriteFieldError(w, http.StatusBadRequest, "slug", "A group with this slug already exists")
		return
	}
	taken, err := svc.DB.GroupNameTaken(req.Name)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check name uniqueness")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if taken {
		WriteFieldError(w, http.StatusBadRequest, "name", "A group with this name already exists")
		return
	}

	group := &models.Group{Slug: req.Slug, Name: req.Name, Description: req.Description}
	group, err = svc.DB.CreateGroup(group, userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create group in database")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("group_id", group.ID.String()).Msg("Group created")
	location := fmt.Sprintf("%s/%s", r.URL.Path, group.ID)
	WriteResponse(w, http.StatusCreated, *group, location)
}

// GetGroupService retrieves a group with its membership. Pending
// invitations are included for admins only.
func (svc *Service) GetGroupService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	group, ok := svc.groupFromPath(w, r)
	if !ok {
		return
	}

	detail := models.GroupDetail{Group: *group}

	users, err := svc.DB.GetGroupUsers(group.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve group members")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	detail.Users = users

	admins, err := svc.DB.GetGroupAdmins(group.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve group admins")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if admins == nil {
		admins = []models.User{}
	}
	detail.Admins = admins

	if userID, ok := callerID(r); ok {
		isAdmin, err := svc.DB.IsGroupAdmin(group.ID, userID)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to check admin status")
			WriteResponse(w, http.StatusInternalServerError, nil)
			return
		}
		if isAdmin {
			detail.IsAdmin = true
			invitations, err := svc.DB.GetGroupInvitations(group.ID)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to retrieve invitations")
				WriteResponse(w, http.StatusInternalServerError, nil)
				return
			}
			detail.Invitations = invitations
		}
	}

	WriteResponse(w, http.StatusOK, detail)
}

// UpdateGroupService updates a group's name and description. Admins only.
func (svc *Service) UpdateGroupService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	group, ok := svc.groupFromPath(w, r)
	if !ok {
		return
	}
	if !svc.requireGroupAdmin(w, r, group.ID) {
		return
	}

	var req models.GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid group payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if msg := validateGroupName(req.Name); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "name", msg)
		return
	}
	if msg := validateGroupDescription(req.Description); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "description", msg)
		return
	}
	if req.Name != group.Name {
		taken, err := svc.DB.GroupNameTaken(req.Name)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to check name uniqueness")
			WriteResponse(w, http.StatusInternalServerError, nil)
			return
		}
		if taken {
			WriteFieldError(w, http.StatusBadRequest, "name", "A group with this name already exists")
			return
		}
	}

	group.Name = req.Name
	group.Description = req.Description
	if err := svc.DB.UpdateGroup(group); err != nil {
		logger.Error().Err(err).Msg("Failed to update group")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("group_id", group.ID.String()).Msg("Group updated")
	WriteResponse(w, http.StatusOK, *group)
}

// DeleteGroupService deletes a group. Admins only.
func (svc *Service) DeleteGroupService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	group, ok := svc.groupFromPath(w, r)
	if !ok {
		return
	}
	if !svc.requireGroupAdmin(w, r, group.ID) {
		return
	}

	if err := svc.DB.DeleteGroup(group.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to delete group")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("group_id", group.ID.String()).Msg("Group deleted")
	WriteResponse(w, http.StatusNoContent, nil)
}

// RemoveMemberService removes a member from a group. Members may remove
// themselves (leave); admins may remove anyone. The last admin may not be
// removed.
func (svc *Service) RemoveMemberService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	group, ok := svc.groupFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := callerID(r)
	if !ok {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	target, err := svc.DB.GetUserByUsername(mux.Vars(r)["username"])
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if target == nil {
		WriteResponse(w, http.StatusNotFound, nil)
		return
	}

	if target.ID != userID {
		if !svc.requireGroupAdmin(w, r, group.ID) {
			return
		}
	}

	isMember, err := svc.DB.IsGroupMember(group.ID, target.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check membership")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if !isMember {
		WriteError(w, http.StatusBadRequest, "User is not a member of this group")
		return
	}

	// Never leave a group without an admin
	isAdmin, err := svc.DB.IsGroupAdmin(group.ID, target.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check admin status")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if isAdmin {
		admins, err := svc.DB.CountGroupAdmins(group.ID)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to count admins")
			WriteResponse(w, http.StatusInternalServerError, nil)
			return
		}
		if admins <= 1 {
			WriteError(w, http.StatusBadRequest, "A group must have at least one admin")
			return
		}
	}

	if err := svc.DB.RemoveGroupMember(group.ID, target.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to remove member")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("group_id", group.ID.String()).
		Str("user_id", target.ID.String()).Msg("Member removed from group")
	WriteResponse(w, http.StatusNoContent, nil)
}

// GrantAdminService makes an existing member an admin. Admins only.
func (svc *Service) GrantAdminService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	group, ok := svc.groupFromPath(w, r)
	if !ok {
		return
	}
	if !svc.requireGroupAdmin(w, r, group.ID) {
		return
	}

	target, err := svc.DB.GetUserByUsername(mux.Vars(r)["username"])
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if target == nil {
		WriteResponse(w, http.StatusNotFound, nil)
		return
	}

	isMember, err := svc.DB.IsGroupMember(group.ID, target.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check membership")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if !isMember {
		WriteError(w, http.StatusBadRequest, "Only members can be made admins")
		return
	}

	if err := svc.DB.SetGroupAdmin(group.ID, target.ID, true); err != nil {
		logger.Error().Err(err).Msg("Failed to grant admin")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("group_id", group.ID.String()).
		Str("user_id", target.ID.String()).Msg("Admin granted")
	WriteResponse(w, http.StatusOK, nil)
}

// RevokeAdminService revokes a member's admin status. Admins only; the
// last admin cannot be revoked.
func (svc *Service) RevokeAdminService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	group, ok := svc.groupFromPath(w, r)
	if !ok {
		return
	}
	if !svc.requireGroupAdmin(w, r, group.ID) {
		return
	}

	target, err := svc.DB.GetUserByUsername(mux.Vars(r)["username"])
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if target == nil {
		WriteResponse(w, http.StatusNotFound, nil)
		return
	}

	isAdmin, err := svc.DB.IsGroupAdmin(group.ID, target.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check admin status")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if !isAdmin {
		WriteError(w, http.StatusBadRequest, "User is not an admin of this group")
		return
	}

	admins, err := svc.DB.CountGroupAdmins(group.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count admins")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if admins <= 1 {
		WriteError(w, http.StatusBadRequest, "A group must have at least one admin")
		return
	}

	if err := svc.DB.SetGroupAdmin(group.ID, target.ID, false); err != nil {
		logger.Error().Err(err).Msg("Failed to revoke admin")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("group_id", group.ID.String()).
		Str("user_id", target.ID.String()).Msg("Admin revoked")
	WriteResponse(w, http.StatusOK, nil)
}

// groupFromPath parses the group ID from the URL and loads the group,
// writing the error response when it is missing.
func (svc *Service) groupFromPath(w http.ResponseWriter, r *http.Request) (*models.Group, bool) {
	logger := zerolog.Ctx(r.Context())

	groupID, err := uuid.Parse(mux.Vars(r)["group-id"])
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid group ID")
		WriteResponse(w, http.StatusBadRequest, nil)
		return nil, false
	}

	group, err := svc.DB.GetGroup(groupID)
	if err != nil {
		logger.Error().Err(err).Str("group_id", groupID.String()).Msg("Database error retrieving group")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return nil, false
	}
	if group == nil {
		logger.Warn().Str("group_id", groupID.String()).Msg("Group not found")
		WriteResponse(w, http.StatusNotFound, nil)
		return nil, false
	}
	return group, true
}

// requireGroupAdmin writes the error response unless the caller is an
// admin of the group.
func (svc *Service) requireGroupAdmin(w http.ResponseWriter, r *http.Request, groupID uuid.UUID) bool {
	logger := zerolog.Ctx(r.Context())

	userID, ok := callerID(r)
	if !ok {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return false
	}

	isAdmin, err := svc.DB.IsGroupAdmin(groupID, userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check admin status")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return false
	}
	if !isAdmin {
		logger.Warn().Str("group_id", groupID.String()).
			Str("user_id", userID.String()).Msg("Access denied: user not group admin")
		WriteResponse(w, http.StatusForbidden, nil)
		return false
	}
	return true
}
