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

// CreateInvitationService invites a user, by username, to a group.
// Admins only; at most one pending invitation per user/group pair.
func (svc *Service) CreateInvitationService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	group, ok := svc.groupFromPath(w, r)
	if !ok {
		return
	}
	if !svc.requireGroupAdmin(w, r, group.ID) {
		return
	}

	var req models.InvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid invitation payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	target, err := svc.DB.GetUserByUsername(req.Username)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if target == nil {
		WriteFieldError(w, http.StatusBadRequest, "username", "No user with this username exists")
		return
	}

	isMember, err := svc.DB.IsGroupMember(group.ID, target.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check membership")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if isMember {
		WriteFieldError(w, http.StatusBadRequest, "username", "User is already a member of this group")
		return
	}

	exists, err := svc.DB.InvitationExists(group.ID, target.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check invitation")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if exists {
		WriteFieldError(w, http.StatusBadRequest, "username", "User has already been invited to this group")
		return
	}

	invitation, err := svc.DB.CreateInvitation(group.ID, target.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create invitation in database")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	// The invitation stands even if the notification cannot be sent
	if err := svc.Mailer.SendInvitation(r.Context(), target.Email, group.Name); err != nil {
		logger.Warn().Err(err).Msg("Failed to send invitation email")
	}

	logger.Info().Str("invitation_id", invitation.ID.String()).
		Str("group_id", group.ID.String()).
		Str("user_id", target.ID.String()).Msg("Invitation created")

	location := fmt.Sprintf("/api/invitations/%s", invitation.ID)
	WriteResponse(w, http.StatusCreated, *invitation, location)
}

// AcceptInvitationService accepts an invitation. Invitee only.
func (svc *Service) AcceptInvitationService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	invitation, ok := svc.invitationFromPath(w, r)
	if !ok {
		return
	}

	userID, ok := callerID(r)
	if !ok {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}
	if invitation.User.ID != userID {
		logger.Warn().Str("invitation_id", invitation.ID.String()).
			Str("user_id", userID.String()).Msg("Access denied: not the invitee")
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}

	err := svc.DB.AcceptInvitation(invitation.ID, invitation.Group.ID, invitation.User.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to accept invitation")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("invitation_id", invitation.ID.String()).Msg("Invitation accepted")
	WriteResponse(w, http.StatusOK, invitation.Group)
}

// DeleteInvitationService declines or retracts an invitation. Allowed for
// the invitee and for admins of the inviting group.
func (svc *Service) DeleteInvitationService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	invitation, ok := svc.invitationFromPath(w, r)
	if !ok {
		return
	}

	userID, ok := callerID(r)
	if !ok {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	if invitation.User.ID != userID {
		isAdmin, err := svc.DB.IsGroupAdmin(invitation.Group.ID, userID)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to check admin status")
			WriteResponse(w, http.StatusInternalServerError, nil)
			return
		}
		if !isAdmin {
			logger.Warn().Str("invitation_id", invitation.ID.String()).
				Str("user_id", userID.String()).Msg("Access denied: neither invitee nor group admin")
			WriteResponse(w, http.StatusForbidden, nil)
			return
		}
	}

	if err := svc.DB.DeleteInvitation(invitation.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to delete invitation")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("invitation_id", invitation.ID.String()).Msg("Invitation deleted")
	WriteResponse(w, http.StatusNoContent, nil)
}

// invitationFromPath parses the invitation ID from the URL and loads the
// invitation, writing the error response when it is missing.
func (svc *Service) invitationFromPath(w http.ResponseWriter, r *http.Request) (*models.Invitation, bool) {
	logger := zerolog.Ctx(r.Context())

	invitationID, err := uuid.Parse(mux.Vars(r)["invitation-id"])
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid invitation ID")
		WriteResponse(w, http.StatusBadRequest, nil)
		return nil, false
	}

	invitation, err := svc.DB.GetInvitation(invitationID)
	if err != nil {
		logger.Error().Err(err).Str("invitation_id", invitationID.String()).
			Msg("Database error retrieving invitation")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return nil, false
	}
	if invitation == nil {
		logger.Warn().Str("invitation_id", invitationID.String()).Msg("Invitation not found")
		WriteResponse(w, http.StatusNotFound, nil)
		return nil, false
	}
	return invitation, true
}
