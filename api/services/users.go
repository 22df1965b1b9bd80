package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SampleBase/samplebase-services/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// GetMeService returns the authenticated user's full profile.
func (svc *Service) GetMeService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := callerID(r)
	if !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	user, err := svc.DB.GetUserByID(userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if user == nil {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	profile, err := svc.buildProfile(user, false)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build profile")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	WriteResponse(w, http.StatusOK, profile)
}

// GetUserService returns another user's restricted public profile. If the
// caller requests their own username the full profile is returned.
func (svc *Service) GetUserService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	username := mux.Vars(r)["username"]
	user, err := svc.DB.GetUserByUsername(username)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if user == nil {
		logger.Warn().Str("username", username).Msg("User not found")
		WriteResponse(w, http.StatusNotFound, nil)
		return
	}

	restricted := true
	if callerUserID, ok := callerID(r); ok && callerUserID == user.ID {
		restricted = false
	}

	profile, err := svc.buildProfile(user, restricted)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build profile")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	WriteResponse(w, http.StatusOK, profile)
}

// UpdateMeService updates the authenticated user's profile fields.
func (svc *Service) UpdateMeService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := callerID(r)
	if !ok {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	user, err := svc.DB.GetUserByID(userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if user == nil {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid update payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if req.Email != nil {
		if msg := validateEmail(*req.Email); msg != "" {
			WriteFieldError(w, http.StatusBadRequest, "email", msg)
			return
		}
		if *req.Email != user.Email {
			existing, err := svc.DB.GetUserByEmail(*req.Email)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to check email uniqueness")
				WriteResponse(w, http.StatusInternalServerError, nil)
				return
			}
			if existing != nil {
				WriteFieldError(w, http.StatusBadRequest, "email", "A user with this email already exists")
				return
			}
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		if msg := validateName(*req.Name); msg != "" {
			WriteFieldError(w, http.StatusBadRequest, "name", msg)
			return
		}
		user.Name = *req.Name
	}
	if req.Image != nil {
		user.Image = *req.Image
	}

	if err := svc.DB.UpdateUser(user); err != nil {
		logger.Error().Err(err).Msg("Failed to update user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("User updated")
	WriteResponse(w, http.StatusOK, *user)
}

// UpdatePasswordService changes the password for a logged-in user after
// verifying the current one.
func (svc *Service) UpdatePasswordService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := callerID(r)
	if !ok {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	user, err := svc.DB.GetUserByID(userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if user == nil {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	var req models.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid password payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Current)) != nil {
		WriteFieldError(w, http.StatusBadRequest, "current", "Current password is incorrect")
		return
	}
	if msg := validatePassword(req.New); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "new", msg)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.New), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	if err := svc.DB.UpdateUserPassword(user.ID, string(hash)); err != nil {
		logger.Error().Err(err).Msg("Failed to update password")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("Password updated")
	WriteResponse(w, http.StatusOK, nil)
}

// DeleteMeService deletes the authenticated user's account. The account
// must not own any collections and must not be the sole admin of a group
// that still has other members.
func (svc *Service) DeleteMeService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := callerID(r)
	if !ok {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	owned, err := svc.DB.CountOwnedCollections(userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count owned collections")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if owned > 0 {
		WriteError(w, http.StatusBadRequest,
			"You still own collections. Delete them or transfer ownership before deleting your account")
		return
	}

	soleAdmin, err := svc.DB.SoleAdminGroups(userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check sole admin groups")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if len(soleAdmin) > 0 {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf(
			"You are the only admin of %q. Appoint another admin before deleting your account",
			soleAdmin[0].Name))
		return
	}

	if err := svc.DB.DeleteUser(userID); err != nil {
		logger.Error().Err(err).Msg("Failed to delete user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("user_id", userID.String()).Msg("User deleted")
	WriteResponse(w, http.StatusNoContent, nil)
}

// buildProfile assembles the expanded user view. The restricted variant
// hides email, last login, invitations and admin groups, and filters
// collections to public ones.
func (svc *Service) buildProfile(user *models.User, restricted bool) (*models.UserProfile, error) {
	profile := &models.UserProfile{User: *user}
	profile.PasswordHash = ""

	groups, err := svc.DB.GetUserGroups(user.ID)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []models.Group{}
	}
	profile.Groups = groups

	owned, err := svc.DB.GetOwnedCollections(user.ID, restricted)
	if err != nil {
		return nil, err
	}
	if owned == nil {
		owned = []models.Collection{}
	}
	profile.OwnedCollections = owned

	shared, err := svc.DB.GetSharedCollections(user.ID, restricted)
	if err != nil {
		return nil, err
	}
	if shared == nil {
		shared = []models.Collection{}
	}
	profile.Collections = shared

	if restricted {
		profile.Email = ""
		profile.LastLogin = nil
		return profile, nil
	}

	for _, g := range groups {
		if g.IsAdmin {
			profile.AdminGroups = append(profile.AdminGroups, g)
		}
	}

	invitations, err := svc.DB.GetUserInvitations(user.ID)
	if err != nil {
		return nil, err
	}
	profile.Invitations = invitations

	return profile, nil
}
