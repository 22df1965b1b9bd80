package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/SampleBase/samplebase-services/internal/authn"
	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const refreshCookieName = "refresh_token"
const resetTokenTTL = time.Hour

// SignupService creates a new account and logs it in.
func (svc *Service) SignupService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid signup payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if msg := validateUsername(req.Username); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "username", msg)
		return
	}
	if msg := validateEmail(req.Email); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "email", msg)
		return
	}
	if msg := validateName(req.Name); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "name", msg)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "password", msg)
		return
	}

	// Uniqueness checks surface as field errors before the insert
	existing, err := svc.DB.GetUserByUsername(req.Username)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check username uniqueness")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if existing != nil {
		WriteFieldError(w, http.StatusBadRequest, "username", "A user with this username already exists")
		return
	}
	existing, err = svc.DB.GetUserByEmail(req.Email)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check email uniqueness")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if existing != nil {
		WriteFieldError(w, http.StatusBadRequest, "email", "A user with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		LastLogin:    &now,
	}
	user, err = svc.DB.CreateUser(user)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create user in database")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("User signed up")
	svc.issueTokens(w, r, user, http.StatusCreated)
}

// LoginService checks credentials and logs the user in. Both unknown
// usernames and wrong passwords produce the same error.
func (svc *Service) LoginService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid login payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := svc.DB.GetUserByUsername(req.Username)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash), []byte(req.Password)) != nil {
		WriteFieldError(w, http.StatusUnauthorized, "username", "Invalid credentials")
		return
	}

	if err := svc.DB.UpdateLastLogin(user.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to update last login")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("User logged in")
	svc.issueTokens(w, r, user, http.StatusOK)
}

// RefreshService exchanges a valid refresh cookie for a new access token
// and a rotated refresh cookie.
func (svc *Service) RefreshService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		WriteFieldError(w, http.StatusUnauthorized, "token", "No refresh token supplied")
		return
	}

	claims, err := svc.Issuer.Parse(cookie.Value)
	if err != nil {
		WriteFieldError(w, http.StatusUnauthorized, "token", "Refresh token not valid")
		return
	}

	user, err := svc.DB.GetUserByID(claims.Sub)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if user == nil {
		WriteFieldError(w, http.StatusUnauthorized, "token", "Refresh token not valid")
		return
	}

	svc.issueTokens(w, r, user, http.StatusOK)
}

// LogoutService clears the refresh cookie.
func (svc *Service) LogoutService(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   svc.Config.Auth.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		Domain:   svc.Config.Auth.CookieDomain,
	})
	WriteResponse(w, http.StatusNoContent, nil)
}

// PasswordResetRequestService issues a reset token and emails it. The
// response is the same whether or not the address belongs to an account.
func (svc *Service) PasswordResetRequestService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid reset request payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := svc.DB.GetUserByEmail(req.Email)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if user == nil {
		// No account enumeration
		WriteResponse(w, http.StatusOK, nil)
		return
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		logger.Error().Err(err).Msg("Failed to generate reset token")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	token := hex.EncodeToString(buf)

	err = svc.DB.UpsertPasswordResetToken(user.ID, hashResetToken(token),
		time.Now().UTC().Add(resetTokenTTL))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to store reset token")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	if err := svc.Mailer.SendPasswordReset(r.Context(), user.Email, token); err != nil {
		logger.Error().Err(err).Msg("Failed to send reset email")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("Password reset requested")
	WriteResponse(w, http.StatusOK, nil)
}

// PasswordResetService consumes a reset token and sets a new password.
func (svc *Service) PasswordResetService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.PasswordReset
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid reset payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if msg := validatePassword(req.Password); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "password", msg)
		return
	}

	userID, err := svc.DB.GetUserIDByResetToken(hashResetToken(req.Token))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to look up reset token")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if userID == uuid.Nil {
		WriteFieldError(w, http.StatusBadRequest, "token", "Reset token not valid")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	if err := svc.DB.UpdateUserPassword(userID, string(hash)); err != nil {
		logger.Error().Err(err).Msg("Failed to update password")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if err := svc.DB.DeletePasswordResetToken(userID); err != nil {
		logger.Error().Err(err).Msg("Failed to delete reset token")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("user_id", userID.String()).Msg("Password reset completed")
	WriteResponse(w, http.StatusOK, nil)
}

// issueTokens writes the refresh cookie and the access token response.
func (svc *Service) issueTokens(w http.ResponseWriter, r *http.Request, user *models.User, statusCode int) {
	logger := zerolog.Ctx(r.Context())

	accessToken, err := svc.Issuer.AccessToken(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to sign access token")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	refreshToken, err := svc.Issuer.RefreshToken(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to sign refresh token")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/api",
		MaxAge:   int(authn.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   svc.Config.Auth.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		Domain:   svc.Config.Auth.CookieDomain,
	})

	WriteResponse(w, statusCode, models.AccessTokenResponse{AccessToken: accessToken})
}

// hashResetToken digests a reset token for storage and lookup.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
