package handlers

import (
	"net/http"

	"github.com/SampleBase/samplebase-services/api/services"
)

func Signup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.SignupService(w, r)
	}
}

func Login(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.LoginService(w, r)
	}
}

func Refresh(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.RefreshService(w, r)
	}
}

func Logout(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.LogoutService(w, r)
	}
}

func RequestPasswordReset(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.PasswordResetRequestService(w, r)
	}
}

func ResetPassword(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.PasswordResetService(w, r)
	}
}
