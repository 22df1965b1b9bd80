package handlers

import (
	"net/http"

	"github.com/SampleBase/samplebase-services/api/services"
)

func CreateInvitation(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateInvitationService(w, r)
	}
}

func AcceptInvitation(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.AcceptInvitationService(w, r)
	}
}

func DeleteInvitation(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteInvitationService(w, r)
	}
}
