package handlers

import (
	"net/http"

	"github.com/SampleBase/samplebase-services/api/services"
)

func GetMe(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetMeService(w, r)
	}
}

func UpdateMe(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateMeService(w, r)
	}
}

func DeleteMe(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteMeService(w, r)
	}
}

func UpdatePassword(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdatePasswordService(w, r)
	}
}

func GetUser(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetUserService(w, r)
	}
}
