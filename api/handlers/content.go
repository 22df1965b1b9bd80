package handlers

import (
	"net/http"

	"github.com/SampleBase/samplebase-services/api/services"
)

func CreateSample(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateSampleService(w, r)
	}
}

func GetSample(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetSampleService(w, r)
	}
}

func UpdateSample(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateSampleService(w, r)
	}
}

func DeleteSample(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteSampleService(w, r)
	}
}

func CreatePaper(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreatePaperService(w, r)
	}
}

func GetPaper(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetPaperService(w, r)
	}
}

func UpdatePaper(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdatePaperService(w, r)
	}
}

func DeletePaper(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeletePaperService(w, r)
	}
}
