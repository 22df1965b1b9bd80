package handlers

import (
	"net/http"

	"github.com/SampleBase/samplebase-services/api/services"
)

func CreateCollection(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateCollectionService(w, r)
	}
}

func GetCollections(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetCollectionsService(w, r)
	}
}

func GetPublicCollections(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetPublicCollectionsService(w, r)
	}
}

func GetCollection(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetCollectionService(w, r)
	}
}

func UpdateCollection(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateCollectionService(w, r)
	}
}

func DeleteCollection(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteCollectionService(w, r)
	}
}

func ShareCollectionUser(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ShareCollectionUserService(w, r)
	}
}

func UnshareCollectionUser(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UnshareCollectionUserService(w, r)
	}
}

func ShareCollectionGroup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ShareCollectionGroupService(w, r)
	}
}

func UnshareCollectionGroup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UnshareCollectionGroupService(w, r)
	}
}
