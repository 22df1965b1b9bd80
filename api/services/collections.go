package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SampleBase/samplebase-services/db"
	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const defaultPageSize = 25
const maxPageSize = 100

// CreateCollectionService creates a collection owned by the caller.
func (svc *Service) CreateCollectionService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := callerID(r)
	if !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	var req models.CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid collection payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if msg := validateCollectionName(req.Name); msg != "" {
		WriteFieldError(w, http.StatusBadRequest, "name", msg)
		return
	}

	// Collections are private unless stated otherwise
	private := true
	if req.Private != nil {
		private = *req.Private
	}

	collection := &models.Collection{
		Name:    req.Name,
		Private: private,
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}
	collection, err := svc.DB.CreateCollection(collection, userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create collection in database")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("collection_id", collection.ID.String()).Msg("Collection created")
	location := fmt.Sprintf("%s/%s", r.URL.Path, collection.ID)
	WriteResponse(w, http.StatusCreated, *collection, location)
}

// GetCollectionsService returns the collections the caller owns or has
// access to.
func (svc *Service) GetCollectionsService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := callerID(r)
	if !ok {
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	owned, err := svc.DB.GetOwnedCollections(userID, false)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve owned collections")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if owned == nil {
		owned = []models.Collection{}
	}

	shared, err := svc.DB.GetSharedCollections(userID, false)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve shared collections")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if shared == nil {
		shared = []models.Collection{}
	}

	WriteResponse(w, http.StatusOK, struct {
		Owned  []models.Collection `json:"owned"`
		Shared []models.Collection `json:"shared"`
	}{Owned: owned, Shared: shared})
}

// GetPublicCollectionsService returns a page of public collections,
// newest first.
func (svc *Service) GetPublicCollectionsService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	limit := defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			WriteFieldError(w, http.StatusBadRequest, "limit", "Limit must be between 1 and 100")
			return
		}
		limit = n
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteFieldError(w, http.StatusBadRequest, "offset", "Offset must not be negative")
			return
		}
		offset = n
	}

	collections, total, err := svc.DB.GetPublicCollections(limit, offset)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve public collections")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if collections == nil {
		collections = []models.Collection{}
	}

	WriteResponse(w, http.StatusOK, struct {
		Collections []models.Collection `json:"collections"`
		Total       int                 `json:"total"`
	}{Collections: collections, Total: total})
}

// GetCollectionService retrieves a collection with its contents. Private
// collections require owner, user-link or group-link access; share lists
// are only included for the owner.
func (svc *Service) GetCollectionService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	collection, access, ok := svc.collectionFromPath(w, r)
	if !ok {
		return
	}
	if !access.CanView {
		logger.Warn().Str("collection_id", collection.ID.String()).
			Msg("Access denied: private collection")
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}

	collection.CanEdit = access.CanEdit
	collection.CanExecute = access.CanExecute
	detail := models.CollectionDetail{Collection: *collection}

	samples, err := svc.DB.GetCollectionSamples(collection.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve samples")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if samples == nil {
		samples = []models.Sample{}
	}
	detail.Samples = samples

	papers, err := svc.DB.GetCollectionPapers(collection.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve papers")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if papers == nil {
		papers = []models.Paper{}
	}
	detail.Papers = papers

	if access.IsOwner {
		users, err := svc.DB.GetCollectionUsers(collection.ID)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to retrieve collection users")
			WriteResponse(w, http.StatusInternalServerError, nil)
			return
		}
		detail.Users = users

		groups, err := svc.DB.GetCollectionGroups(collection.ID)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to retrieve collection groups")
			WriteResponse(w, http.StatusInternalServerError, nil)
			return
		}
		detail.Groups = groups
	}

	WriteResponse(w, http.StatusOK, detail)
}

// UpdateCollectionService updates a collection. Owner or a user with edit
// access.
func (svc *Service) UpdateCollectionService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	collection, access, ok := svc.collectionFromPath(w, r)
	if !ok {
		return
	}
	if !access.CanEdit {
		logger.Warn().Str("collection_id", collection.ID.String()).
			Msg("Access denied: no edit access")
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}

	var req models.CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid collection payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if req.Name != "" {
		if msg := validateCollectionName(req.Name); msg != "" {
			WriteFieldError(w, http.StatusBadRequest, "name", msg)
			return
		}
		collection.Name = req.Name
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}

	// Only the owner can change visibility
	if req.Private != nil {
		if !access.IsOwner {
			WriteResponse(w, http.StatusForbidden, nil)
			return
		}
		collection.Private = *req.Private
	}

	if err := svc.DB.UpdateCollection(collection); err != nil {
		logger.Error().Err(err).Msg("Failed to update collection")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("collection_id", collection.ID.String()).Msg("Collection updated")
	WriteResponse(w, http.StatusOK, *collection)
}

// DeleteCollectionService deletes a collection. Owner only.
func (svc *Service) DeleteCollectionService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	collection, access, ok := svc.collectionFromPath(w, r)
	if !ok {
		return
	}
	if !access.IsOwner {
		logger.Warn().Str("collection_id", collection.ID.String()).
			Msg("Access denied: not the owner")
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}

	if err := svc.DB.DeleteCollection(collection.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to delete collection")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("collection_id", collection.ID.String()).Msg("Collection deleted")
	WriteResponse(w, http.StatusNoContent, nil)
}

// ShareCollectionUserService shares a collection directly with a user.
// Owner only. Defaults: edit allowed, execute denied.
func (svc *Service) ShareCollectionUserService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	collection, access, ok := svc.collectionFromPath(w, r)
	if !ok {
		return
	}
	if !access.IsOwner {
		WriteResponse(w, http.StatusForbidden, nil)
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

	canEdit, canExecute := true, false
	var req models.CollectionShareRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn().Err(err).Msg("Invalid share payload")
			WriteError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		if req.CanEdit != nil {
			canEdit = *req.CanEdit
		}
		if req.CanExecute != nil {
			canExecute = *req.CanExecute
		}
	}

	if err := svc.DB.ShareCollectionWithUser(collection.ID, target.ID, canEdit, canExecute); err != nil {
		logger.Error().Err(err).Msg("Failed to share collection")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("collection_id", collection.ID.String()).
		Str("user_id", target.ID.String()).Msg("Collection shared with user")
	WriteResponse(w, http.StatusOK, nil)
}

// UnshareCollectionUserService removes a direct user share. Owner only.
func (svc *Service) UnshareCollectionUserService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	collection, access, ok := svc.collectionFromPath(w, r)
	if !ok {
		return
	}
	if !access.IsOwner {
		WriteResponse(w, http.StatusForbidden, nil)
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

	if err := svc.DB.UnshareCollectionWithUser(collection.ID, target.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to unshare collection")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	WriteResponse(w, http.StatusNoContent, nil)
}

// ShareCollectionGroupService shares a collection with a group. Owner
// only.
func (svc *Service) ShareCollectionGroupService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	collection, access, ok := svc.collectionFromPath(w, r)
	if !ok {
		return
	}
	if !access.IsOwner {
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}

	groupID, err := uuid.Parse(mux.Vars(r)["group-id"])
	if err != nil {
		WriteResponse(w, http.StatusBadRequest, nil)
		return
	}
	group, err := svc.DB.GetGroup(groupID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve group")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}
	if group == nil {
		WriteResponse(w, http.StatusNotFound, nil)
		return
	}

	canEdit := true
	var req models.CollectionShareRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn().Err(err).Msg("Invalid share payload")
			WriteError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		if req.CanEdit != nil {
			canEdit = *req.CanEdit
		}
	}

	if err := svc.DB.ShareCollectionWithGroup(collection.ID, group.ID, canEdit); err != nil {
		logger.Error().Err(err).Msg("Failed to share collection")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("collection_id", collection.ID.String()).
		Str("group_id", group.ID.String()).Msg("Collection shared with group")
	WriteResponse(w, http.StatusOK, nil)
}

// UnshareCollectionGroupService removes a group share. Owner only.
func (svc *Service) UnshareCollectionGroupService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	collection, access, ok := svc.collectionFromPath(w, r)
	if !ok {
		return
	}
	if !access.IsOwner {
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}

	groupID, err := uuid.Parse(mux.Vars(r)["group-id"])
	if err != nil {
		WriteResponse(w, http.StatusBadRequest, nil)
		return
	}

	if err := svc.DB.UnshareCollectionWithGroup(collection.ID, groupID); err != nil {
		logger.Error().Err(err).Msg("Failed to unshare collection")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	WriteResponse(w, http.StatusNoContent, nil)
}

// collectionFromPath parses the collection ID from the URL, loads the
// collection and resolves the caller's access, writing the error response
// when the collection is missing.
func (svc *Service) collectionFromPath(w http.ResponseWriter, r *http.Request) (*models.Collection, db.CollectionAccess, bool) {
	logger := zerolog.Ctx(r.Context())

	collectionID, err := uuid.Parse(mux.Vars(r)["collection-id"])
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid collection ID")
		WriteResponse(w, http.StatusBadRequest, nil)
		return nil, db.CollectionAccess{}, false
	}

	collection, err := svc.DB.GetCollection(collectionID)
	if err != nil {
		logger.Error().Err(err).Str("collection_id", collectionID.String()).
			Msg("Database error retrieving collection")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return nil, db.CollectionAccess{}, false
	}
	if collection == nil {
		logger.Warn().Str("collection_id", collectionID.String()).Msg("Collection not found")
		WriteResponse(w, http.StatusNotFound, nil)
		return nil, db.CollectionAccess{}, false
	}

	userID, _ := callerID(r)
	access, err := svc.DB.GetCollectionAccess(collectionID, userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve collection access")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return nil, db.CollectionAccess{}, false
	}
	return collection, access, true
}
