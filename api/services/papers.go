package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SampleBase/samplebase-services/db"
	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// CreatePaperService attaches a paper to a collection. Requires edit
// access on the collection.
func (svc *Service) CreatePaperService(w http.ResponseWriter, r *http.Request) {
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

	var req models.PaperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid paper payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Title == nil || *req.Title == "" {
		WriteFieldError(w, http.StatusBadRequest, "title", "This field is required")
		return
	}

	paper := &models.Paper{
		CollectionID: collection.ID,
		Title:        *req.Title,
	}
	if req.Year != nil {
		if msg := validatePaperYear(*req.Year); msg != "" {
			WriteFieldError(w, http.StatusBadRequest, "year", msg)
			return
		}
		paper.Year = *req.Year
	}
	if req.URL != nil {
		paper.URL = *req.URL
	}

	paper, err := svc.DB.CreatePaper(paper)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create paper in database")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("paper_id", paper.ID.String()).
		Str("collection_id", collection.ID.String()).Msg("Paper created")
	location := fmt.Sprintf("/api/papers/%s", paper.ID)
	WriteResponse(w, http.StatusCreated, *paper, location)
}

// GetPaperService retrieves a paper. Requires view access on the owning
// collection.
func (svc *Service) GetPaperService(w http.ResponseWriter, r *http.Request) {
	paper, access, ok := svc.paperFromPath(w, r)
	if !ok {
		return
	}
	if !access.CanView {
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}
	WriteResponse(w, http.StatusOK, *paper)
}

// UpdatePaperService updates a paper's fields. Requires edit access on
// the owning collection.
func (svc *Service) UpdatePaperService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	paper, access, ok := svc.paperFromPath(w, r)
	if !ok {
		return
	}
	if !access.CanEdit {
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}

	var req models.PaperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid paper payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			WriteFieldError(w, http.StatusBadRequest, "title", "This field is required")
			return
		}
		paper.Title = *req.Title
	}
	if req.Year != nil {
		if msg := validatePaperYear(*req.Year); msg != "" {
			WriteFieldError(w, http.StatusBadRequest, "year", msg)
			return
		}
		paper.Year = *req.Year
	}
	if req.URL != nil {
		paper.URL = *req.URL
	}

	if err := svc.DB.UpdatePaper(paper); err != nil {
		logger.Error().Err(err).Msg("Failed to update paper")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("paper_id", paper.ID.String()).Msg("Paper updated")
	WriteResponse(w, http.StatusOK, *paper)
}

// DeletePaperService removes a paper. Requires edit access on the owning
// collection.
func (svc *Service) DeletePaperService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	paper, access, ok := svc.paperFromPath(w, r)
	if !ok {
		return
	}
	if !access.CanEdit {
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}

	if err := svc.DB.DeletePaper(paper.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to delete paper")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("paper_id", paper.ID.String()).Msg("Paper deleted")
	WriteResponse(w, http.StatusNoContent, nil)
}

func validatePaperYear(year int) string {
	if year < 1800 || year > time.Now().Year()+1 {
		return "Enter a plausible publication year"
	}
	return ""
}

// paperFromPath parses the paper ID from the URL, loads the paper and
// resolves the caller's access to its collection, writing the error
// response when the paper is missing.
func (svc *Service) paperFromPath(w http.ResponseWriter, r *http.Request) (*models.Paper, db.CollectionAccess, bool) {
	logger := zerolog.Ctx(r.Context())

	paperID, err := uuid.Parse(mux.Vars(r)["paper-id"])
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid paper ID")
		WriteResponse(w, http.StatusBadRequest, nil)
		return nil, db.CollectionAccess{}, false
	}

	paper, err := svc.DB.GetPaper(paperID)
	if err != nil {
		logger.Error().Err(err).Str("paper_id", paperID.String()).
			Msg("Database error retrieving paper")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return nil, db.CollectionAccess{}, false
	}
	if paper == nil {
		logger.Warn().Str("paper_id", paperID.String()).Msg("Paper not found")
		WriteResponse(w, http.StatusNotFound, nil)
		return nil, db.CollectionAccess{}, false
	}

	userID, _ := callerID(r)
	access, err := svc.DB.GetCollectionAccess(paper.CollectionID, userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve collection access")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return nil, db.CollectionAccess{}, false
	}
	return paper, access, true
}
