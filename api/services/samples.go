package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SampleBase/samplebase-services/db"
	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// CreateSampleService adds a sample to a collection. Requires edit access
// on the collection.
func (svc *Service) CreateSampleService(w http.ResponseWriter, r *http.Request) {
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

	var req models.SampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid sample payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Name == nil || *req.Name == "" {
		WriteFieldError(w, http.StatusBadRequest, "name", "This field is required")
		return
	}

	sample := &models.Sample{
		CollectionID: collection.ID,
		Name:         *req.Name,
		QCPass:       req.QCPass,
	}
	if req.Source != nil {
		sample.Source = *req.Source
	}
	if req.Organism != nil {
		sample.Organism = *req.Organism
	}
	if req.QCMessage != nil {
		sample.QCMessage = *req.QCMessage
	}
	if req.PIName != nil {
		sample.PIName = *req.PIName
	}
	if req.AnnotatorName != nil {
		sample.AnnotatorName = *req.AnnotatorName
	}
	if req.Description != nil {
		sample.Description = *req.Description
	}

	sample, err := svc.DB.CreateSample(sample)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create sample in database")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("sample_id", sample.ID.String()).
		Str("collection_id", collection.ID.String()).Msg("Sample created")
	location := fmt.Sprintf("/api/samples/%s", sample.ID)
	WriteResponse(w, http.StatusCreated, *sample, location)
}

// GetSampleService retrieves a sample. Requires view access on the owning
// collection.
func (svc *Service) GetSampleService(w http.ResponseWriter, r *http.Request) {
	sample, access, ok := svc.sampleFromPath(w, r)
	if !ok {
		return
	}
	if !access.CanView {
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}
	WriteResponse(w, http.StatusOK, *sample)
}

// UpdateSampleService updates a sample's fields. Requires edit access on
// the owning collection. Nil fields are left unchanged.
func (svc *Service) UpdateSampleService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	sample, access, ok := svc.sampleFromPath(w, r)
	if !ok {
		return
	}
	if !access.CanEdit {
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}

	var req models.SampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid sample payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			WriteFieldError(w, http.StatusBadRequest, "name", "This field is required")
			return
		}
		sample.Name = *req.Name
	}
	if req.Source != nil {
		sample.Source = *req.Source
	}
	if req.Organism != nil {
		sample.Organism = *req.Organism
	}
	if req.QCPass != nil {
		sample.QCPass = req.QCPass
	}
	if req.QCMessage != nil {
		sample.QCMessage = *req.QCMessage
	}
	if req.PIName != nil {
		sample.PIName = *req.PIName
	}
	if req.AnnotatorName != nil {
		sample.AnnotatorName = *req.AnnotatorName
	}
	if req.Description != nil {
		sample.Description = *req.Description
	}

	if err := svc.DB.UpdateSample(sample); err != nil {
		logger.Error().Err(err).Msg("Failed to update sample")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("sample_id", sample.ID.String()).Msg("Sample updated")
	WriteResponse(w, http.StatusOK, *sample)
}

// DeleteSampleService removes a sample. Requires edit access on the
// owning collection.
func (svc *Service) DeleteSampleService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	sample, access, ok := svc.sampleFromPath(w, r)
	if !ok {
		return
	}
	if !access.CanEdit {
		WriteResponse(w, http.StatusForbidden, nil)
		return
	}

	if err := svc.DB.DeleteSample(sample.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to delete sample")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return
	}

	logger.Info().Str("sample_id", sample.ID.String()).Msg("Sample deleted")
	WriteResponse(w, http.StatusNoContent, nil)
}

// sampleFromPath parses the sample ID from the URL, loads the sample and
// resolves the caller's access to its collection, writing the error
// response when the sample is missing.
func (svc *Service) sampleFromPath(w http.ResponseWriter, r *http.Request) (*models.Sample, db.CollectionAccess, bool) {
	logger := zerolog.Ctx(r.Context())

	sampleID, err := uuid.Parse(mux.Vars(r)["sample-id"])
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid sample ID")
		WriteResponse(w, http.StatusBadRequest, nil)
		return nil, db.CollectionAccess{}, false
	}

	sample, err := svc.DB.GetSample(sampleID)
	if err != nil {
		logger.Error().Err(err).Str("sample_id", sampleID.String()).
			Msg("Database error retrieving sample")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return nil, db.CollectionAccess{}, false
	}
	if sample == nil {
		logger.Warn().Str("sample_id", sampleID.String()).Msg("Sample not found")
		WriteResponse(w, http.StatusNotFound, nil)
		return nil, db.CollectionAccess{}, false
	}

	userID, _ := callerID(r)
	access, err := svc.DB.GetCollectionAccess(sample.CollectionID, userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve collection access")
		WriteResponse(w, http.StatusInternalServerError, nil)
		return nil, db.CollectionAccess{}, false
	}
	return sample, access, true
}
