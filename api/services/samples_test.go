package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SampleBase/samplebase-services/db"
	"github.com/SampleBase/samplebase-services/models"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateSampleService(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	collectionID := uuid.New()
	sampleID := uuid.New()

	mockDB.On("GetCollection", collectionID).Return(
		&models.Collection{ID: collectionID, Owner: "testuser"}, nil)
	mockDB.On("GetCollectionAccess", collectionID, userID).Return(
		db.CollectionAccess{IsOwner: true, CanView: true, CanEdit: true, CanExecute: true}, nil)
	mockDB.On("CreateSample", mock.AnythingOfType("*models.Sample")).Return(
		&models.Sample{ID: sampleID, CollectionID: collectionID, Name: "S-001", Organism: "E. coli"}, nil)

	body, _ := json.Marshal(models.SampleRequest{
		Name:     aws.String("S-001"),
		Organism: aws.String("E. coli"),
		QCPass:   aws.Bool(true),
	})
	r := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/collections/%s/samples", collectionID), bytes.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"collection-id": collectionID.String()})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.CreateSampleService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, fmt.Sprintf("/api/samples/%s", sampleID), res.Header.Get("Location"))

	mockDB.AssertExpectations(t)
	mockDB.AssertCalled(t, "CreateSample", mock.MatchedBy(func(s *models.Sample) bool {
		return s.CollectionID == collectionID && s.Name == "S-001" && s.QCPass != nil && *s.QCPass
	}))
}

func TestCreateSampleServiceRequiresEdit(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	collectionID := uuid.New()

	mockDB.On("GetCollection", collectionID).Return(
		&models.Collection{ID: collectionID, Owner: "someoneelse"}, nil)
	mockDB.On("GetCollectionAccess", collectionID, userID).Return(
		db.CollectionAccess{CanView: true}, nil)

	body, _ := json.Marshal(models.SampleRequest{Name: aws.String("S-001")})
	r := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/collections/%s/samples", collectionID), bytes.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"collection-id": collectionID.String()})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.CreateSampleService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	mockDB.AssertNotCalled(t, "CreateSample", mock.Anything)
}

func TestCreateSampleServiceMissingName(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	collectionID := uuid.New()

	mockDB.On("GetCollection", collectionID).Return(
		&models.Collection{ID: collectionID, Owner: "testuser"}, nil)
	mockDB.On("GetCollectionAccess", collectionID, userID).Return(
		db.CollectionAccess{IsOwner: true, CanView: true, CanEdit: true, CanExecute: true}, nil)

	body, _ := json.Marshal(models.SampleRequest{Organism: aws.String("E. coli")})
	r := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/collections/%s/samples", collectionID), bytes.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"collection-id": collectionID.String()})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.CreateSampleService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var errResp models.ErrorResponse
	json.NewDecoder(res.Body).Decode(&errResp)
	assert.Equal(t, "This field is required", errResp.Fields["name"])

	mockDB.AssertNotCalled(t, "CreateSample", mock.Anything)
}

func TestGetSampleService(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	collectionID := uuid.New()
	sampleID := uuid.New()

	mockDB.On("GetSample", sampleID).Return(
		&models.Sample{ID: sampleID, CollectionID: collectionID, Name: "S-001"}, nil)
	mockDB.On("GetCollectionAccess", collectionID, userID).Return(
		db.CollectionAccess{CanView: true}, nil)

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/samples/%s", sampleID), nil)
	r = mux.SetURLVars(r, map[string]string{"sample-id": sampleID.String()})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.GetSampleService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var sample models.Sample
	json.NewDecoder(res.Body).Decode(&sample)
	assert.Equal(t, "S-001", sample.Name)

	mockDB.AssertExpectations(t)
}

func TestUpdateSampleServicePartial(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	collectionID := uuid.New()
	sampleID := uuid.New()

	mockDB.On("GetSample", sampleID).Return(&models.Sample{
		ID:           sampleID,
		CollectionID: collectionID,
		Name:         "S-001",
		Organism:     "E. coli",
		Source:       "soil",
	}, nil)
	mockDB.On("GetCollectionAccess", collectionID, userID).Return(
		db.CollectionAccess{CanView: true, CanEdit: true}, nil)
	mockDB.On("UpdateSample", mock.AnythingOfType("*models.Sample")).Return(nil)

	// Only the QC fields change, everything else stays
	body, _ := json.Marshal(models.SampleRequest{
		QCPass:    aws.Bool(false),
		QCMessage: aws.String("contamination detected"),
	})
	r := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/samples/%s", sampleID), bytes.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"sample-id": sampleID.String()})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.UpdateSampleService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	mockDB.AssertCalled(t, "UpdateSample", mock.MatchedBy(func(s *models.Sample) bool {
		return s.Name == "S-001" && s.Organism == "E. coli" &&
			s.QCPass != nil && !*s.QCPass && s.QCMessage == "contamination detected"
	}))
}

func TestDeleteSampleService(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	userID := uuid.New()
	collectionID := uuid.New()
	sampleID := uuid.New()

	mockDB.On("GetSample", sampleID).Return(
		&models.Sample{ID: sampleID, CollectionID: collectionID, Name: "S-001"}, nil)
	mockDB.On("GetCollectionAccess", collectionID, userID).Return(
		db.CollectionAccess{CanView: true, CanEdit: true}, nil)
	mockDB.On("DeleteSample", sampleID).Return(nil)

	r := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/samples/%s", sampleID), nil)
	r = mux.SetURLVars(r, map[string]string{"sample-id": sampleID.String()})
	r = withClaims(r, userID)
	w := httptest.NewRecorder()

	svc.DeleteSampleService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	mockDB.AssertExpectations(t)
}

func TestGetSampleServiceNotFound(t *testing.T) {

	mockDB := new(MockStore)
	svc := testService(mockDB)

	sampleID := uuid.New()
	mockDB.On("GetSample", sampleID).Return((*models.Sample)(nil), nil)

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/samples/%s", sampleID), nil)
	r = mux.SetURLVars(r, map[string]string{"sample-id": sampleID.String()})
	w := httptest.NewRecorder()

	svc.GetSampleService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
