package services

import (
	"context"
	"time"

	"github.com/SampleBase/samplebase-services/db"
	"github.com/SampleBase/samplebase-services/internal/events"
	"github.com/SampleBase/samplebase-services/models"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAWSEmailClient struct {
	mock.Mock
}

type MockStore struct {
	mock.Mock
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockAWSEmailClient) SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, input, opts)
	return args.Get(0).(*sesv2.SendEmailOutput), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStore) CreateUser(user *models.User) (*models.User, error) {
	args := m.Called(user)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByID(userID uuid.UUID) (*models.User, error) {
	args := m.Called(userID)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStore) UpdateUserPassword(userID uuid.UUID, hash string) error {
	args := m.Called(userID, hash)
	return args.Error(0)
}

func (m *MockStore) UpdateLastLogin(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStore) DeleteUser(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStore) CountOwnedCollections(userID uuid.UUID) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) SoleAdminGroups(userID uuid.UUID) ([]models.Group, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Group), args.Error(1)
}

func (m *MockStore) UpsertPasswordResetToken(userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockStore) GetUserIDByResetToken(tokenHash string) (uuid.UUID, error) {
	args := m.Called(tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockStore) DeletePasswordResetToken(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStore) CreateGroup(group *models.Group, creatorID uuid.UUID) (*models.Group, error) {
	args := m.Called(group, creatorID)
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockStore) GetGroup(groupID uuid.UUID) (*models.Group, error) {
	args := m.Called(groupID)
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockStore) GetGroupBySlug(slug string) (*models.Group, error) {
	args := m.Called(slug)
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockStore) GroupNameTaken(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) UpdateGroup(group *models.Group) error {
	args := m.Called(group)
	return args.Error(0)
}

func (m *MockStore) DeleteGroup(groupID uuid.UUID) error {
	args := m.Called(groupID)
	return args.Error(0)
}

func (m *MockStore) GetGroupUsers(groupID uuid.UUID) ([]models.User, error) {
	args := m.Called(groupID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStore) GetGroupAdmins(groupID uuid.UUID) ([]models.User, error) {
	args := m.Called(groupID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStore) IsGroupMember(groupID, userID uuid.UUID) (bool, error) {
	args := m.Called(groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) IsGroupAdmin(groupID, userID uuid.UUID) (bool, error) {
	args := m.Called(groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) AddGroupMember(groupID, userID uuid.UUID) error {
	args := m.Called(groupID, userID)
	return args.Error(0)
}

func (m *MockStore) RemoveGroupMember(groupID, userID uuid.UUID) error {
	args := m.Called(groupID, userID)
	return args.Error(0)
}

func (m *MockStore) SetGroupAdmin(groupID, userID uuid.UUID, isAdmin bool) error {
	args := m.Called(groupID, userID, isAdmin)
	return args.Error(0)
}

func (m *MockStore) CountGroupAdmins(groupID uuid.UUID) (int, error) {
	args := m.Called(groupID)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) GetUserGroups(userID uuid.UUID) ([]models.Group, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Group), args.Error(1)
}

func (m *MockStore) CreateInvitation(groupID, userID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(groupID, userID)
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockStore) GetInvitation(invitationID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(invitationID)
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockStore) InvitationExists(groupID, userID uuid.UUID) (bool, error) {
	args := m.Called(groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) GetGroupInvitations(groupID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(groupID)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockStore) GetUserInvitations(userID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockStore) AcceptInvitation(invitationID, groupID, userID uuid.UUID) error {
	args := m.Called(invitationID, groupID, userID)
	return args.Error(0)
}

func (m *MockStore) DeleteInvitation(invitationID uuid.UUID) error {
	args := m.Called(invitationID)
	return args.Error(0)
}

func (m *MockStore) CreateCollection(c *models.Collection, ownerID uuid.UUID) (*models.Collection, error) {
	args := m.Called(c, ownerID)
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockStore) GetCollection(collectionID uuid.UUID) (*models.Collection, error) {
	args := m.Called(collectionID)
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockStore) UpdateCollection(c *models.Collection) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockStore) DeleteCollection(collectionID uuid.UUID) error {
	args := m.Called(collectionID)
	return args.Error(0)
}

func (m *MockStore) GetOwnedCollections(userID uuid.UUID, publicOnly bool) ([]models.Collection, error) {
	args := m.Called(userID, publicOnly)
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockStore) GetSharedCollections(userID uuid.UUID, publicOnly bool) ([]models.Collection, error) {
	args := m.Called(userID, publicOnly)
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockStore) GetPublicCollections(limit, offset int) ([]models.Collection, int, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]models.Collection), args.Int(1), args.Error(2)
}

func (m *MockStore) GetCollectionAccess(collectionID, userID uuid.UUID) (db.CollectionAccess, error) {
	args := m.Called(collectionID, userID)
	return args.Get(0).(db.CollectionAccess), args.Error(1)
}

func (m *MockStore) GetCollectionUsers(collectionID uuid.UUID) ([]models.CollectionUser, error) {
	args := m.Called(collectionID)
	return args.Get(0).([]models.CollectionUser), args.Error(1)
}

func (m *MockStore) GetCollectionGroups(collectionID uuid.UUID) ([]models.CollectionGroup, error) {
	args := m.Called(collectionID)
	return args.Get(0).([]models.CollectionGroup), args.Error(1)
}

func (m *MockStore) ShareCollectionWithUser(collectionID, userID uuid.UUID, canEdit, canExecute bool) error {
	args := m.Called(collectionID, userID, canEdit, canExecute)
	return args.Error(0)
}

func (m *MockStore) UnshareCollectionWithUser(collectionID, userID uuid.UUID) error {
	args := m.Called(collectionID, userID)
	return args.Error(0)
}

func (m *MockStore) ShareCollectionWithGroup(collectionID, groupID uuid.UUID, canEdit bool) error {
	args := m.Called(collectionID, groupID, canEdit)
	return args.Error(0)
}

func (m *MockStore) UnshareCollectionWithGroup(collectionID, groupID uuid.UUID) error {
	args := m.Called(collectionID, groupID)
	return args.Error(0)
}

func (m *MockStore) CreateSample(s *models.Sample) (*models.Sample, error) {
	args := m.Called(s)
	return args.Get(0).(*models.Sample), args.Error(1)
}

func (m *MockStore) GetSample(sampleID uuid.UUID) (*models.Sample, error) {
	args := m.Called(sampleID)
	return args.Get(0).(*models.Sample), args.Error(1)
}

func (m *MockStore) UpdateSample(s *models.Sample) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockStore) DeleteSample(sampleID uuid.UUID) error {
	args := m.Called(sampleID)
	return args.Error(0)
}

func (m *MockStore) GetCollectionSamples(collectionID uuid.UUID) ([]models.Sample, error) {
	args := m.Called(collectionID)
	return args.Get(0).([]models.Sample), args.Error(1)
}

func (m *MockStore) CreatePaper(p *models.Paper) (*models.Paper, error) {
	args := m.Called(p)
	return args.Get(0).(*models.Paper), args.Error(1)
}

func (m *MockStore) GetPaper(paperID uuid.UUID) (*models.Paper, error) {
	args := m.Called(paperID)
	return args.Get(0).(*models.Paper), args.Error(1)
}

func (m *MockStore) UpdatePaper(p *models.Paper) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockStore) DeletePaper(paperID uuid.UUID) error {
	args := m.Called(paperID)
	return args.Error(0)
}

func (m *MockStore) GetCollectionPapers(collectionID uuid.UUID) ([]models.Paper, error) {
	args := m.Called(collectionID)
	return args.Get(0).([]models.Paper), args.Error(1)
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() {
	m.Called()
}
