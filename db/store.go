package db

import (
	"time"

	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
)

// Store is the persistence surface the service layer depends on.
// *SampleBaseDB is the Postgres implementation; tests substitute mocks.
type Store interface {
	Close() error

	// Users
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(userID uuid.UUID) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdateUserPassword(userID uuid.UUID, hash string) error
	UpdateLastLogin(userID uuid.UUID) error
	DeleteUser(userID uuid.UUID) error
	CountOwnedCollections(userID uuid.UUID) (int, error)
	SoleAdminGroups(userID uuid.UUID) ([]models.Group, error)

	// Password reset tokens
	UpsertPasswordResetToken(userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetUserIDByResetToken(tokenHash string) (uuid.UUID, error)
	DeletePasswordResetToken(userID uuid.UUID) error

	// Groups
	CreateGroup(group *models.Group, creatorID uuid.UUID) (*models.Group, error)
	GetGroup(groupID uuid.UUID) (*models.Group, error)
	GetGroupBySlug(slug string) (*models.Group, error)
	GroupNameTaken(name string) (bool, error)
	UpdateGroup(group *models.Group) error
	DeleteGroup(groupID uuid.UUID) error
	GetGroupUsers(groupID uuid.UUID) ([]models.User, error)
	GetGroupAdmins(groupID uuid.UUID) ([]models.User, error)
	IsGroupMember(groupID, userID uuid.UUID) (bool, error)
	IsGroupAdmin(groupID, userID uuid.UUID) (bool, error)
	AddGroupMember(groupID, userID uuid.UUID) error
	RemoveGroupMember(groupID, userID uuid.UUID) error
	SetGroupAdmin(groupID, userID uuid.UUID, isAdmin bool) error
	CountGroupAdmins(groupID uuid.UUID) (int, error)
	GetUserGroups(userID uuid.UUID) ([]models.Group, error)

	// Invitations
	CreateInvitation(groupID, userID uuid.UUID) (*models.Invitation, error)
	GetInvitation(invitationID uuid.UUID) (*models.Invitation, error)
	InvitationExists(groupID, userID uuid.UUID) (bool, error)
	GetGroupInvitations(groupID uuid.UUID) ([]models.Invitation, error)
	GetUserInvitations(userID uuid.UUID) ([]models.Invitation, error)
	AcceptInvitation(invitationID, groupID, userID uuid.UUID) error
	DeleteInvitation(invitationID uuid.UUID) error

	// Collections
	CreateCollection(c *models.Collection, ownerID uuid.UUID) (*models.Collection, error)
	GetCollection(collectionID uuid.UUID) (*models.Collection, error)
	UpdateCollection(c *models.Collection) error
	DeleteCollection(collectionID uuid.UUID) error
	GetOwnedCollections(userID uuid.UUID, publicOnly bool) ([]models.Collection, error)
	GetSharedCollections(userID uuid.UUID, publicOnly bool) ([]models.Collection, error)
	GetPublicCollections(limit, offset int) ([]models.Collection, int, error)
	GetCollectionAccess(collectionID, userID uuid.UUID) (CollectionAccess, error)
	GetCollectionUsers(collectionID uuid.UUID) ([]models.CollectionUser, error)
	GetCollectionGroups(collectionID uuid.UUID) ([]models.CollectionGroup, error)
	ShareCollectionWithUser(collectionID, userID uuid.UUID, canEdit, canExecute bool) error
	UnshareCollectionWithUser(collectionID, userID uuid.UUID) error
	ShareCollectionWithGroup(collectionID, groupID uuid.UUID, canEdit bool) error
	UnshareCollectionWithGroup(collectionID, groupID uuid.UUID) error

	// Samples and papers
	CreateSample(s *models.Sample) (*models.Sample, error)
	GetSample(sampleID uuid.UUID) (*models.Sample, error)
	UpdateSample(s *models.Sample) error
	DeleteSample(sampleID uuid.UUID) error
	GetCollectionSamples(collectionID uuid.UUID) ([]models.Sample, error)
	CreatePaper(p *models.Paper) (*models.Paper, error)
	GetPaper(paperID uuid.UUID) (*models.Paper, error)
	UpdatePaper(p *models.Paper) error
	DeletePaper(paperID uuid.UUID) error
	GetCollectionPapers(collectionID uuid.UUID) ([]models.Paper, error)
}
