package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/SampleBase/samplebase-services/internal/events"
	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts a PostgreSQL container for the integration
// tests and returns a connection plus a cleanup function.
func setupPostgresContainer() (*sql.DB, func(), error) {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:13",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not start container: %w", err)
	}

	host, err := postgresC.Host(ctx)
	if err != nil {
		postgresC.Terminate(ctx)
		return nil, nil, fmt.Errorf("could not get container host: %w", err)
	}
	port, err := postgresC.MappedPort(ctx, "5432/tcp")
	if err != nil {
		postgresC.Terminate(ctx)
		return nil, nil, fmt.Errorf("could not get mapped port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port())

	dbConn, err := sql.Open("postgres", connStr)
	if err != nil {
		postgresC.Terminate(ctx)
		return nil, nil, fmt.Errorf("could not connect to database: %w", err)
	}

	for i := 0; i < 10; i++ {
		err = dbConn.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		dbConn.Close()
		postgresC.Terminate(ctx)
		return nil, nil, fmt.Errorf("database not reachable: %w", err)
	}

	cleanup := func() {
		dbConn.Close()
		postgresC.Terminate(ctx)
	}

	return dbConn, cleanup, nil
}

func TestSampleBaseDBIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	sharedDB, cleanup, err := setupPostgresContainer()
	require.NoError(t, err, "Could not set up PostgreSQL container")
	defer cleanup()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	store := &SampleBaseDB{
		DB:     sharedDB,
		Events: events.NoopNotifier{},
		Log:    &logger,
	}

	require.NoError(t, store.Migrate(), "Could not run migrations")

	// Shared fixtures built up across the subtests
	var alice, bob *models.User
	var lab *models.Group
	var collection *models.Collection

	t.Run("users", func(t *testing.T) {
		alice, err = store.CreateUser(&models.User{
			Username:     "alice",
			Email:        "alice@example.com",
			Name:         "Alice",
			PasswordHash: "x",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, alice.ID)

		bob, err = store.CreateUser(&models.User{
			Username:     "bob",
			Email:        "bob@example.com",
			Name:         "Bob",
			PasswordHash: "x",
		})
		require.NoError(t, err)

		found, err := store.GetUserByUsername("alice")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, alice.ID, found.ID)

		missing, err := store.GetUserByUsername("nobody")
		require.NoError(t, err)
		assert.Nil(t, missing, "Unknown usernames return nil, not an error")
	})

	t.Run("groups and membership", func(t *testing.T) {
		lab, err = store.CreateGroup(&models.Group{
			Slug: "lab-a",
			Name: "Lab A",
		}, alice.ID)
		require.NoError(t, err)

		// The creator is admin and member
		isAdmin, err := store.IsGroupAdmin(lab.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, isAdmin)

		require.NoError(t, store.AddGroupMember(lab.ID, bob.ID))

		users, err := store.GetGroupUsers(lab.ID)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Username, "Admins come first")

		admins, err := store.CountGroupAdmins(lab.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, admins)

		sole, err := store.SoleAdminGroups(alice.ID)
		require.NoError(t, err)
		require.Len(t, sole, 1, "Alice is sole admin of a populated group")
		assert.Equal(t, lab.ID, sole[0].ID)
	})

	t.Run("invitations", func(t *testing.T) {
		carol, err := store.CreateUser(&models.User{
			Username:     "carol",
			Email:        "carol@example.com",
			Name:         "Carol",
			PasswordHash: "x",
		})
		require.NoError(t, err)

		invitation, err := store.CreateInvitation(lab.ID, carol.ID)
		require.NoError(t, err)
		assert.Equal(t, "carol", invitation.User.Username)
		assert.Equal(t, "lab-a", invitation.Group.Slug)

		exists, err := store.InvitationExists(lab.ID, carol.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, store.AcceptInvitation(invitation.ID, lab.ID, carol.ID))

		// Accepting joins the group and consumes the invitation
		isMember, err := store.IsGroupMember(lab.ID, carol.ID)
		require.NoError(t, err)
		assert.True(t, isMember)

		exists, err = store.InvitationExists(lab.ID, carol.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("collections and access", func(t *testing.T) {
		collection, err = store.CreateCollection(&models.Collection{
			Name:    "Soil samples",
			Private: true,
		}, alice.ID)
		require.NoError(t, err)

		access, err := store.GetCollectionAccess(collection.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, access.IsOwner)
		assert.True(t, access.CanEdit)

		access, err = store.GetCollectionAccess(collection.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, access.CanView, "Private collection is hidden from strangers")

		require.NoError(t, store.ShareCollectionWithUser(collection.ID, bob.ID, true, false))

		access, err = store.GetCollectionAccess(collection.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, access.CanView)
		assert.True(t, access.CanEdit)
		assert.False(t, access.CanExecute)

		shared, err := store.GetSharedCollections(bob.ID, false)
		require.NoError(t, err)
		require.Len(t, shared, 1)
		assert.Equal(t, "alice", shared[0].Owner)

		// Group shares grant access to all members
		require.NoError(t, store.UnshareCollectionWithUser(collection.ID, bob.ID))
		require.NoError(t, store.ShareCollectionWithGroup(collection.ID, lab.ID, false))

		access, err = store.GetCollectionAccess(collection.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, access.CanView)
		assert.False(t, access.CanEdit)
	})

	t.Run("samples and papers", func(t *testing.T) {
		qc := true
		sample, err := store.CreateSample(&models.Sample{
			CollectionID: collection.ID,
			Name:         "S-001",
			Organism:     "E. coli",
			QCPass:       &qc,
		})
		require.NoError(t, err)

		sample.Organism = "E. coli K-12"
		require.NoError(t, store.UpdateSample(sample))

		found, err := store.GetSample(sample.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "E. coli K-12", found.Organism)
		assert.True(t, found.LastModified.After(found.CreatedAt) ||
			found.LastModified.Equal(found.CreatedAt))

		paper, err := store.CreatePaper(&models.Paper{
			CollectionID: collection.ID,
			Title:        "Soil microbiome survey",
			Year:         2023,
		})
		require.NoError(t, err)

		papers, err := store.GetCollectionPapers(collection.ID)
		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.Equal(t, paper.ID, papers[0].ID)

		// Deleting the collection cascades to its contents
		require.NoError(t, store.DeleteCollection(collection.ID))
		gone, err := store.GetSample(sample.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})

	t.Run("password reset tokens", func(t *testing.T) {
		hash := "deadbeef"
		require.NoError(t, store.UpsertPasswordResetToken(alice.ID, hash, time.Now().UTC().Add(time.Hour)))

		userID, err := store.GetUserIDByResetToken(hash)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, userID)

		// Expired tokens do not resolve
		require.NoError(t, store.UpsertPasswordResetToken(alice.ID, hash, time.Now().UTC().Add(-time.Minute)))
		userID, err = store.GetUserIDByResetToken(hash)
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, userID)

		require.NoError(t, store.DeletePasswordResetToken(alice.ID))
	})
}
