package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/khoahotran/media-vault/pkg/apperror"
	"github.com/khoahotran/media-vault/pkg/logger"
)

type MediaRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	mediaRepo   media.Repository
	ownerID     uuid.UUID
}

func (s *MediaRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	s.dbPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to connect pool: %s", err)
	}

	s.ownerID = uuid.New()
	_, err = s.dbPool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		s.ownerID, "repo_test@example.com", "x")
	if err != nil {
		s.T().Fatalf("Failed to seed owner: %s", err)
	}

	s.mediaRepo = NewPostgresMediaRepo(s.dbPool, logger.NewNop())
}

func (s *MediaRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		s.pgContainer.Terminate(context.Background())
	}
}

func TestMediaRepoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration tests. Set INTEGRATION_TESTS=1 to run.")
	}
	suite.Run(t, new(MediaRepoIntegrationTestSuite))
}

func (s *MediaRepoIntegrationTestSuite) newVideo(assetRef string) *media.Media {
	return &media.Media{
		Kind:                media.KindVideo,
		OwnerID:             s.ownerID,
		Title:               "integration video",
		AssetRef:            assetRef,
		OriginalSizeBytes:   1000,
		CompressedSizeBytes: 600,
		DurationSeconds:     12.25,
	}
}

func (s *MediaRepoIntegrationTestSuite) Test_CreateAndFind_RoundTrip() {
	ctx := context.Background()
	m := s.newVideo("videos/it/roundtrip")
	s.Require().NoError(s.mediaRepo.Create(ctx, m))
	s.Require().NotEqual(uuid.Nil, m.ID)

	got, err := s.mediaRepo.FindByID(ctx, media.KindVideo, m.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), m.ID, got.ID)
	assert.Equal(s.T(), m.OwnerID, got.OwnerID)
	assert.Equal(s.T(), m.Title, got.Title)
	assert.Nil(s.T(), got.Description)
	assert.Equal(s.T(), m.AssetRef, got.AssetRef)
	assert.Equal(s.T(), m.OriginalSizeBytes, got.OriginalSizeBytes)
	assert.Equal(s.T(), m.CompressedSizeBytes, got.CompressedSizeBytes)
	assert.Equal(s.T(), m.DurationSeconds, got.DurationSeconds)
	assert.WithinDuration(s.T(), m.CreatedAt, got.CreatedAt, time.Millisecond)
}

func (s *MediaRepoIntegrationTestSuite) Test_Create_DuplicateAssetRef_Conflict() {
	ctx := context.Background()
	s.Require().NoError(s.mediaRepo.Create(ctx, s.newVideo("videos/it/dup")))

	err := s.mediaRepo.Create(ctx, s.newVideo("videos/it/dup"))
	s.Require().Error(err)
	assert.ErrorIs(s.T(), err, apperror.ErrConflict)
}

func (s *MediaRepoIntegrationTestSuite) Test_ListByOwner_OrderedNewestFirst() {
	ctx := context.Background()
	first := s.newVideo("videos/it/order-1")
	s.Require().NoError(s.mediaRepo.Create(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := s.newVideo("videos/it/order-2")
	s.Require().NoError(s.mediaRepo.Create(ctx, second))

	medias, err := s.mediaRepo.ListByOwner(ctx, media.KindVideo, s.ownerID)
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(medias), 2)
	for i := 1; i < len(medias); i++ {
		assert.False(s.T(), medias[i].CreatedAt.After(medias[i-1].CreatedAt))
	}
}

func (s *MediaRepoIntegrationTestSuite) Test_DeleteByID() {
	ctx := context.Background()
	m := s.newVideo("videos/it/delete-me")
	s.Require().NoError(s.mediaRepo.Create(ctx, m))

	s.Require().NoError(s.mediaRepo.DeleteByID(ctx, media.KindVideo, m.ID))

	_, err := s.mediaRepo.FindByID(ctx, media.KindVideo, m.ID)
	assert.ErrorIs(s.T(), err, apperror.ErrNotFound)

	err = s.mediaRepo.DeleteByID(ctx, media.KindVideo, m.ID)
	assert.ErrorIs(s.T(), err, apperror.ErrNotFound)
}

func (s *MediaRepoIntegrationTestSuite) Test_Image_HasNoVideoColumns() {
	ctx := context.Background()
	desc := "an image description"
	m := &media.Media{
		Kind:              media.KindImage,
		OwnerID:           s.ownerID,
		Title:             "integration image",
		Description:       &desc,
		AssetRef:          "images/it/one",
		OriginalSizeBytes: 512,
	}
	s.Require().NoError(s.mediaRepo.Create(ctx, m))

	got, err := s.mediaRepo.FindByID(ctx, media.KindImage, m.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Description)
	assert.Equal(s.T(), desc, *got.Description)
	assert.Zero(s.T(), got.CompressedSizeBytes)
	assert.Zero(s.T(), got.DurationSeconds)
}
