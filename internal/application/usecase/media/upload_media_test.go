package media

import (
	"context"
	"errors"
	"io"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/khoahotran/media-vault/adapters/event"
	"github.com/khoahotran/media-vault/internal/application/service"
	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/khoahotran/media-vault/pkg/apperror"
	"github.com/khoahotran/media-vault/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploadCalled  bool
	uploadRef     string
	uploadErr     error
	result        *service.UploadResult
	destroyCalled bool
	destroyRef    string
	destroyErr    error
}

func (f *fakeUploader) Upload(ctx context.Context, file io.Reader, assetRef string, kind media.Kind) (*service.UploadResult, error) {
	f.uploadCalled = true
	f.uploadRef = assetRef
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &service.UploadResult{StoredRef: assetRef, SecureURL: "https://cdn.example/" + assetRef}, nil
}

func (f *fakeUploader) Destroy(ctx context.Context, assetRef string, kind media.Kind) error {
	f.destroyCalled = true
	f.destroyRef = assetRef
	return f.destroyErr
}

type fakeMediaRepo struct {
	records   map[uuid.UUID]*media.Media
	createErr error
	deleteErr error
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{records: make(map[uuid.UUID]*media.Media)}
}

func (f *fakeMediaRepo) Create(ctx context.Context, m *media.Media) error {
	if f.createErr != nil {
		return f.createErr
	}
	m.ID = uuid.New()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	stored := *m
	f.records[m.ID] = &stored
	return nil
}

func (f *fakeMediaRepo) FindByID(ctx context.Context, kind media.Kind, id uuid.UUID) (*media.Media, error) {
	m, ok := f.records[id]
	if !ok || m.Kind != kind {
		return nil, apperror.NewNotFound("media", id.String())
	}
	found := *m
	return &found, nil
}

func (f *fakeMediaRepo) ListByOwner(ctx context.Context, kind media.Kind, ownerID uuid.UUID) ([]*media.Media, error) {
	out := make([]*media.Media, 0)
	for _, m := range f.records {
		if m.Kind == kind && m.OwnerID == ownerID {
			found := *m
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMediaRepo) DeleteByID(ctx context.Context, kind media.Kind, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.records[id]; !ok {
		return apperror.NewNotFound("media", id.String())
	}
	delete(f.records, id)
	return nil
}

func newUploadUC(repo *fakeMediaRepo, up *fakeUploader) *UploadMediaUseCase {
	return NewUploadMediaUseCase(repo, up, nil, time.Minute, logger.NewNop())
}

func validVideoInput(ownerID uuid.UUID) UploadMediaInput {
	return UploadMediaInput{
		OwnerID:   ownerID,
		Kind:      media.KindVideo,
		File:      strings.NewReader("fake video bytes"),
		SizeBytes: 15 << 20,
		MimeType:  "video/mp4",
		Title:     "demo",
	}
}

func TestUploadMedia_Video_Success(t *testing.T) {
	repo := newFakeMediaRepo()
	up := &fakeUploader{result: &service.UploadResult{
		StoredRef:       "videos/u1/123-abc",
		SecureURL:       "https://cdn.example/videos/u1/123-abc",
		SizeBytes:       6000000,
		DurationSeconds: 42.5,
	}}
	ownerID := uuid.New()

	out, err := newUploadUC(repo, up).Execute(context.Background(), validVideoInput(ownerID))
	require.NoError(t, err)

	assert.Equal(t, ownerID, out.Media.OwnerID)
	assert.Equal(t, "demo", out.Media.Title)
	assert.Equal(t, "videos/u1/123-abc", out.Media.AssetRef)
	assert.Equal(t, int64(15728640), out.Media.OriginalSizeBytes)
	assert.Equal(t, int64(6000000), out.Media.CompressedSizeBytes)
	assert.Equal(t, 42.5, out.Media.DurationSeconds)
	assert.Equal(t, "https://cdn.example/videos/u1/123-abc", out.SecureURL)
	assert.Len(t, repo.records, 1)
}

func TestUploadMedia_TrimsTitleAndDescription(t *testing.T) {
	repo := newFakeMediaRepo()
	up := &fakeUploader{}
	input := validVideoInput(uuid.New())
	input.Title = "  demo  "
	input.Description = "   "

	out, err := newUploadUC(repo, up).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "demo", out.Media.Title)
	assert.Nil(t, out.Media.Description)
}

func TestUploadMedia_Unauthenticated(t *testing.T) {
	repo := newFakeMediaRepo()
	up := &fakeUploader{}

	_, err := newUploadUC(repo, up).Execute(context.Background(), validVideoInput(uuid.Nil))
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.False(t, up.uploadCalled)
}

func TestUploadMedia_MissingFile(t *testing.T) {
	repo := newFakeMediaRepo()
	up := &fakeUploader{}
	input := validVideoInput(uuid.New())
	input.File = nil

	_, err := newUploadUC(repo, up).Execute(context.Background(), input)
	assertValidation(t, err, "missing file")
	assert.False(t, up.uploadCalled)
}

func TestUploadMedia_ValidationOrder_TitleBeforeFormat(t *testing.T) {
	repo := newFakeMediaRepo()
	up := &fakeUploader{}
	input := validVideoInput(uuid.New())
	input.Title = "   "
	input.MimeType = "video/ogg"

	_, err := newUploadUC(repo, up).Execute(context.Background(), input)
	assertValidation(t, err, "missing title")
	assert.False(t, up.uploadCalled)
}

func TestUploadMedia_InvalidFormat_Image(t *testing.T) {
	repo := newFakeMediaRepo()
	up := &fakeUploader{}
	input := UploadMediaInput{
		OwnerID:   uuid.New(),
		Kind:      media.KindImage,
		File:      strings.NewReader("gif bytes"),
		SizeBytes: 1 << 20,
		MimeType:  "image/gif",
		Title:     "not allowed",
	}

	_, err := newUploadUC(repo, up).Execute(context.Background(), input)
	assertValidation(t, err, "invalid format")
	assert.False(t, up.uploadCalled)
	assert.Empty(t, repo.records)
}

func TestUploadMedia_TooLarge(t *testing.T) {
	repo := newFakeMediaRepo()
	up := &fakeUploader{}
	input := validVideoInput(uuid.New())
	input.SizeBytes = media.MaxVideoSizeBytes + 1

	_, err := newUploadUC(repo, up).Execute(context.Background(), input)
	assertValidation(t, err, "too large")
	assert.False(t, up.uploadCalled)
}

func TestUploadMedia_GatewayFailure_NoRecordCreated(t *testing.T) {
	repo := newFakeMediaRepo()
	up := &fakeUploader{uploadErr: &service.RemoteError{StatusCode: 420, Message: "rate limited"}}

	_, err := newUploadUC(repo, up).Execute(context.Background(), validVideoInput(uuid.New()))
	assert.ErrorIs(t, err, apperror.ErrUpstream)
	assert.Empty(t, repo.records)
}

func TestUploadMedia_StoreFailure_NoCompensation(t *testing.T) {
	repo := newFakeMediaRepo()
	repo.createErr = apperror.NewInternal("insert failed", errors.New("boom"))
	up := &fakeUploader{}

	_, err := newUploadUC(repo, up).Execute(context.Background(), validVideoInput(uuid.New()))
	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.True(t, up.uploadCalled)
	// the remote asset is left orphaned on purpose: no rollback delete
	assert.False(t, up.destroyCalled)
}

func TestUploadMedia_VideoFallbacks_WhenProviderOmitsFields(t *testing.T) {
	repo := newFakeMediaRepo()
	up := &fakeUploader{result: &service.UploadResult{
		StoredRef: "videos/u1/456-def",
		SecureURL: "https://cdn.example/videos/u1/456-def",
	}}
	input := validVideoInput(uuid.New())

	out, err := newUploadUC(repo, up).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input.SizeBytes, out.Media.CompressedSizeBytes)
	assert.Equal(t, float64(0), out.Media.DurationSeconds)
}

func TestUploadMedia_ImageHasNoVideoFields(t *testing.T) {
	repo := newFakeMediaRepo()
	up := &fakeUploader{result: &service.UploadResult{
		StoredRef: "images/u1/789-aaa",
		SecureURL: "https://cdn.example/images/u1/789-aaa",
		SizeBytes: 1234,
	}}
	input := UploadMediaInput{
		OwnerID:   uuid.New(),
		Kind:      media.KindImage,
		File:      strings.NewReader("png bytes"),
		SizeBytes: 2 << 20,
		MimeType:  "image/png",
		Title:     "screenshot",
	}

	out, err := newUploadUC(repo, up).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Media.CompressedSizeBytes)
	assert.Equal(t, float64(0), out.Media.DurationSeconds)
}

func TestNewAssetRef_Format(t *testing.T) {
	ownerID := uuid.New()
	ref := newAssetRef(media.KindVideo, ownerID)

	pattern := regexp.MustCompile(`^videos/` + regexp.QuoteMeta(ownerID.String()) + `/\d+-[0-9a-f]{8}$`)
	assert.Regexp(t, pattern, ref)

	// two refs generated back to back must not collide
	assert.NotEqual(t, ref, newAssetRef(media.KindVideo, ownerID))
}

func assertValidation(t *testing.T, err error, reason string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, reason, appErr.Details)
}

// compile-time check that the kafka producer satisfies the publisher port
var _ EventPublisher = (*event.KafkaProducerClient)(nil)
