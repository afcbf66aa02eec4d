package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adframes/internal/domain"
	"adframes/internal/ingest"
	"adframes/internal/ingest/mapping"
	"adframes/internal/ingest/pricing"
	"adframes/internal/port"
	"adframes/internal/service"
	"adframes/internal/session"
	"adframes/internal/validator"
	"adframes/mocks"
)

const csvHeader = "Clave,Tipo de lugar,Dirección,Precio Público (MXN),Latitud,Longitud,Categoría,Base,Altura\n"

func frameLine(id string) string {
	return fmt.Sprintf("%s,Pantalla,Av. Reforma 1,\"$60,000\",19.4,-99.13,Digital,12,6\n", id)
}

func frames(n int) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	for i := 1; i <= n; i++ {
		b.WriteString(frameLine(fmt.Sprintf("FR-%d", i)))
	}
	return b.String()
}

type fixture struct {
	svc     service.UploadService
	store   *session.MemoryStore
	repo    *mocks.MockInventoryRepo
	storage *mocks.MockObjectStorage
	email   *mocks.MockEmailSender
	owner   uuid.UUID
}

func newFixture(maxSize int64) *fixture {
	fields := mapping.CanonicalFields()
	repo := new(mocks.MockInventoryRepo)
	p := &ingest.Pipeline{
		Fields:   fields,
		Engine:   validator.NewEngine(validator.NewBuiltinRegistry(fields)),
		Deriver:  pricing.NewDeriver(0),
		Detector: validator.NewDuplicateDetector(repo, validator.MatchContains),
	}
	f := &fixture{
		store:   session.NewMemoryStore(0),
		repo:    repo,
		storage: new(mocks.MockObjectStorage),
		email:   new(mocks.MockEmailSender),
		owner:   uuid.New(),
	}
	f.svc = service.NewUploadService(p, f.store, repo, f.storage, f.email, service.UploadSettings{
		MaxFileSize:      maxSize,
		DefaultEncodings: []string{"utf-8", "windows-1252"},
		ReportBucket:     "reports",
		PresignExpiry:    3600,
	})
	return f
}

func (f *fixture) create(t *testing.T, body string) *domain.UploadSession {
	t.Helper()
	sess, err := f.svc.Create(context.Background(), service.CreateUploadInput{
		OwnerID:    f.owner,
		OwnerEmail: "owner@example.com",
		FileName:   "frames.csv",
		Size:       int64(len(body)),
		File:       strings.NewReader(body),
	})
	require.NoError(t, err)
	return sess
}

func (f *fixture) previewed(t *testing.T, body string) *domain.UploadSession {
	t.Helper()
	sess := f.create(t, body)
	sess, err := f.svc.Preview(context.Background(), f.owner, sess.ID)
	require.NoError(t, err)
	return sess
}

func TestUploadService_Create_MapsAndStores(t *testing.T) {
	f := newFixture(1 << 20)
	sess := f.create(t, frames(2))

	assert.Equal(t, domain.SessionMapped, sess.State)
	assert.Equal(t, "utf-8", sess.Encoding)
	assert.Len(t, sess.Rows, 2)
	assert.Equal(t, 1, f.store.Len())

	got, err := f.svc.Get(context.Background(), f.owner, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestUploadService_Create_Rejections(t *testing.T) {
	f := newFixture(64)

	_, err := f.svc.Create(context.Background(), service.CreateUploadInput{
		OwnerID: f.owner, FileName: "frames.pdf", Size: 4, File: strings.NewReader("%PDF"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	body := frames(5)
	_, err = f.svc.Create(context.Background(), service.CreateUploadInput{
		OwnerID: f.owner, FileName: "frames.csv", Size: int64(len(body)), File: strings.NewReader(body),
	})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)

	// A lying size header is caught while reading.
	_, err = f.svc.Create(context.Background(), service.CreateUploadInput{
		OwnerID: f.owner, FileName: "frames.csv", Size: 1, File: strings.NewReader(body),
	})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	assert.Equal(t, 0, f.store.Len())
}

func TestUploadService_Create_Unreadable(t *testing.T) {
	f := newFixture(0)
	_, err := f.svc.Create(context.Background(), service.CreateUploadInput{
		OwnerID: f.owner, FileName: "frames.xlsx", Size: 3, File: bytes.NewReader([]byte("not a zip")),
	})
	assert.ErrorIs(t, err, domain.ErrFileUnreadable)
}

func TestUploadService_Get_OtherOwnerHidden(t *testing.T) {
	f := newFixture(0)
	sess := f.create(t, frames(1))

	_, err := f.svc.Get(context.Background(), uuid.New(), sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.Cancel(context.Background(), uuid.New(), sess.ID), domain.ErrSessionNotFound)
}

func TestUploadService_UpdateMapping(t *testing.T) {
	f := newFixture(0)
	sess := f.create(t, frames(1))

	sess, err := f.svc.UpdateMapping(context.Background(), f.owner, sess.ID, map[string]string{mapping.FieldHeight: ""})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionIdle, sess.State)
	assert.Equal(t, []string{mapping.FieldHeight}, sess.MissingFields)

	stored, err := f.store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionIdle, stored.State)
}

func TestUploadService_Commit_AllSucceed(t *testing.T) {
	f := newFixture(0)
	f.repo.On("QueryExistingNames", mock.Anything, f.owner).Return([]string{}, nil)
	f.repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.InventoryRecord")).Return(nil)
	f.email.On("SendCommitSummary", mock.Anything, "owner@example.com", mock.AnythingOfType("*domain.CommitSummary")).Return(nil)

	sess := f.previewed(t, frames(3))
	done, err := f.svc.Commit(context.Background(), f.owner, sess.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionDone, done.State)
	assert.Equal(t, domain.CommitProgress{Total: 3, Succeeded: 3}, done.Progress)
	assert.Empty(t, done.ReportURL)

	_, err = f.svc.Get(context.Background(), f.owner, sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	f.repo.AssertNumberOfCalls(t, "Insert", 3)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	f.email.AssertExpectations(t)
}

func TestUploadService_Commit_PartialFailureKeepsOthers(t *testing.T) {
	f := newFixture(0)
	f.repo.On("QueryExistingNames", mock.Anything, f.owner).Return([]string{}, nil)
	f.repo.On("Insert", mock.Anything, mock.MatchedBy(func(r *domain.InventoryRecord) bool {
		return r.ExternalID == "FR-7"
	})).Return(errors.New("constraint violation"))
	f.repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.InventoryRecord")).Return(nil)
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "reports" && strings.HasSuffix(in.Key, "/errors.csv") && in.ContentType == "text/csv"
	})).Return(&port.UploadOutput{Location: "s3://reports/x"}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "reports", mock.AnythingOfType("string"), int64(3600)).
		Return("https://reports.example.com/errors.csv", nil)
	f.email.On("SendCommitSummary", mock.Anything, "owner@example.com", mock.MatchedBy(func(s *domain.CommitSummary) bool {
		return s.State == domain.SessionPartiallyFailed && s.Progress.Failed == 1 && len(s.Failures) == 1
	})).Return(nil)

	sess := f.previewed(t, frames(10))
	res, err := f.svc.Commit(context.Background(), f.owner, sess.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionPartiallyFailed, res.State)
	assert.Equal(t, domain.CommitProgress{Total: 10, Succeeded: 9, Failed: 1}, res.Progress)
	require.Len(t, res.PersistenceErrors, 1)
	assert.Equal(t, "FR-7", res.PersistenceErrors[0].Identifier)
	assert.Equal(t, 8, res.PersistenceErrors[0].Row)
	assert.Equal(t, "constraint violation", res.PersistenceErrors[0].Message)
	assert.Equal(t, "https://reports.example.com/errors.csv", res.ReportURL)
	f.repo.AssertNumberOfCalls(t, "Insert", 10)

	stored, err := f.svc.Get(context.Background(), f.owner, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionPartiallyFailed, stored.State)

	var buf bytes.Buffer
	require.NoError(t, f.svc.WriteErrorReport(context.Background(), f.owner, sess.ID, &buf))
	assert.Contains(t, buf.String(), "8,FR-7,,,constraint violation")

	_, err = f.svc.Commit(context.Background(), f.owner, sess.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
	f.storage.AssertExpectations(t)
	f.email.AssertExpectations(t)
}

func TestUploadService_Commit_BlockedByDuplicates(t *testing.T) {
	f := newFixture(0)
	f.repo.On("QueryExistingNames", mock.Anything, f.owner).Return([]string{"FR-2 - Digital"}, nil)

	sess := f.previewed(t, frames(3))
	require.True(t, sess.Blocked)

	_, err := f.svc.Commit(context.Background(), f.owner, sess.ID)
	var dup *domain.DuplicateIdentifiersError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []string{"FR-2"}, dup.Identifiers)
	f.repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)

	stored, err := f.svc.Get(context.Background(), f.owner, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionPreviewed, stored.State)
}

func TestUploadService_Commit_DuplicateAppearedAfterPreview(t *testing.T) {
	f := newFixture(0)
	f.repo.On("QueryExistingNames", mock.Anything, f.owner).Return([]string{}, nil).Once()
	f.repo.On("QueryExistingNames", mock.Anything, f.owner).Return([]string{"FR-1 - Digital"}, nil)

	sess := f.previewed(t, frames(2))
	require.False(t, sess.Blocked)

	_, err := f.svc.Commit(context.Background(), f.owner, sess.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentifier)

	stored, err := f.svc.Get(context.Background(), f.owner, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionPreviewed, stored.State)
	assert.True(t, stored.Blocked)
	assert.Equal(t, []string{"FR-1"}, stored.Duplicates)
}

func TestUploadService_Commit_RequiresPreview(t *testing.T) {
	f := newFixture(0)
	sess := f.create(t, frames(1))

	_, err := f.svc.Commit(context.Background(), f.owner, sess.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
}

func TestUploadService_Commit_ConcurrentRejected(t *testing.T) {
	f := newFixture(0)
	started := make(chan struct{})
	release := make(chan struct{})
	f.repo.On("QueryExistingNames", mock.Anything, f.owner).Return([]string{}, nil)
	f.repo.On("Insert", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(nil).Once()
	f.repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.email.On("SendCommitSummary", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	sess := f.previewed(t, frames(2))

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = f.svc.Commit(context.Background(), f.owner, sess.ID)
	}()
	<-started

	inFlight, err := f.svc.Get(context.Background(), f.owner, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCommitting, inFlight.State)
	assert.Equal(t, 2, inFlight.Progress.Total)

	_, err = f.svc.Commit(context.Background(), f.owner, sess.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
	_, err = f.svc.UpdateMapping(context.Background(), f.owner, sess.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	f.repo.AssertNumberOfCalls(t, "Insert", 2)
}

func TestUploadService_Commit_CancelStopsInserts(t *testing.T) {
	f := newFixture(0)
	f.repo.On("QueryExistingNames", mock.Anything, f.owner).Return([]string{}, nil)

	sess := f.previewed(t, frames(5))
	f.repo.On("Insert", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		_ = f.store.Delete(context.Background(), sess.ID)
	}).Return(nil)

	_, err := f.svc.Commit(context.Background(), f.owner, sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	f.repo.AssertNumberOfCalls(t, "Insert", 1)
	f.email.AssertNotCalled(t, "SendCommitSummary", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Cancel(t *testing.T) {
	f := newFixture(0)
	sess := f.create(t, frames(1))

	require.NoError(t, f.svc.Cancel(context.Background(), f.owner, sess.ID))
	assert.Equal(t, 0, f.store.Len())
	assert.ErrorIs(t, f.svc.Cancel(context.Background(), f.owner, sess.ID), domain.ErrSessionNotFound)
}

func TestUploadService_WriteErrorReport_ValidationErrors(t *testing.T) {
	f := newFixture(0)
	f.repo.On("QueryExistingNames", mock.Anything, f.owner).Return([]string{}, nil)
	body := csvHeader + frameLine("FR-1") + "FR-2,Pantalla,Av. Reforma 2,100,abc,-99.13,Digital,12,6\n"
	sess := f.previewed(t, body)

	var buf bytes.Buffer
	require.NoError(t, f.svc.WriteErrorReport(context.Background(), f.owner, sess.ID, &buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeff"))
	assert.Contains(t, out, "3,FR-2,latitude,abc,")
}
