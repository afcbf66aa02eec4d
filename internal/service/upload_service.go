package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"adframes/internal/csvexport"
	"adframes/internal/domain"
	"adframes/internal/ingest"
	"adframes/internal/ingest/decode"
	"adframes/internal/port"
)

// CreateUploadInput is the DTO for starting an upload session.
type CreateUploadInput struct {
	OwnerID    uuid.UUID
	OwnerEmail string
	FileName   string
	Size       int64
	File       io.Reader
	Encoding   string
}

// UploadSettings holds the limits and destinations the upload service uses.
type UploadSettings struct {
	MaxFileSize      int64
	DefaultEncodings []string
	ReportBucket     string
	PresignExpiry    int64
}

// UploadService defines the bulk inventory upload contract.
type UploadService interface {
	Create(ctx context.Context, input CreateUploadInput) (*domain.UploadSession, error)
	Get(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.UploadSession, error)
	UpdateMapping(ctx context.Context, ownerID, sessionID uuid.UUID, overrides map[string]string) (*domain.UploadSession, error)
	Preview(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.UploadSession, error)
	Commit(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.UploadSession, error)
	Cancel(ctx context.Context, ownerID, sessionID uuid.UUID) error
	WriteErrorReport(ctx context.Context, ownerID, sessionID uuid.UUID, w io.Writer) error
}

type uploadService struct {
	pipeline *ingest.Pipeline
	store    port.SessionStore
	repo     port.InventoryRepository
	storage  port.ObjectStorage
	email    port.EmailSender
	settings UploadSettings
}

// NewUploadService creates a new UploadService implementation.
func NewUploadService(
	pipeline *ingest.Pipeline,
	store port.SessionStore,
	repo port.InventoryRepository,
	storage port.ObjectStorage,
	email port.EmailSender,
	settings UploadSettings,
) UploadService {
	return &uploadService{
		pipeline: pipeline,
		store:    store,
		repo:     repo,
		storage:  storage,
		email:    email,
		settings: settings,
	}
}

func (s *uploadService) Create(ctx context.Context, input CreateUploadInput) (*domain.UploadSession, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if s.settings.MaxFileSize > 0 && input.Size > s.settings.MaxFileSize {
		return nil, domain.ErrFileTooLarge
	}

	reader := input.File
	if s.settings.MaxFileSize > 0 {
		reader = io.LimitReader(input.File, s.settings.MaxFileSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if s.settings.MaxFileSize > 0 && int64(len(data)) > s.settings.MaxFileSize {
		return nil, domain.ErrFileTooLarge
	}

	res, err := decode.Resolve(data, input.FileName, decode.Candidates(input.Encoding, s.settings.DefaultEncodings))
	if err != nil {
		log.Printf("uploadService.Create: %s unreadable for owner %s: %v", input.FileName, input.OwnerID, err)
		return nil, err
	}

	sess := s.pipeline.Start(domain.UploadSession{
		ID:         uuid.New(),
		OwnerID:    input.OwnerID,
		OwnerEmail: input.OwnerEmail,
		FileName:   input.FileName,
	}, res)
	if err := s.store.Create(ctx, &sess); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	log.Printf("uploadService.Create: session %s for owner %s: %s, %d rows, encoding %s, state %s",
		sess.ID, sess.OwnerID, sess.FileName, len(sess.Rows), sess.Encoding, sess.State)
	return &sess, nil
}

// owned loads a session, hiding sessions of other owners.
func (s *uploadService) owned(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.UploadSession, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.OwnerID != ownerID {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *uploadService) Get(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.UploadSession, error) {
	return s.owned(ctx, ownerID, sessionID)
}

func (s *uploadService) UpdateMapping(ctx context.Context, ownerID, sessionID uuid.UUID, overrides map[string]string) (*domain.UploadSession, error) {
	sess, err := s.owned(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := s.pipeline.Remap(*sess, overrides)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	return &next, nil
}

func (s *uploadService) Preview(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.UploadSession, error) {
	sess, err := s.owned(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := s.pipeline.Preview(ctx, *sess)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	log.Printf("uploadService.Preview: session %s: %d groups, %d valid, %d errors, %d duplicates",
		next.ID, next.GroupCount, next.ValidCount, len(next.ValidationErrors), len(next.Duplicates))
	return &next, nil
}

// Commit inserts every valid record one at a time. A failed insert is
// recorded and the commit moves on; nothing already inserted is rolled back.
func (s *uploadService) Commit(ctx context.Context, ownerID, sessionID uuid.UUID) (*domain.UploadSession, error) {
	sess, err := s.owned(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.State.Terminal() {
		return nil, fmt.Errorf("%w: upload already committed", domain.ErrInvalidSessionState)
	}
	if sess.State == domain.SessionPreviewed && sess.Blocked {
		return nil, &domain.DuplicateIdentifiersError{Identifiers: sess.Duplicates}
	}
	sess, err = s.store.Transition(ctx, sessionID, []domain.SessionState{domain.SessionPreviewed}, domain.SessionCommitting)
	if err != nil {
		return nil, err
	}

	recs, ev, err := s.pipeline.Committable(ctx, sess)
	if err != nil {
		sess.State = domain.SessionPreviewed
		if ev != nil {
			sess.Duplicates = ev.Duplicates
			sess.Blocked = len(ev.Duplicates) > 0
		}
		if uerr := s.store.Update(ctx, sess); uerr != nil {
			log.Printf("uploadService.Commit: restoring session %s: %v", sess.ID, uerr)
		}
		return nil, err
	}

	sess.ValidationErrors = ev.Errors
	sess.Progress = domain.CommitProgress{Total: len(recs)}
	sess.PersistenceErrors = nil
	if err := s.store.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	for i := range recs {
		rec := &recs[i]
		if err := s.repo.Insert(ctx, rec); err != nil {
			log.Printf("uploadService.Commit: session %s: insert %s (row %d) failed: %v", sess.ID, rec.ExternalID, rec.SourceRow, err)
			sess.PersistenceErrors = append(sess.PersistenceErrors, domain.PersistenceError{
				Row:        rec.SourceRow,
				Identifier: rec.ExternalID,
				Message:    err.Error(),
			})
			sess.Progress.Failed++
		} else {
			sess.Progress.Succeeded++
		}
		if err := s.store.Update(ctx, sess); err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				log.Printf("uploadService.Commit: session %s cancelled after %d of %d inserts", sess.ID, i+1, len(recs))
			}
			return nil, err
		}
	}

	sess.State = domain.SessionDone
	if sess.Progress.Failed > 0 {
		sess.State = domain.SessionPartiallyFailed
		sess.ReportURL = s.publishReport(ctx, sess)
	}

	if sess.State == domain.SessionDone {
		if err := s.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			log.Printf("uploadService.Commit: discarding session %s: %v", sess.ID, err)
		}
	} else if err := s.store.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	log.Printf("uploadService.Commit: session %s %s: %d saved, %d failed",
		sess.ID, sess.State, sess.Progress.Succeeded, sess.Progress.Failed)
	s.notify(ctx, sess)
	return sess, nil
}

func (s *uploadService) publishReport(ctx context.Context, sess *domain.UploadSession) string {
	var buf bytes.Buffer
	if err := csvexport.WriteReport(&buf, sess.ValidationErrors, sess.PersistenceErrors); err != nil {
		log.Printf("uploadService.publishReport: rendering report for %s: %v", sess.ID, err)
		return ""
	}
	key := fmt.Sprintf("owners/%s/uploads/%s/errors.csv", sess.OwnerID, sess.ID)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.settings.ReportBucket,
		Key:         key,
		Body:        &buf,
		ContentType: "text/csv",
		Size:        int64(buf.Len()),
	})
	if err != nil {
		log.Printf("uploadService.publishReport: upload failed for %s: %v", sess.ID, err)
		return ""
	}
	url, err := s.storage.GetPresignedURL(ctx, s.settings.ReportBucket, key, s.settings.PresignExpiry)
	if err != nil {
		log.Printf("uploadService.publishReport: presign failed for %s: %v", sess.ID, err)
		return ""
	}
	return url
}

func (s *uploadService) notify(ctx context.Context, sess *domain.UploadSession) {
	if sess.OwnerEmail == "" {
		return
	}
	summary := &domain.CommitSummary{
		SessionID: sess.ID,
		FileName:  sess.FileName,
		State:     sess.State,
		Progress:  sess.Progress,
		Failures:  sess.PersistenceErrors,
		ReportURL: sess.ReportURL,
	}
	if err := s.email.SendCommitSummary(ctx, sess.OwnerEmail, summary); err != nil {
		log.Printf("uploadService.notify: session %s: %v", sess.ID, err)
	}
}

func (s *uploadService) Cancel(ctx context.Context, ownerID, sessionID uuid.UUID) error {
	if _, err := s.owned(ctx, ownerID, sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	log.Printf("uploadService.Cancel: session %s discarded", sessionID)
	return nil
}

func (s *uploadService) WriteErrorReport(ctx context.Context, ownerID, sessionID uuid.UUID, w io.Writer) error {
	sess, err := s.owned(ctx, ownerID, sessionID)
	if err != nil {
		return err
	}
	return csvexport.WriteReport(w, sess.ValidationErrors, sess.PersistenceErrors)
}
