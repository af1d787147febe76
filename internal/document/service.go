package document

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/common/patch"
	documentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/document"
	"github.com/frahmantamala/asset-management/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*documentDatamodel.DocumentView, error)
	GetByID(ctx context.Context, id string) (*documentDatamodel.DocumentView, error)
	Create(ctx context.Context, d *documentDatamodel.Document) error
	Update(ctx context.Context, d *documentDatamodel.Document) error
	Delete(ctx context.Context, id string) error
	MaxVersion(ctx context.Context, docType, equipmentID string) (int, error)
}

type Service struct {
	repo      RepositoryAPI
	store     FileStore
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, store FileStore, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Document, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.wrap(err, "failed to list documents")
	}
	return FromViews(rows), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Document, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get document", "document_id", id)
	}
	return FromView(row), nil
}

// Create registers a document. An uploaded file takes precedence over a
// URL in the payload. A document of a (type, equipment) pair that already
// exists gets the next version number.
func (s *Service) Create(ctx context.Context, in DocumentInput, file *Upload) (*Document, error) {
	in.Normalize()
	if err := in.Validate(file != nil); err != nil {
		return nil, err
	}
	if in.UploadedBy == "" {
		in.UploadedBy = errors.ActorFromContext(ctx)
	}

	version := 1
	if in.EquipmentID != nil {
		current, err := s.repo.MaxVersion(ctx, in.Type, *in.EquipmentID)
		if err != nil {
			return nil, s.wrap(err, "failed to read document version", "equipment_id", *in.EquipmentID)
		}
		version = current + 1
	}

	if file != nil {
		url, err := s.save(ctx, *file)
		if err != nil {
			return nil, err
		}
		in.URL = url
	}

	now := time.Now()
	d := &Document{Version: version, UploadedAt: now, CreatedAt: now}
	d.Apply(in)

	row := ToDataModel(d)
	if err := s.repo.Create(ctx, row); err != nil {
		s.discard(ctx, file, in.URL)
		return nil, s.wrap(err, "failed to create document", "tipo", in.Type)
	}

	s.logger.Info("document created", "document_id", row.ID, "tipo", row.DocType, "version", row.Version)
	s.publish(ctx, row.ID, events.ActionCreated)
	return s.Get(ctx, row.ID)
}

// Update applies a merge patch to the metadata. A new file, or a new URL,
// bumps the version.
func (s *Service) Update(ctx context.Context, id string, body []byte, file *Upload) (*Document, error) {
	view, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get document", "document_id", id)
	}
	current := FromView(view)

	in := current.Input()
	if len(body) > 0 {
		in, err = patch.Merge(in, body)
		if err != nil {
			return nil, err
		}
	}
	in.Normalize()

	previousURL := current.URL
	if file != nil {
		url, err := s.save(ctx, *file)
		if err != nil {
			return nil, err
		}
		in.URL = url
	}
	if appErr := in.Validate(false); appErr != nil {
		s.discard(ctx, file, in.URL)
		return nil, appErr
	}

	current.Apply(in)
	if current.URL != previousURL {
		current.Version++
		current.UploadedAt = time.Now()
	}

	if err := s.repo.Update(ctx, ToDataModel(current)); err != nil {
		s.discard(ctx, file, in.URL)
		return nil, s.wrap(err, "failed to update document", "document_id", id)
	}
	if file != nil {
		s.discard(ctx, file, previousURL)
	}

	s.publish(ctx, id, events.ActionUpdated)
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	view, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.wrap(err, "failed to get document", "document_id", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(err, "failed to delete document", "document_id", id)
	}
	if s.store != nil {
		if err := s.store.Remove(ctx, view.URL); err != nil {
			s.logger.Warn("failed to remove document file", "document_id", id, "error", err)
		}
	}

	s.logger.Info("document deleted", "document_id", id)
	s.publish(ctx, id, events.ActionDeleted)
	return nil
}

func (s *Service) save(ctx context.Context, file Upload) (string, error) {
	if s.store == nil {
		return "", errors.NewValidationError("file uploads are not enabled", errors.ErrCodeInvalidUpload)
	}
	url, err := s.store.Save(ctx, file)
	if err != nil {
		return "", s.wrap(err, "failed to store upload", "filename", file.Filename)
	}
	return url, nil
}

// discard removes a stored file that no record points to anymore.
func (s *Service) discard(ctx context.Context, file *Upload, url string) {
	if file == nil || s.store == nil || url == "" {
		return
	}
	if err := s.store.Remove(ctx, url); err != nil {
		s.logger.Warn("failed to remove orphaned upload", "url", url, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEntityChangedEvent(events.EventTypeDocumentChanged, id, action)); err != nil {
		s.logger.Warn("failed to publish document event", "document_id", id, "error", err)
	}
}

func (s *Service) wrap(err error, message string, attrs ...any) error {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error(message, append([]any{"error", err}, attrs...)...)
	return errors.NewInternalError(message, err)
}
