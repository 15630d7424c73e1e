package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/repository"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
	"github.com/noah-isme/edudocs-api/pkg/storage"
)

type requestStore interface {
	CountByAdmissionNo(ctx context.Context, admissionNo string) (int, error)
	Create(ctx context.Context, rec *models.RequestRecord) error
	GetByID(ctx context.Context, id string) (*models.RequestRecord, error)
	List(ctx context.Context, filter models.RequestFilter) ([]*models.RequestRecord, error)
	Apply(ctx context.Context, w repository.RequestWrite) error
	StorageKeys(ctx context.Context, requestIDs []string) (map[string][]string, error)
}

type urlSigner interface {
	Generate(attachmentID, key string) (string, time.Time, error)
	Parse(token string) (attachmentID, key string, expiresAt time.Time, err error)
}

// FileUpload is a document streamed in by the HTTP layer.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreateRequestInput carries a student's new request.
type CreateRequestInput struct {
	DocumentType string
	Details      string
	File         *FileUpload
}

// AttachmentLink is a signed, expiring download link.
type AttachmentLink struct {
	URL       string    `json:"url"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RequestServiceConfig tunes uploads, id allocation and bulk operations.
type RequestServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
	BatchSize    int
	IDRetries    int
	DownloadPath string
}

// RequestService orchestrates document requests: it loads the freshest record, asks
// the workflow for a decision, persists the owned fields and fans the event out.
type RequestService struct {
	repo      requestStore
	batches   batchApplier
	blobs     storage.BlobStore
	signer    urlSigner
	directory userDirectory
	events    *eventSink
	validator *validator.Validate
	logger    *zap.Logger
	config    RequestServiceConfig
	allowed   map[string]struct{}
	now       Clock
}

// RequestServiceOption configures the service.
type RequestServiceOption func(*RequestService)

// WithRequestClock overrides the clock.
func WithRequestClock(clock Clock) RequestServiceOption {
	return func(s *RequestService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithRequestEvents wires notification, publishing and audit collaborators.
func WithRequestEvents(notifier notificationDispatcher, publisher changePublisher, audit auditWriter) RequestServiceOption {
	return func(s *RequestService) {
		s.events.notifier = notifier
		s.events.publisher = publisher
		s.events.audit = audit
	}
}

// WithRequestMetrics attaches Prometheus instrumentation.
func WithRequestMetrics(metrics *MetricsService) RequestServiceOption {
	return func(s *RequestService) {
		s.events.metrics = metrics
	}
}

// NewRequestService constructs the service.
func NewRequestService(repo requestStore, batches batchApplier, blobs storage.BlobStore, signer urlSigner, directory userDirectory, validate *validator.Validate, logger *zap.Logger, cfg RequestServiceConfig, opts ...RequestServiceOption) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.IDRetries <= 0 {
		cfg.IDRetries = 3
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/api/v1/requests"
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, m := range cfg.AllowedMIMEs {
		allowed[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	svc := &RequestService{
		repo:      repo,
		batches:   batches,
		blobs:     blobs,
		signer:    signer,
		directory: directory,
		events:    &eventSink{directory: directory, logger: logger},
		validator: validate,
		logger:    logger,
		config:    cfg,
		allowed:   allowed,
		now:       systemClock,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Create files a new request for the acting student. The id sequence is recomputed and
// the insert retried when a concurrent request claims the same id.
func (s *RequestService) Create(ctx context.Context, actor models.IdentityFacts, input CreateRequestInput) (*models.RequestRecord, error) {
	if !actor.IsStudent() {
		return nil, appErrors.Forbidden("only students can create document requests")
	}
	if !models.IsDocumentType(input.DocumentType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown document type")
	}

	var attachment *workflow.NewAttachment
	if input.File != nil {
		stored, err := s.storeFile(ctx, input.File)
		if err != nil {
			return nil, err
		}
		attachment = stored
	}

	for attempt := 0; attempt < s.config.IDRetries; attempt++ {
		count, err := s.repo.CountByAdmissionNo(ctx, actor.AdmissionNo)
		if err != nil {
			s.discardFile(ctx, attachment)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate request id")
		}
		now := s.now()
		change, err := workflow.NewRequest(actor, workflow.NewRequestParams{
			ID:           workflow.RequestID(actor.AdmissionNo, count+attempt, now),
			DocumentType: input.DocumentType,
			Details:      input.Details,
			Attachment:   attachment,
		}, now)
		if err != nil {
			s.discardFile(ctx, attachment)
			return nil, err
		}
		if err := s.repo.Create(ctx, change.Record); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				s.logger.Info("request id taken, retrying", zap.String("request_id", change.Record.ID), zap.Int("attempt", attempt+1))
				continue
			}
			s.discardFile(ctx, attachment)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
		}
		s.events.emit(ctx, change.Event)
		s.events.publish(ctx, models.KindRequest, change.Record.ID, "CREATED", now)
		return workflow.FilterRequest(actor, change.Record), nil
	}

	s.discardFile(ctx, attachment)
	return nil, appErrors.Clone(appErrors.ErrConflict, "could not allocate a request id, please retry")
}

// Get returns one request as the actor may see it. Records outside the actor's scope or
// hidden by the actor are reported as not found.
func (s *RequestService) Get(ctx context.Context, actor models.IdentityFacts, id string) (*models.RequestRecord, error) {
	rec, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if rec.HiddenFor(actor.ID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	return workflow.FilterRequest(actor, rec), nil
}

// List returns the actor's request list with the page filters applied.
func (s *RequestService) List(ctx context.Context, actor models.IdentityFacts, query models.RequestListQuery) ([]*models.RequestRecord, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid list filters")
	}
	records, err := s.repo.List(ctx, workflow.RequestFilterFor(actor))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return workflow.ListRequests(actor, records, query), nil
}

// Assign hands a request to a staff member.
func (s *RequestService) Assign(ctx context.Context, actor models.IdentityFacts, id, assigneeID string) (*models.RequestRecord, error) {
	if !actor.IsSuperAdmin() {
		return nil, appErrors.Forbidden("only super admins can assign requests")
	}
	assignee, err := s.directory.ResolveAssignee(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, "ASSIGNED", func(current *models.RequestRecord, now time.Time) (*workflow.RequestChange, error) {
		return workflow.Assign(actor, current, assignee, now)
	})
}

// SetStatus applies a manual status change.
func (s *RequestService) SetStatus(ctx context.Context, actor models.IdentityFacts, id string, status models.RecordStatus) (*models.RequestRecord, error) {
	return s.transition(ctx, actor, id, "STATUS_CHANGED", func(current *models.RequestRecord, now time.Time) (*workflow.RequestChange, error) {
		return workflow.SetStatus(actor, current, status, now)
	})
}

// SetExpectedDate records the expected collection date.
func (s *RequestService) SetExpectedDate(ctx context.Context, actor models.IdentityFacts, id string, date time.Time) (*models.RequestRecord, error) {
	return s.transition(ctx, actor, id, "EXPECTED_DATE_SET", func(current *models.RequestRecord, now time.Time) (*workflow.RequestChange, error) {
		return workflow.SetExpectedDate(actor, current, date, now)
	})
}

// AddComment appends a comment to the conversation.
func (s *RequestService) AddComment(ctx context.Context, actor models.IdentityFacts, id, content string, mode workflow.CommentMode) (*models.RequestRecord, error) {
	commentID := uuid.NewString()
	return s.transition(ctx, actor, id, "COMMENTED", func(current *models.RequestRecord, now time.Time) (*workflow.RequestChange, error) {
		return workflow.AddComment(actor, current, workflow.CommentParams{ID: commentID, Content: content, Mode: mode}, now)
	})
}

// UploadAttachment stores a staff document and attaches it to the request.
func (s *RequestService) UploadAttachment(ctx context.Context, actor models.IdentityFacts, id string, file *FileUpload) (*models.RequestRecord, error) {
	if !actor.Role.IsManager() {
		return nil, appErrors.Forbidden("only staff can upload documents to a request")
	}
	if file == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if _, err := s.load(ctx, actor, id); err != nil {
		return nil, err
	}
	stored, err := s.storeFile(ctx, file)
	if err != nil {
		return nil, err
	}
	rec, err := s.transition(ctx, actor, id, "ATTACHMENT_UPLOADED", func(current *models.RequestRecord, now time.Time) (*workflow.RequestChange, error) {
		return workflow.Upload(actor, current, *stored, now)
	})
	if err != nil {
		s.discardFile(ctx, stored)
		return nil, err
	}
	return rec, nil
}

// ApproveAttachment accepts a pending document and completes the request.
func (s *RequestService) ApproveAttachment(ctx context.Context, actor models.IdentityFacts, id, attachmentID string) (*models.RequestRecord, error) {
	rec, err := s.transition(ctx, actor, id, "ATTACHMENT_APPROVED", func(current *models.RequestRecord, now time.Time) (*workflow.RequestChange, error) {
		return workflow.Approve(actor, current, attachmentID, now)
	})
	if err != nil {
		return nil, err
	}
	s.events.auditLog(ctx, actor, models.AuditActionAttachmentApprove, "request_attachment", attachmentID, auditValues(map[string]string{"request_id": id}))
	return rec, nil
}

// RejectAttachment declines a pending document with a reason.
func (s *RequestService) RejectAttachment(ctx context.Context, actor models.IdentityFacts, id, attachmentID, reason string) (*models.RequestRecord, error) {
	commentID := uuid.NewString()
	rec, err := s.transition(ctx, actor, id, "ATTACHMENT_REJECTED", func(current *models.RequestRecord, now time.Time) (*workflow.RequestChange, error) {
		return workflow.Reject(actor, current, attachmentID, reason, commentID, now)
	})
	if err != nil {
		return nil, err
	}
	s.events.auditLog(ctx, actor, models.AuditActionAttachmentReject, "request_attachment", attachmentID, auditValues(map[string]string{"request_id": id, "reason": reason}))
	return rec, nil
}

// AttachmentLink issues a signed download link for an attachment the actor can see.
func (s *RequestService) AttachmentLink(ctx context.Context, actor models.IdentityFacts, id, attachmentID string) (*AttachmentLink, error) {
	rec, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	att := rec.FindAttachment(attachmentID)
	if att == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
	}
	token, expiresAt, err := s.signer.Generate(att.ID, att.StorageKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	url := fmt.Sprintf("%s/%s/attachments/%s/download?token=%s", strings.TrimRight(s.config.DownloadPath, "/"), rec.ID, att.ID, token)
	return &AttachmentLink{URL: url, Token: token, ExpiresAt: expiresAt}, nil
}

// OpenAttachment resolves a signed token to the stored document. The caller closes the reader.
func (s *RequestService) OpenAttachment(ctx context.Context, id, attachmentID, token string) (*models.Attachment, io.ReadCloser, error) {
	signedID, key, _, err := s.signer.Parse(token)
	if err != nil || signedID != attachmentID {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFoundOr(err, "request")
	}
	att := rec.FindAttachment(attachmentID)
	if att == nil || att.StorageKey != key {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
	}
	reader, err := s.blobs.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "attachment file missing")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open attachment")
	}
	return att, reader, nil
}

// Delete purges the request for a super admin and hides it for anyone else.
func (s *RequestService) Delete(ctx context.Context, actor models.IdentityFacts, id string) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "request")
	}
	op, err := workflow.Delete(actor, rec)
	if err != nil {
		return err
	}
	if err := s.batches.ApplyBatch(ctx, []models.BatchOp{op}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete request")
	}
	if op.Type == models.BatchOpDelete {
		keys := make([]string, 0, len(rec.Attachments))
		for _, att := range rec.Attachments {
			keys = append(keys, att.StorageKey)
		}
		s.removeBlobs(ctx, id, keys)
		s.events.auditLog(ctx, actor, models.AuditActionRequestDelete, "request", id, auditValues(map[string]string{"student_id": rec.StudentID, "document_type": rec.DocumentType}))
	}
	s.events.publish(ctx, models.KindRequest, id, string(op.Type), s.now())
	return nil
}

// ClearDisplayed applies Delete to every request the actor currently sees under query.
func (s *RequestService) ClearDisplayed(ctx context.Context, actor models.IdentityFacts, query models.RequestListQuery) (BulkResult, error) {
	displayed, err := s.List(ctx, actor, query)
	if err != nil {
		return BulkResult{}, err
	}
	ops, err := workflow.ClearDisplayed(actor, displayed)
	if err != nil {
		return BulkResult{}, err
	}
	// Keys must be read before the purge cascades the attachment rows away.
	blobKeys := s.purgedStorageKeys(ctx, ops)
	result, err := commitBulk(ctx, s.events.metrics, "clear_requests", ops, s.config.BatchSize, batchOpID, s.batches.ApplyBatch)
	for _, id := range result.Applied {
		s.removeBlobs(ctx, id, blobKeys[id])
	}
	if len(result.Applied) > 0 {
		if actor.IsSuperAdmin() {
			s.events.auditLog(ctx, actor, models.AuditActionRequestClear, "request", "bulk", auditValues(map[string]string{"count": fmt.Sprint(len(result.Applied))}))
		}
		s.events.publish(ctx, models.KindRequest, "", "CLEARED", s.now())
	}
	return result, err
}

// purgedStorageKeys returns the blob keys of every request ops will hard delete. A
// lookup failure only costs orphaned files, so it is logged and the purge goes ahead.
func (s *RequestService) purgedStorageKeys(ctx context.Context, ops []models.BatchOp) map[string][]string {
	var ids []string
	for _, op := range ops {
		if op.Type == models.BatchOpDelete {
			ids = append(ids, op.RecordID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	keys, err := s.repo.StorageKeys(ctx, ids)
	if err != nil {
		s.logger.Warn("failed to load attachment keys before purge", zap.Int("requests", len(ids)), zap.Error(err))
		return nil
	}
	return keys
}

func (s *RequestService) removeBlobs(ctx context.Context, requestID string, keys []string) {
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to remove attachment file", zap.String("request_id", requestID), zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *RequestService) load(ctx context.Context, actor models.IdentityFacts, id string) (*models.RequestRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "request")
	}
	if !workflow.RequestInScope(actor, rec) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	return rec, nil
}

type requestDecision func(current *models.RequestRecord, now time.Time) (*workflow.RequestChange, error)

// transition runs decide against the freshest record and persists the outcome. When a
// concurrent writer got there first the decision is re-made once against a fresh read.
func (s *RequestService) transition(ctx context.Context, actor models.IdentityFacts, id, action string, decide requestDecision) (*models.RequestRecord, error) {
	for attempt := 0; ; attempt++ {
		current, err := s.load(ctx, actor, id)
		if err != nil {
			return nil, err
		}
		now := s.now()
		change, err := decide(current, now)
		if err != nil {
			return nil, err
		}
		if change.Noop {
			return workflow.FilterRequest(actor, current), nil
		}

		err = s.repo.Apply(ctx, requestWrite(current, change))
		switch {
		case err == nil:
		case isStale(err) && attempt < maxStaleRetries:
			s.logger.Info("request changed concurrently, re-validating", zap.String("request_id", id), zap.String("action", action))
			continue
		case isStale(err):
			return nil, appErrors.Clone(appErrors.ErrConflict, "request was changed by someone else, reload and try again")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save request")
		}

		s.events.emit(ctx, change.Event)
		s.events.publish(ctx, models.KindRequest, id, action, now)
		return workflow.FilterRequest(actor, change.Record), nil
	}
}

// requestWrite turns a workflow change into a repository write. Pure comment appends
// skip the version guard so concurrent comments never conflict.
func requestWrite(current *models.RequestRecord, change *workflow.RequestChange) repository.RequestWrite {
	w := repository.RequestWrite{Record: change.Record, Comment: change.Comment}
	if change.Attachment != nil {
		if current.FindAttachment(change.Attachment.ID) == nil {
			w.NewAttachment = change.Attachment
		} else {
			w.ReviewedAttachment = change.Attachment
		}
	}
	if change.Comment == nil || change.Attachment != nil || change.Record.Status != current.Status {
		w.Version = current.UpdatedAt
	}
	return w
}

func (s *RequestService) storeFile(ctx context.Context, file *FileUpload) (*workflow.NewAttachment, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(file.Name), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file name is required")
	}
	if s.config.MaxFileSize > 0 && file.Size > s.config.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %d byte limit", s.config.MaxFileSize))
	}
	mime := strings.ToLower(strings.TrimSpace(strings.SplitN(file.ContentType, ";", 2)[0]))
	if len(s.allowed) > 0 {
		if _, ok := s.allowed[mime]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %q is not allowed", mime))
		}
	}

	id := uuid.NewString()
	key := path.Join("requests", id, name)
	size, err := s.blobs.Put(ctx, key, file.Reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}
	return &workflow.NewAttachment{ID: id, Name: name, MimeType: mime, Size: size, StorageKey: key}, nil
}

func (s *RequestService) discardFile(ctx context.Context, att *workflow.NewAttachment) {
	if att == nil {
		return
	}
	if err := s.blobs.Delete(ctx, att.StorageKey); err != nil {
		s.logger.Warn("failed to remove orphaned file", zap.String("key", att.StorageKey), zap.Error(err))
	}
}

func batchOpID(op models.BatchOp) string { return op.RecordID }

func auditValues(values map[string]string) []byte {
	payload, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return payload
}
