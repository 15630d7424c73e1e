package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/repository"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
	"github.com/noah-isme/edudocs-api/pkg/storage"
)

var (
	fixedNow     = time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	studentActor = models.IdentityFacts{ID: "s1", Role: models.RoleStudent, Name: "Sara Student", Email: "sara@school.test", AdmissionNo: "A123"}
	otherStudent = models.IdentityFacts{ID: "s2", Role: models.RoleStudent, Name: "Sam Other", Email: "sam@school.test", AdmissionNo: "B777"}
	staffActor   = models.IdentityFacts{ID: "t1", Role: models.RoleStaff, Name: "Tom Teacher"}
	otherStaff   = models.IdentityFacts{ID: "t2", Role: models.RoleStaff, Name: "Tia Teacher"}
	superActor   = models.IdentityFacts{ID: "sa-1", Role: models.RoleSuperAdmin, Name: "Root Admin"}
)

type requestRepoStub struct {
	mu         sync.Mutex
	records    map[string]*models.RequestRecord
	count      int
	duplicates int
	stale      int
	onStale    func(records map[string]*models.RequestRecord)
	writes     []repository.RequestWrite
}

func newRequestRepoStub(records ...*models.RequestRecord) *requestRepoStub {
	stub := &requestRepoStub{records: map[string]*models.RequestRecord{}}
	for _, rec := range records {
		stub.records[rec.ID] = rec
	}
	return stub
}

func (r *requestRepoStub) CountByAdmissionNo(ctx context.Context, admissionNo string) (int, error) {
	return r.count, nil
}

func (r *requestRepoStub) Create(ctx context.Context, rec *models.RequestRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.duplicates > 0 {
		r.duplicates--
		return repository.ErrDuplicateKey
	}
	r.records[rec.ID] = rec.Clone()
	return nil
}

func (r *requestRepoStub) GetByID(ctx context.Context, id string) (*models.RequestRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rec.Clone(), nil
}

func (r *requestRepoStub) List(ctx context.Context, filter models.RequestFilter) ([]*models.RequestRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.RequestRecord, 0, len(r.records))
	for _, rec := range r.records {
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		if filter.AssignedToID != "" && rec.AssigneeID() != filter.AssignedToID {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (r *requestRepoStub) Apply(ctx context.Context, w repository.RequestWrite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stale > 0 {
		r.stale--
		if r.onStale != nil {
			r.onStale(r.records)
		}
		return repository.ErrStaleRecord
	}
	if _, ok := r.records[w.Record.ID]; !ok {
		return sql.ErrNoRows
	}
	r.records[w.Record.ID] = w.Record.Clone()
	r.writes = append(r.writes, w)
	return nil
}

func (r *requestRepoStub) StorageKeys(ctx context.Context, requestIDs []string) (map[string][]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := map[string][]string{}
	for _, id := range requestIDs {
		rec, ok := r.records[id]
		if !ok {
			continue
		}
		for _, att := range rec.Attachments {
			keys[id] = append(keys[id], att.StorageKey)
		}
	}
	return keys, nil
}

type batchRepoStub struct {
	calls  [][]models.BatchOp
	failAt int
	err    error
}

func (b *batchRepoStub) ApplyBatch(ctx context.Context, ops []models.BatchOp) error {
	if b.err != nil && len(b.calls) == b.failAt {
		return b.err
	}
	b.calls = append(b.calls, ops)
	return nil
}

type blobStoreStub struct {
	objects map[string][]byte
	deleted []string
}

func newBlobStoreStub() *blobStoreStub {
	return &blobStoreStub{objects: map[string][]byte{}}
}

func (b *blobStoreStub) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	b.objects[key] = data
	return int64(len(data)), nil
}

func (b *blobStoreStub) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := b.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *blobStoreStub) Delete(ctx context.Context, key string) error {
	delete(b.objects, key)
	b.deleted = append(b.deleted, key)
	return nil
}

type directoryStub struct {
	superAdmins []string
	assignees   map[string]workflow.Assignee
	err         error
}

func (d *directoryStub) SuperAdminIDs(ctx context.Context) ([]string, error) {
	return d.superAdmins, d.err
}

func (d *directoryStub) ResolveAssignee(ctx context.Context, id string) (workflow.Assignee, error) {
	a, ok := d.assignees[id]
	if !ok {
		return workflow.Assignee{}, appErrors.Clone(appErrors.ErrNotFound, "assignee not found")
	}
	return a, nil
}

type notifierStub struct {
	intents []workflow.Intent
}

func (n *notifierStub) Dispatch(ctx context.Context, intents []workflow.Intent) {
	n.intents = append(n.intents, intents...)
}

func (n *notifierStub) recipients() []string {
	out := make([]string, 0, len(n.intents))
	for _, in := range n.intents {
		out = append(out, in.RecipientID)
	}
	return out
}

type publisherStub struct {
	changes []models.RecordChange
	err     error
}

func (p *publisherStub) Publish(ctx context.Context, change models.RecordChange) error {
	p.changes = append(p.changes, change)
	return p.err
}

type requestFixture struct {
	svc       *RequestService
	repo      *requestRepoStub
	batches   *batchRepoStub
	blobs     *blobStoreStub
	notifier  *notifierStub
	publisher *publisherStub
	audit     *auditStub
}

func newRequestFixture(t *testing.T, records ...*models.RequestRecord) *requestFixture {
	t.Helper()
	f := &requestFixture{
		repo:      newRequestRepoStub(records...),
		batches:   &batchRepoStub{},
		blobs:     newBlobStoreStub(),
		notifier:  &notifierStub{},
		publisher: &publisherStub{},
		audit:     &auditStub{},
	}
	directory := &directoryStub{
		superAdmins: []string{superActor.ID},
		assignees: map[string]workflow.Assignee{
			staffActor.ID: {ID: staffActor.ID, Name: staffActor.Name},
			otherStaff.ID: {ID: otherStaff.ID, Name: otherStaff.Name},
		},
	}
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	f.svc = NewRequestService(f.repo, f.batches, f.blobs, signer, directory, nil, zap.NewNop(), RequestServiceConfig{
		MaxFileSize:  1024,
		AllowedMIMEs: []string{"application/pdf", "image/png"},
		BatchSize:    2,
	},
		WithRequestClock(func() time.Time { return fixedNow }),
		WithRequestEvents(f.notifier, f.publisher, f.audit),
		WithRequestMetrics(NewMetricsService()),
	)
	return f
}

func pendingRecord(id string, owner models.IdentityFacts) *models.RequestRecord {
	return &models.RequestRecord{
		ID:           id,
		StudentID:    owner.ID,
		StudentName:  owner.Name,
		AdmissionNo:  owner.AdmissionNo,
		DocumentType: "Reference Letter",
		Status:       models.StatusPending,
		CreatedAt:    fixedNow.Add(-time.Hour),
		UpdatedAt:    fixedNow.Add(-time.Hour),
		Comments:     []models.Comment{},
		Attachments:  []models.Attachment{},
	}
}

func pdfUpload(name string) *FileUpload {
	return &FileUpload{Name: name, ContentType: "application/pdf", Size: 4, Reader: strings.NewReader("%PDF")}
}

func assertAppCode(t *testing.T, err error, want *appErrors.Error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want.Code, appErrors.FromError(err).Code, err.Error())
}

func TestRequestServiceCreateAllocatesID(t *testing.T) {
	f := newRequestFixture(t)

	rec, err := f.svc.Create(context.Background(), studentActor, CreateRequestInput{DocumentType: "Reference Letter", Details: " for uni ", File: pdfUpload("transcript.pdf")})
	require.NoError(t, err)
	assert.Equal(t, "A123_001_0307", rec.ID)
	assert.Equal(t, models.StatusPending, rec.Status)
	require.Len(t, rec.Attachments, 1)
	assert.Equal(t, models.AttachmentPending, rec.Attachments[0].Status)
	assert.Contains(t, f.blobs.objects, rec.Attachments[0].StorageKey)

	assert.Equal(t, []string{superActor.ID}, f.notifier.recipients())
	require.Len(t, f.publisher.changes, 1)
	assert.Equal(t, "CREATED", f.publisher.changes[0].Action)
}

func TestRequestServiceCreateRetriesOnDuplicateID(t *testing.T) {
	f := newRequestFixture(t)
	f.repo.count = 1
	f.repo.duplicates = 1

	rec, err := f.svc.Create(context.Background(), studentActor, CreateRequestInput{DocumentType: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "A123_003_0307", rec.ID)
}

func TestRequestServiceCreateExhaustsRetries(t *testing.T) {
	f := newRequestFixture(t)
	f.repo.duplicates = 3

	_, err := f.svc.Create(context.Background(), studentActor, CreateRequestInput{DocumentType: "Other", File: pdfUpload("a.pdf")})
	assertAppCode(t, err, appErrors.ErrConflict)
	assert.Empty(t, f.blobs.objects)
	assert.Len(t, f.blobs.deleted, 1)
	assert.Empty(t, f.notifier.intents)
}

func TestRequestServiceCreateValidation(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, staffActor, CreateRequestInput{DocumentType: "Other"})
	assertAppCode(t, err, appErrors.ErrForbidden)

	_, err = f.svc.Create(ctx, studentActor, CreateRequestInput{DocumentType: "Pizza"})
	assertAppCode(t, err, appErrors.ErrValidation)

	_, err = f.svc.Create(ctx, studentActor, CreateRequestInput{DocumentType: "Other", File: &FileUpload{Name: "x.exe", ContentType: "application/x-msdownload", Size: 3, Reader: strings.NewReader("MZ!")}})
	assertAppCode(t, err, appErrors.ErrValidation)

	_, err = f.svc.Create(ctx, studentActor, CreateRequestInput{DocumentType: "Other", File: &FileUpload{Name: "big.pdf", ContentType: "application/pdf", Size: 4096, Reader: strings.NewReader("")}})
	assertAppCode(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.blobs.objects)
}

func TestRequestServiceGetScopesAndFilters(t *testing.T) {
	rec := pendingRecord("A123_001_0307", studentActor)
	assignee, name := staffActor.ID, staffActor.Name
	rec.AssignedToID, rec.AssignedToName = &assignee, &name
	rec.Status = models.StatusAssigned
	rec.Comments = []models.Comment{{ID: "c1", AuthorID: staffActor.ID, Content: "note", IsInternal: true}}
	hidden := pendingRecord("A123_002_0307", studentActor)
	hidden.HiddenFromUsers = []string{studentActor.ID}
	f := newRequestFixture(t, rec, hidden)
	ctx := context.Background()

	got, err := f.svc.Get(ctx, studentActor, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)

	got, err = f.svc.Get(ctx, staffActor, rec.ID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, 1)

	_, err = f.svc.Get(ctx, otherStaff, rec.ID)
	assertAppCode(t, err, appErrors.ErrNotFound)
	_, err = f.svc.Get(ctx, otherStudent, rec.ID)
	assertAppCode(t, err, appErrors.ErrNotFound)
	_, err = f.svc.Get(ctx, studentActor, hidden.ID)
	assertAppCode(t, err, appErrors.ErrNotFound)
	_, err = f.svc.Get(ctx, superActor, "missing")
	assertAppCode(t, err, appErrors.ErrNotFound)

	list, err := f.svc.List(ctx, studentActor, models.RequestListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)

	_, err = f.svc.List(ctx, studentActor, models.RequestListQuery{Tab: "archived"})
	assertAppCode(t, err, appErrors.ErrValidation)
}

func TestRequestServiceReassignNotifiesOnlyNewAssignee(t *testing.T) {
	f := newRequestFixture(t, pendingRecord("A123_001_0307", studentActor))
	ctx := context.Background()

	rec, err := f.svc.Assign(ctx, superActor, "A123_001_0307", staffActor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, rec.Status)
	assert.Equal(t, []string{staffActor.ID}, f.notifier.recipients())

	_, err = f.svc.SetStatus(ctx, staffActor, rec.ID, models.StatusInProgress)
	require.NoError(t, err)

	f.notifier.intents = nil
	rec, err = f.svc.Assign(ctx, superActor, rec.ID, otherStaff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, rec.Status)
	assert.Equal(t, otherStaff.ID, *rec.AssignedToID)
	assert.Equal(t, []string{otherStaff.ID}, f.notifier.recipients())

	_, err = f.svc.Assign(ctx, staffActor, rec.ID, staffActor.ID)
	assertAppCode(t, err, appErrors.ErrForbidden)
	_, err = f.svc.Assign(ctx, superActor, rec.ID, "ghost")
	assertAppCode(t, err, appErrors.ErrNotFound)
}

func TestRequestServiceRevalidatesAfterLosingRace(t *testing.T) {
	rec := pendingRecord("A123_001_0307", studentActor)
	assignee := staffActor.ID
	rec.AssignedToID = &assignee
	rec.Status = models.StatusAssigned
	f := newRequestFixture(t, rec)
	f.repo.stale = 1
	f.repo.onStale = func(records map[string]*models.RequestRecord) {
		records[rec.ID].Status = models.StatusCompleted
		records[rec.ID].UpdatedAt = fixedNow
	}

	_, err := f.svc.SetStatus(context.Background(), staffActor, rec.ID, models.StatusInProgress)
	assertAppCode(t, err, appErrors.ErrInvalidTransition)
	assert.Empty(t, f.repo.writes)
	assert.Empty(t, f.notifier.intents)
}

func TestRequestServiceGivesUpAfterRepeatedRaces(t *testing.T) {
	f := newRequestFixture(t, pendingRecord("A123_001_0307", studentActor))
	f.repo.stale = 2

	_, err := f.svc.Assign(context.Background(), superActor, "A123_001_0307", staffActor.ID)
	assertAppCode(t, err, appErrors.ErrConflict)
}

func TestRequestServiceCommentAppendsWithoutVersionGuard(t *testing.T) {
	f := newRequestFixture(t, pendingRecord("A123_001_0307", studentActor))
	ctx := context.Background()

	rec, err := f.svc.AddComment(ctx, studentActor, "A123_001_0307", "any news?", "")
	require.NoError(t, err)
	require.Len(t, rec.Comments, 1)
	require.Len(t, f.repo.writes, 1)
	assert.True(t, f.repo.writes[0].Version.IsZero())
	assert.NotNil(t, f.repo.writes[0].Comment)

	_, err = f.svc.SetStatus(ctx, superActor, "A123_001_0307", models.StatusActionNeeded)
	require.NoError(t, err)
	require.Len(t, f.repo.writes, 2)
	assert.False(t, f.repo.writes[1].Version.IsZero())

	_, err = f.svc.AddComment(ctx, otherStudent, "A123_001_0307", "hi", "")
	assertAppCode(t, err, appErrors.ErrNotFound)
}

func TestRequestServiceAttachmentReviewAndDownload(t *testing.T) {
	rec := pendingRecord("A123_001_0307", studentActor)
	assignee := staffActor.ID
	rec.AssignedToID = &assignee
	rec.Status = models.StatusInProgress
	f := newRequestFixture(t, rec)
	ctx := context.Background()

	uploaded, err := f.svc.UploadAttachment(ctx, staffActor, rec.ID, pdfUpload("letter.pdf"))
	require.NoError(t, err)
	require.Len(t, uploaded.Attachments, 1)
	att := uploaded.Attachments[0]
	assert.Equal(t, models.AttachmentPending, att.Status)
	require.Len(t, f.repo.writes, 1)
	assert.NotNil(t, f.repo.writes[0].NewAttachment)

	_, err = f.svc.AttachmentLink(ctx, studentActor, rec.ID, att.ID)
	assertAppCode(t, err, appErrors.ErrNotFound)

	approved, err := f.svc.ApproveAttachment(ctx, superActor, rec.ID, att.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, approved.Status)
	require.Len(t, f.repo.writes, 2)
	assert.NotNil(t, f.repo.writes[1].ReviewedAttachment)
	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, models.AuditActionAttachmentApprove, f.audit.logs[0].Action)

	link, err := f.svc.AttachmentLink(ctx, studentActor, rec.ID, att.ID)
	require.NoError(t, err)
	parsed, err := url.Parse(link.URL)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/requests/A123_001_0307/attachments/"+att.ID+"/download", parsed.Path)
	assert.Equal(t, link.Token, parsed.Query().Get("token"))

	meta, reader, err := f.svc.OpenAttachment(ctx, rec.ID, att.ID, link.Token)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
	assert.Equal(t, "letter.pdf", meta.Name)

	_, _, err = f.svc.OpenAttachment(ctx, rec.ID, "other", link.Token)
	assertAppCode(t, err, appErrors.ErrUnauthorized)
	_, _, err = f.svc.OpenAttachment(ctx, rec.ID, att.ID, link.Token+"0")
	assertAppCode(t, err, appErrors.ErrUnauthorized)
}

func TestRequestServiceUploadFailureDiscardsFile(t *testing.T) {
	rec := pendingRecord("A123_001_0307", studentActor)
	rec.Status = models.StatusCompleted
	f := newRequestFixture(t, rec)

	_, err := f.svc.UploadAttachment(context.Background(), superActor, rec.ID, pdfUpload("again.pdf"))
	require.NoError(t, err)

	f.repo.stale = 2
	_, err = f.svc.UploadAttachment(context.Background(), superActor, rec.ID, pdfUpload("third.pdf"))
	assertAppCode(t, err, appErrors.ErrConflict)
	assert.Len(t, f.blobs.objects, 1)
	assert.Len(t, f.blobs.deleted, 1)

	_, err = f.svc.UploadAttachment(context.Background(), studentActor, rec.ID, pdfUpload("mine.pdf"))
	assertAppCode(t, err, appErrors.ErrForbidden)
}

func TestRequestServiceRejectAddsSystemComment(t *testing.T) {
	rec := pendingRecord("A123_001_0307", studentActor)
	rec.Attachments = []models.Attachment{{ID: "att-1", RequestID: rec.ID, Name: "a.pdf", StorageKey: "requests/att-1/a.pdf", UploadedByID: staffActor.ID, Status: models.AttachmentPending}}
	f := newRequestFixture(t, rec)

	got, err := f.svc.RejectAttachment(context.Background(), superActor, rec.ID, "att-1", "blurry scan")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActionNeeded, got.Status)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "Document Rejected: blurry scan", got.Comments[0].Content)
	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, models.AuditActionAttachmentReject, f.audit.logs[0].Action)

	again, err := f.svc.RejectAttachment(context.Background(), superActor, rec.ID, "att-1", "blurry scan")
	require.NoError(t, err)
	assert.Len(t, again.Comments, 1)
	assert.Len(t, f.repo.writes, 1)
}

func TestRequestServiceDelete(t *testing.T) {
	rec := pendingRecord("A123_001_0307", studentActor)
	rec.Attachments = []models.Attachment{{ID: "att-1", StorageKey: "requests/att-1/a.pdf", Status: models.AttachmentApproved}}
	f := newRequestFixture(t, rec)
	f.blobs.objects["requests/att-1/a.pdf"] = []byte("x")
	ctx := context.Background()

	require.NoError(t, f.svc.Delete(ctx, studentActor, rec.ID))
	require.Len(t, f.batches.calls, 1)
	assert.Equal(t, models.BatchOp{Kind: models.KindRequest, Type: models.BatchOpHide, RecordID: rec.ID, UserID: studentActor.ID}, f.batches.calls[0][0])
	assert.Contains(t, f.blobs.objects, "requests/att-1/a.pdf")

	require.NoError(t, f.svc.Delete(ctx, superActor, rec.ID))
	require.Len(t, f.batches.calls, 2)
	assert.Equal(t, models.BatchOpDelete, f.batches.calls[1][0].Type)
	assert.NotContains(t, f.blobs.objects, "requests/att-1/a.pdf")
	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, models.AuditActionRequestDelete, f.audit.logs[0].Action)

	err := f.svc.Delete(ctx, otherStudent, rec.ID)
	assertAppCode(t, err, appErrors.ErrNotFound)
}

func TestRequestServiceClearDisplayedReportsPartialFailure(t *testing.T) {
	var records []*models.RequestRecord
	for _, id := range []string{"A123_001_0301", "A123_002_0302", "A123_003_0303", "A123_004_0304", "A123_005_0305"} {
		records = append(records, pendingRecord(id, studentActor))
	}
	f := newRequestFixture(t, records...)
	f.batches.failAt = 1
	f.batches.err = errors.New("connection reset")

	result, err := f.svc.ClearDisplayed(context.Background(), superActor, models.RequestListQuery{})
	assertAppCode(t, err, appErrors.ErrPartialBatchFailure)
	assert.Len(t, result.Applied, 2)

	details, ok := appErrors.FromError(err).Details.(map[string][]string)
	require.True(t, ok)
	assert.Len(t, details["applied"], 2)
	assert.Len(t, details["remaining"], 3)
	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, models.AuditActionRequestClear, f.audit.logs[0].Action)
}

func TestRequestServiceClearDisplayedRemovesPurgedFiles(t *testing.T) {
	var records []*models.RequestRecord
	for i, id := range []string{"A123_001_0301", "A123_002_0302", "A123_003_0303"} {
		rec := pendingRecord(id, studentActor)
		key := "requests/" + id + "/doc.pdf"
		rec.Attachments = []models.Attachment{{ID: "att-" + string(rune('a'+i)), StorageKey: key, Status: models.AttachmentApproved}}
		records = append(records, rec)
	}
	f := newRequestFixture(t, records...)
	for _, rec := range records {
		f.blobs.objects[rec.Attachments[0].StorageKey] = []byte("x")
	}
	ctx := context.Background()

	_, err := f.svc.ClearDisplayed(ctx, studentActor, models.RequestListQuery{})
	require.NoError(t, err)
	assert.Len(t, f.blobs.objects, 3)

	f.svc.config.BatchSize = 1
	f.batches.failAt = len(f.batches.calls) + 2
	f.batches.err = errors.New("connection reset")

	result, err := f.svc.ClearDisplayed(ctx, superActor, models.RequestListQuery{})
	assertAppCode(t, err, appErrors.ErrPartialBatchFailure)
	require.Len(t, result.Applied, 2)
	assert.Len(t, f.blobs.objects, 1)
	for _, id := range result.Applied {
		assert.NotContains(t, f.blobs.objects, "requests/"+id+"/doc.pdf")
	}
}

func TestRequestServiceSetExpectedDate(t *testing.T) {
	f := newRequestFixture(t, pendingRecord("A123_001_0307", studentActor))

	rec, err := f.svc.SetExpectedDate(context.Background(), superActor, "A123_001_0307", time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, rec.ExpectedCompletionDate)
	assert.Equal(t, []string{studentActor.ID}, f.notifier.recipients())
	assert.Contains(t, f.notifier.intents[0].Message, "20 Mar 2026")
}
