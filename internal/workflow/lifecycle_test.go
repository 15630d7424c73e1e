package workflow

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudocs-api/internal/models"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

var (
	now         = time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)
	superAdmin  = models.IdentityFacts{ID: "sa-1", Role: models.RoleSuperAdmin, Name: "Sam Admin"}
	superAdmin2 = models.IdentityFacts{ID: "sa-2", Role: models.RoleSuperAdmin, Name: "Sue Admin"}
	admin       = models.IdentityFacts{ID: "ad-1", Role: models.RoleAdmin, Name: "Ada Office"}
	staffT1     = models.IdentityFacts{ID: "t1", Role: models.RoleStaff, Name: "Tom One"}
	staffT2     = models.IdentityFacts{ID: "t2", Role: models.RoleStaff, Name: "Tia Two"}
	studentS1   = models.IdentityFacts{ID: "s1", Role: models.RoleStudent, Name: "Sara Student", Email: "sara@school.test", AdmissionNo: "A123"}
	studentS2   = models.IdentityFacts{ID: "s2", Role: models.RoleStudent, Name: "Sid Student", AdmissionNo: "B777"}
	superIDs    = []string{superAdmin.ID, superAdmin2.ID}
)

func assertCode(t *testing.T, err error, target *appErrors.Error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, target), "expected %s, got %v", target.Code, err)
}

func pendingRequest() *models.RequestRecord {
	change, err := NewRequest(studentS1, NewRequestParams{
		ID:           RequestID(studentS1.AdmissionNo, 0, now),
		DocumentType: "Reference Letter",
		Details:      "For university application",
	}, now)
	if err != nil {
		panic(err)
	}
	return change.Record
}

func assignedTo(t *testing.T, rec *models.RequestRecord, staff models.IdentityFacts) *models.RequestRecord {
	t.Helper()
	change, err := Assign(superAdmin, rec, Assignee{ID: staff.ID, Name: staff.Name}, now)
	require.NoError(t, err)
	return change.Record
}

func TestRequestIDFormat(t *testing.T) {
	assert.Equal(t, "A123_001_0307", RequestID("A123", 0, now))
	assert.Equal(t, "A123_012_1225", RequestID(" A123 ", 11, time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "A123_001_0101", RequestID("A123", -3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestStudentCreatesFirstRequest(t *testing.T) {
	change, err := NewRequest(studentS1, NewRequestParams{
		ID:           RequestID("A123", 0, now),
		DocumentType: "Predicted Grades",
	}, now)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^A123_001_\d{4}$`), change.Record.ID)
	assert.Equal(t, models.StatusPending, change.Record.Status)
	assert.Equal(t, studentS1.ID, change.Record.StudentID)

	intents := Route(*change.Event, superIDs)
	require.Len(t, intents, 2)
	for _, in := range intents {
		assert.Contains(t, in.Message, "New request")
		assert.Equal(t, "/requests/A123_001_0307", in.Link)
	}
	assert.ElementsMatch(t, superIDs, []string{intents[0].RecipientID, intents[1].RecipientID})
}

func TestNewRequestValidation(t *testing.T) {
	_, err := NewRequest(staffT1, NewRequestParams{ID: "x", DocumentType: "Other"}, now)
	assertCode(t, err, appErrors.ErrForbidden)

	_, err = NewRequest(studentS1, NewRequestParams{ID: "x", DocumentType: "Passport"}, now)
	assertCode(t, err, appErrors.ErrValidation)

	noAdm := studentS1
	noAdm.AdmissionNo = ""
	_, err = NewRequest(noAdm, NewRequestParams{ID: "x", DocumentType: "Other"}, now)
	assertCode(t, err, appErrors.ErrValidation)
}

func TestNewRequestWithReferenceFileIsPending(t *testing.T) {
	change, err := NewRequest(studentS1, NewRequestParams{
		ID:           "A123_001_0307",
		DocumentType: "Other",
		Attachment:   &NewAttachment{ID: "att-1", Name: "form.pdf", StorageKey: "requests/A123_001_0307/att-1.pdf", MimeType: "application/pdf", Size: 10},
	}, now)
	require.NoError(t, err)
	require.NotNil(t, change.Attachment)
	assert.Equal(t, models.AttachmentPending, change.Attachment.Status)
	assert.Equal(t, studentS1.ID, change.Attachment.UploadedByID)
	assert.Equal(t, models.StatusPending, change.Record.Status)
}

func TestAssignAndReassign(t *testing.T) {
	rec := pendingRequest()

	change, err := Assign(superAdmin, rec, Assignee{ID: staffT1.ID, Name: staffT1.Name}, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, change.Record.Status)
	assert.Equal(t, staffT1.ID, change.Record.AssigneeID())
	intents := Route(*change.Event, superIDs)
	require.Len(t, intents, 1)
	assert.Equal(t, staffT1.ID, intents[0].RecipientID)
	assert.Equal(t, "You have been assigned request #A123_001_0307", intents[0].Message)

	progressed, err := SetStatus(staffT1, change.Record, models.StatusInProgress, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, progressed.Record.Status)

	reassigned, err := Assign(superAdmin, progressed.Record, Assignee{ID: staffT2.ID, Name: staffT2.Name}, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, reassigned.Record.Status)
	assert.Equal(t, staffT2.ID, reassigned.Record.AssigneeID())
	intents = Route(*reassigned.Event, superIDs)
	require.Len(t, intents, 1)
	assert.Equal(t, staffT2.ID, intents[0].RecipientID)
}

func TestAssignRules(t *testing.T) {
	rec := pendingRequest()

	for _, actor := range []models.IdentityFacts{admin, staffT1, studentS1} {
		_, err := Assign(actor, rec, Assignee{ID: staffT1.ID}, now)
		assertCode(t, err, appErrors.ErrForbidden)
	}

	_, err := Assign(superAdmin, rec, Assignee{}, now)
	assertCode(t, err, appErrors.ErrValidation)

	assigned := assignedTo(t, rec, staffT1)
	again, err := Assign(superAdmin, assigned, Assignee{ID: staffT1.ID, Name: staffT1.Name}, now)
	require.NoError(t, err)
	assert.True(t, again.Noop)
	assert.Nil(t, again.Event)

	completed := assigned.Clone()
	completed.Status = models.StatusCompleted
	reopened, err := Assign(superAdmin, completed, Assignee{ID: staffT2.ID, Name: staffT2.Name}, now)
	require.NoError(t, err)
	assert.False(t, reopened.Noop)
	assert.Equal(t, models.StatusAssigned, reopened.Record.Status)
	assert.Equal(t, staffT2.ID, reopened.Record.AssigneeID())
	intents := Route(*reopened.Event, superIDs)
	require.Len(t, intents, 1)
	assert.Equal(t, staffT2.ID, intents[0].RecipientID)
}

func TestMissingRecordErrorsAreIndependentCopies(t *testing.T) {
	_, err := Assign(superAdmin, nil, Assignee{ID: staffT1.ID}, now)
	assertCode(t, err, appErrors.ErrNotFound)
	appErr := appErrors.FromError(err)
	require.NotSame(t, appErrors.ErrNotFound, appErr)
	appErr.Details = map[string]string{"id": "A123_001_0307"}
	assert.Nil(t, appErrors.ErrNotFound.Details)

	_, err = Approve(superAdmin, nil, "a1", now)
	assert.NotSame(t, appErrors.ErrNotFound, appErrors.FromError(err))
	_, err = SetPasswordResetStatus(staffT1, nil, models.StatusInProgress, now)
	assert.NotSame(t, appErrors.ErrNotFound, appErrors.FromError(err))
	_, err = Delete(studentS1, nil)
	assert.NotSame(t, appErrors.ErrNotFound, appErrors.FromError(err))
}

func TestAssignDoesNotMutateInput(t *testing.T) {
	rec := pendingRequest()
	_, err := Assign(superAdmin, rec, Assignee{ID: staffT1.ID}, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.Nil(t, rec.AssignedToID)
}

func TestSetStatusRules(t *testing.T) {
	base := pendingRequest()
	completed := base.Clone()
	completed.Status = models.StatusCompleted

	cases := []struct {
		name    string
		actor   models.IdentityFacts
		current *models.RequestRecord
		next    models.RecordStatus
		wantErr *appErrors.Error
		noop    bool
	}{
		{name: "staff may progress an unassigned request", actor: staffT1, current: base, next: models.StatusInProgress},
		{name: "admin may flag action needed", actor: admin, current: base, next: models.StatusActionNeeded},
		{name: "super admin may move back to pending", actor: superAdmin, current: assignedTo(t, base, staffT1), next: models.StatusPending},
		{name: "student forbidden", actor: studentS1, current: base, next: models.StatusInProgress, wantErr: appErrors.ErrForbidden},
		{name: "completed never manual", actor: superAdmin, current: base, next: models.StatusCompleted, wantErr: appErrors.ErrInvalidTransition},
		{name: "unknown status", actor: superAdmin, current: base, next: "ARCHIVED", wantErr: appErrors.ErrInvalidTransition},
		{name: "completed is terminal", actor: superAdmin, current: completed, next: models.StatusInProgress, wantErr: appErrors.ErrInvalidTransition},
		{name: "same status is a noop", actor: staffT1, current: base, next: models.StatusPending, noop: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			change, err := SetStatus(tc.actor, tc.current, tc.next, now)
			if tc.wantErr != nil {
				assertCode(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			if tc.noop {
				assert.True(t, change.Noop)
				assert.Nil(t, change.Event)
				return
			}
			assert.Equal(t, tc.next, change.Record.Status)
			require.NotNil(t, change.Event)
		})
	}
}

func TestSetStatusInProgressNotifiesStudentOnly(t *testing.T) {
	rec := assignedTo(t, pendingRequest(), staffT1)

	change, err := SetStatus(staffT1, rec, models.StatusInProgress, now)
	require.NoError(t, err)
	intents := Route(*change.Event, superIDs)
	require.Len(t, intents, 1)
	assert.Equal(t, studentS1.ID, intents[0].RecipientID)
	assert.Equal(t, "Your request #A123_001_0307 is now In-Progress.", intents[0].Message)

	change, err = SetStatus(staffT1, rec, models.StatusActionNeeded, now)
	require.NoError(t, err)
	assert.Empty(t, Route(*change.Event, superIDs))
}

func TestSetExpectedDate(t *testing.T) {
	rec := pendingRequest()
	date := time.Date(2024, time.April, 2, 15, 30, 0, 0, time.UTC)

	_, err := SetExpectedDate(staffT1, rec, date, now)
	assertCode(t, err, appErrors.ErrForbidden)

	_, err = SetExpectedDate(superAdmin, rec, time.Time{}, now)
	assertCode(t, err, appErrors.ErrValidation)

	change, err := SetExpectedDate(superAdmin, rec, date, now)
	require.NoError(t, err)
	require.NotNil(t, change.Record.ExpectedCompletionDate)
	assert.Equal(t, time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC), *change.Record.ExpectedCompletionDate)
	intents := Route(*change.Event, superIDs)
	require.Len(t, intents, 1)
	assert.Equal(t, studentS1.ID, intents[0].RecipientID)
	assert.Equal(t, "Expected collection date for #A123_001_0307 updated to 2 Apr 2024", intents[0].Message)

	again, err := SetExpectedDate(superAdmin, change.Record, date, now)
	require.NoError(t, err)
	assert.True(t, again.Noop)
}

func TestAddCommentFlags(t *testing.T) {
	rec := assignedTo(t, pendingRequest(), staffT1)

	studentComment, err := AddComment(studentS1, rec, CommentParams{ID: "c1", Content: "Any update?", Mode: CommentInternal}, now)
	require.NoError(t, err)
	assert.False(t, studentComment.Comment.IsInternal)
	assert.False(t, studentComment.Comment.IsDirectMessage)

	direct, err := AddComment(staffT1, rec, CommentParams{ID: "c2", Content: "Ready soon", Mode: CommentDirect}, now)
	require.NoError(t, err)
	assert.True(t, direct.Comment.IsDirectMessage)
	assert.False(t, direct.Comment.IsInternal)

	internal, err := AddComment(admin, rec, CommentParams{ID: "c3", Content: "check records", Mode: CommentInternal}, now)
	require.NoError(t, err)
	assert.True(t, internal.Comment.IsInternal)
	assert.False(t, internal.Comment.IsDirectMessage)

	_, err = AddComment(staffT1, rec, CommentParams{ID: "c4", Content: "hm", Mode: CommentPlain}, now)
	assertCode(t, err, appErrors.ErrValidation)

	_, err = AddComment(studentS1, rec, CommentParams{ID: "c5", Content: "   "}, now)
	assertCode(t, err, appErrors.ErrValidation)

	_, err = AddComment(studentS2, rec, CommentParams{ID: "c6", Content: "not mine"}, now)
	assertCode(t, err, appErrors.ErrForbidden)
}

func TestAddCommentAppendsWithoutReordering(t *testing.T) {
	rec := pendingRequest()
	first, err := AddComment(studentS1, rec, CommentParams{ID: "c1", Content: "one"}, now)
	require.NoError(t, err)
	second, err := AddComment(superAdmin, first.Record, CommentParams{ID: "c2", Content: "two", Mode: CommentDirect}, now.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, second.Record.Comments, 2)
	assert.Equal(t, "c1", second.Record.Comments[0].ID)
	assert.Equal(t, "c2", second.Record.Comments[1].ID)
	assert.Empty(t, rec.Comments)
}
