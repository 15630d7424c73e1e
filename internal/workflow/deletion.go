package workflow

import (
	"github.com/noah-isme/edudocs-api/internal/models"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

// Delete resolves a delete action: super admins purge the record, everyone else hides
// it from their own view.
func Delete(actor models.IdentityFacts, rec models.Manageable) (models.BatchOp, error) {
	if rec == nil {
		return models.BatchOp{}, appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	if actor.IsSuperAdmin() {
		return models.BatchOp{Kind: rec.Kind(), Type: models.BatchOpDelete, RecordID: rec.RecordID()}, nil
	}
	if !InScope(actor, rec) {
		return models.BatchOp{}, appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	return models.BatchOp{Kind: rec.Kind(), Type: models.BatchOpHide, RecordID: rec.RecordID(), UserID: actor.ID}, nil
}

// ClearDisplayed applies Delete to every record currently displayed to actor.
// Records already hidden from actor are skipped.
func ClearDisplayed[T models.Manageable](actor models.IdentityFacts, displayed []T) ([]models.BatchOp, error) {
	ops := make([]models.BatchOp, 0, len(displayed))
	for _, rec := range displayed {
		if !actor.IsSuperAdmin() && rec.HiddenFor(actor.ID) {
			continue
		}
		op, err := Delete(actor, rec)
		if err != nil {
			if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
				continue
			}
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// HideFromDashboard removes rec from the dashboard recent slice without touching lists.
func HideFromDashboard(actor models.IdentityFacts, rec models.Manageable) (models.BatchOp, error) {
	if !actor.Role.IsManager() {
		return models.BatchOp{}, appErrors.Forbidden("students have no dashboard to clear")
	}
	if rec == nil || !InScope(actor, rec) {
		return models.BatchOp{}, appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	return models.BatchOp{Kind: rec.Kind(), Type: models.BatchOpDashboardHide, RecordID: rec.RecordID()}, nil
}

// ClearDashboard hides every record in the current recent slice.
func ClearDashboard[T models.Manageable](actor models.IdentityFacts, recent []T) ([]models.BatchOp, error) {
	if !actor.Role.IsManager() {
		return nil, appErrors.Forbidden("students have no dashboard to clear")
	}
	ops := make([]models.BatchOp, 0, len(recent))
	for _, rec := range recent {
		if rec.IsDashboardHidden() {
			continue
		}
		op, err := HideFromDashboard(actor, rec)
		if err != nil {
			continue
		}
		ops = append(ops, op)
	}
	return ops, nil
}
