// Package reconcile classifies desired child entries of an aggregate
// against the rows currently stored, producing a delete/update/create
// plan. It knows nothing about storage; callers execute the plan inside
// their own transaction.
package reconcile

import (
	"fmt"

	"github.com/store/backend/internal/domain/shared"
)

// Entry is a desired child submitted by a client. A positive ID refers
// to an existing row, a negative ID marks an entry to be created.
type Entry struct {
	ID int64
}

// Plan is the outcome of classifying desired entries against current rows.
type Plan struct {
	// DeleteIDs are current row IDs absent from the desired set.
	DeleteIDs []int64
	// UpdateIDs are desired IDs that matched current rows.
	UpdateIDs []int64
	// CreateIDs are the negative placeholder IDs, in submission order.
	// Placeholders stay meaningful to the caller: children of a new
	// parent may reference it by the same negative ID.
	CreateIDs []int64
}

// Classify builds a reconciliation plan. A desired positive ID that does
// not exist in current is rejected, since it would silently resurrect a
// row deleted by a concurrent editor.
func Classify(current []int64, desired []Entry) (Plan, error) {
	currentSet := make(map[int64]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}

	var plan Plan
	desiredSet := make(map[int64]struct{}, len(desired))
	for _, entry := range desired {
		if entry.ID < 0 {
			plan.CreateIDs = append(plan.CreateIDs, entry.ID)
			continue
		}
		if _, ok := currentSet[entry.ID]; !ok {
			return Plan{}, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Entry %d does not exist", entry.ID))
		}
		if _, ok := desiredSet[entry.ID]; ok {
			return Plan{}, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Entry %d is listed more than once", entry.ID))
		}
		desiredSet[entry.ID] = struct{}{}
		plan.UpdateIDs = append(plan.UpdateIDs, entry.ID)
	}

	for _, id := range current {
		if _, ok := desiredSet[id]; !ok {
			plan.DeleteIDs = append(plan.DeleteIDs, id)
		}
	}
	return plan, nil
}

// ImageAction describes what to do with the image of a reconciled entry.
type ImageAction int

const (
	// ImageKeep leaves the current image reference untouched.
	ImageKeep ImageAction = iota
	// ImageRelink points the entry at a different already-stored image.
	ImageRelink
	// ImageReplace deletes the current image and attaches a freshly
	// uploaded one.
	ImageReplace
)

// ImageRef is the image reference carried by a desired entry. Filename
// is set when a freshly uploaded file backs the entry; ImageID when it
// points at an already-stored image. Zero values mean absent.
type ImageRef struct {
	ImageID  int64
	Filename string
}

// ResolveImageAction decides the image action for one entry. A fresh
// upload always wins over an ID reference.
func ResolveImageAction(desired ImageRef, currentImageID int64) ImageAction {
	if desired.Filename != "" {
		return ImageReplace
	}
	if desired.ImageID != 0 && desired.ImageID != currentImageID {
		return ImageRelink
	}
	return ImageKeep
}

// CheckUniqueIndexes rejects the whole operation when two entries claim
// the same display position. Runs before any transaction is opened.
func CheckUniqueIndexes(indexes []int) error {
	seen := make(map[int]struct{}, len(indexes))
	for _, idx := range indexes {
		if _, ok := seen[idx]; ok {
			return shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Index %d is used more than once", idx))
		}
		seen[idx] = struct{}{}
	}
	return nil
}
