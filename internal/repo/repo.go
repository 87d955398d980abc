// Package repo is the entity repository: validity, ownership, and
// relationship integrity for stops and issues over an injected document
// store. Handlers consume its records and map its error kinds to statuses.
package repo

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"transit_issues/internal/models"
	"transit_issues/internal/storage"
)

const (
	kindStop  = "Stop"
	kindIssue = "Issue"

	// Fixed page size for every cursor-paginated listing.
	pageSize = 5
)

// Client-facing failure messages, kept stable because they are part of the
// API surface.
const (
	msgMissingAttrs = "The request object is missing at least one of the required attributes"
	msgNoStop       = "No stop with this stop_id exists"
	msgNoIssue      = "No issue with this issue_id exists"
	msgBadCursor    = "Invalid cursor value provided"
	msgPairMissing  = "The specified stop and/or issue do not exist"
	msgStopAssigned = "A stop is already assigned to this issue"
	msgNotAssigned  = "No stop with this stop_id is assigned to an issue with this issue_id"
	msgForeignIssue = "This issue is owned by another user"
)

type Repository struct {
	store storage.Store
}

func New(store storage.Store) *Repository {
	return &Repository{store: store}
}

// issueDate is the server-assigned month/day/year stamp written on every
// issue create, replace, and update.
func issueDate() string {
	return time.Now().Format("1/2/2006")
}

func stopRef(stopID int64) string {
	return strconv.FormatInt(stopID, 10)
}

// issuesForStop returns every issue document referencing the given stop,
// in id order.
func (r *Repository) issuesForStop(ctx context.Context, stopID int64) ([]models.IssueRecord, error) {
	filter := &storage.Filter{Field: "stop", Value: stopRef(stopID)}
	ents, _, err := r.store.Query(ctx, kindIssue, filter, 0, "")
	if err != nil {
		return nil, err
	}
	records := make([]models.IssueRecord, len(ents))
	for i, e := range ents {
		if err := json.Unmarshal(e.Doc, &records[i].Issue); err != nil {
			return nil, err
		}
		records[i].ID = e.ID
	}
	return records, nil
}

// issueIDsForStop is the derived reverse index attached to stop reads.
func (r *Repository) issueIDsForStop(ctx context.Context, stopID int64) ([]int64, error) {
	records, err := r.issuesForStop(ctx, stopID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids, nil
}
