package repo

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/sync/errgroup"

	"transit_issues/internal/apperr"
	"transit_issues/internal/models"
	"transit_issues/internal/storage"
)

// IssuePage is one page of an issue listing. Total is nil for filtered
// listings where no running count is served.
type IssuePage struct {
	Issues     []models.IssueRecord
	Total      *int64
	NextCursor string
}

// CreateIssue validates and persists a new issue owned by user. The date
// stamp is server-assigned and the stop reference starts unset.
func (r *Repository) CreateIssue(ctx context.Context, p models.IssuePayload, user string) (*models.IssueRecord, error) {
	if p.Priority == nil || p.Description == nil {
		return nil, apperr.Validation(msgMissingAttrs)
	}
	doc := models.Issue{
		Priority:    *p.Priority,
		Description: *p.Description,
		Date:        issueDate(),
		User:        user,
	}
	id, err := r.store.Create(ctx, kindIssue, doc)
	if err != nil {
		return nil, err
	}
	return &models.IssueRecord{Issue: doc, ID: id}, nil
}

func (r *Repository) listIssues(ctx context.Context, filter *storage.Filter, cursor string, withTotal bool) (*IssuePage, error) {
	ents, page, err := r.store.Query(ctx, kindIssue, filter, pageSize, cursor)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCursor) {
			return nil, apperr.Cursor(msgBadCursor)
		}
		return nil, err
	}

	out := &IssuePage{NextCursor: page.EndCursor}
	if withTotal {
		total, err := r.store.Count(ctx, kindIssue)
		if err != nil {
			return nil, err
		}
		out.Total = &total
	}

	out.Issues = make([]models.IssueRecord, len(ents))
	for i, e := range ents {
		if err := json.Unmarshal(e.Doc, &out.Issues[i].Issue); err != nil {
			return nil, err
		}
		out.Issues[i].ID = e.ID
	}
	return out, nil
}

// ListIssues returns one fixed-size page of all issues with a running total.
func (r *Repository) ListIssues(ctx context.Context, cursor string) (*IssuePage, error) {
	return r.listIssues(ctx, nil, cursor, true)
}

// ListUserIssues returns one fixed-size page of the issues owned by user.
func (r *Repository) ListUserIssues(ctx context.Context, user, cursor string) (*IssuePage, error) {
	filter := &storage.Filter{Field: "user", Value: user}
	return r.listIssues(ctx, filter, cursor, false)
}

// GetIssue returns one issue by id.
func (r *Repository) GetIssue(ctx context.Context, id int64) (*models.IssueRecord, error) {
	var doc models.Issue
	if err := r.store.Get(ctx, kindIssue, id, &doc); err != nil {
		if errors.Is(err, storage.ErrNoEntity) {
			return nil, apperr.NotFound(msgNoIssue)
		}
		return nil, err
	}
	return &models.IssueRecord{Issue: doc, ID: id}, nil
}

// ownedIssue loads an issue and enforces the ownership check shared by
// every mutation. Existence is checked first, so probing a missing id never
// reveals ownership.
func (r *Repository) ownedIssue(ctx context.Context, id int64, user string) (*models.Issue, error) {
	var doc models.Issue
	if err := r.store.Get(ctx, kindIssue, id, &doc); err != nil {
		if errors.Is(err, storage.ErrNoEntity) {
			return nil, apperr.NotFound(msgNoIssue)
		}
		return nil, err
	}
	if doc.User != user {
		return nil, apperr.Ownership(msgForeignIssue)
	}
	return &doc, nil
}

// ReplaceIssue overwrites priority and description and refreshes the date.
// The stored owner and stop reference are carried forward no matter what
// the client sent.
func (r *Repository) ReplaceIssue(ctx context.Context, id int64, p models.IssuePayload, user string) (*models.IssueRecord, error) {
	if p.Priority == nil || p.Description == nil {
		return nil, apperr.Validation(msgMissingAttrs)
	}
	existing, err := r.ownedIssue(ctx, id, user)
	if err != nil {
		return nil, err
	}

	doc := models.Issue{
		Priority:    *p.Priority,
		Description: *p.Description,
		Date:        issueDate(),
		User:        existing.User,
		Stop:        existing.Stop,
	}
	if err := r.store.Save(ctx, kindIssue, id, doc); err != nil {
		return nil, err
	}
	return &models.IssueRecord{Issue: doc, ID: id}, nil
}

// UpdateIssue merges priority/description by key presence and refreshes the
// date; owner and stop reference are untouchable.
func (r *Repository) UpdateIssue(ctx context.Context, id int64, p models.IssuePayload, user string) (*models.IssueRecord, error) {
	existing, err := r.ownedIssue(ctx, id, user)
	if err != nil {
		return nil, err
	}

	doc := *existing
	if p.Priority != nil {
		doc.Priority = *p.Priority
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	doc.Date = issueDate()

	if err := r.store.Save(ctx, kindIssue, id, doc); err != nil {
		return nil, err
	}
	return &models.IssueRecord{Issue: doc, ID: id}, nil
}

// DeleteIssue removes an owned issue. No cascade: the stop side is derived,
// so nothing else needs touching.
func (r *Repository) DeleteIssue(ctx context.Context, id int64, user string) error {
	if _, err := r.ownedIssue(ctx, id, user); err != nil {
		return err
	}
	return r.store.Delete(ctx, kindIssue, id)
}

// ListIssuesForStop returns every issue referencing the stop, unpaginated.
func (r *Repository) ListIssuesForStop(ctx context.Context, stopID int64) ([]models.IssueRecord, error) {
	var doc models.Stop
	if err := r.store.Get(ctx, kindStop, stopID, &doc); err != nil {
		if errors.Is(err, storage.ErrNoEntity) {
			return nil, apperr.NotFound(msgNoStop)
		}
		return nil, err
	}
	return r.issuesForStop(ctx, stopID)
}

// fetchPair loads a stop and an issue concurrently. Both lookups always run
// to completion; a missing entity is reported separately from a store
// failure.
func (r *Repository) fetchPair(ctx context.Context, stopID, issueID int64) (issue models.Issue, missing bool, err error) {
	var stop models.Stop
	var stopMissing, issueMissing bool

	var g errgroup.Group
	g.Go(func() error {
		err := r.store.Get(ctx, kindStop, stopID, &stop)
		if errors.Is(err, storage.ErrNoEntity) {
			stopMissing = true
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := r.store.Get(ctx, kindIssue, issueID, &issue)
		if errors.Is(err, storage.ErrNoEntity) {
			issueMissing = true
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Issue{}, false, err
	}
	return issue, stopMissing || issueMissing, nil
}

// AttachStopToIssue sets the issue's stop reference. At most one stop may
// be assigned at a time.
func (r *Repository) AttachStopToIssue(ctx context.Context, stopID, issueID int64, user string) error {
	issue, missing, err := r.fetchPair(ctx, stopID, issueID)
	if err != nil {
		return err
	}
	if missing {
		return apperr.NotFound(msgPairMissing)
	}
	if issue.User != user {
		return apperr.Ownership(msgForeignIssue)
	}
	if issue.Stop != nil {
		return apperr.Conflict(msgStopAssigned)
	}

	ref := stopRef(stopID)
	issue.Stop = &ref
	return r.store.Save(ctx, kindIssue, issueID, issue)
}

// DetachStopFromIssue clears the issue's stop reference. The pair must be
// currently linked.
func (r *Repository) DetachStopFromIssue(ctx context.Context, stopID, issueID int64, user string) error {
	issue, missing, err := r.fetchPair(ctx, stopID, issueID)
	if err != nil {
		return err
	}
	if missing || issue.Stop == nil || *issue.Stop != stopRef(stopID) {
		return apperr.NotFound(msgNotAssigned)
	}
	if issue.User != user {
		return apperr.Ownership(msgForeignIssue)
	}

	issue.Stop = nil
	return r.store.Save(ctx, kindIssue, issueID, issue)
}
