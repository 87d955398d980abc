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

// StopPage is one page of the stop listing.
type StopPage struct {
	Stops      []models.StopRecord
	Total      int64
	NextCursor string
}

// CreateStop validates and persists a new stop. Ridership defaults to null
// when the client omits it.
func (r *Repository) CreateStop(ctx context.Context, p models.StopPayload) (*models.StopRecord, error) {
	if p.Name == nil || p.Lat == nil || p.Lon == nil {
		return nil, apperr.Validation(msgMissingAttrs)
	}
	doc := models.Stop{Name: *p.Name, Lat: *p.Lat, Lon: *p.Lon, Ridership: p.Ridership}
	id, err := r.store.Create(ctx, kindStop, doc)
	if err != nil {
		return nil, err
	}
	return &models.StopRecord{Stop: doc, ID: id, IssueIDs: []int64{}}, nil
}

// ListStops returns one fixed-size page with each stop's derived issue ids.
// The reverse-index lookups fan out concurrently and all run to completion;
// only the first failure, if any, is reported.
func (r *Repository) ListStops(ctx context.Context, cursor string) (*StopPage, error) {
	ents, page, err := r.store.Query(ctx, kindStop, nil, pageSize, cursor)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCursor) {
			return nil, apperr.Cursor(msgBadCursor)
		}
		return nil, err
	}

	total, err := r.store.Count(ctx, kindStop)
	if err != nil {
		return nil, err
	}

	records := make([]models.StopRecord, len(ents))
	var g errgroup.Group
	for i, e := range ents {
		g.Go(func() error {
			if err := json.Unmarshal(e.Doc, &records[i].Stop); err != nil {
				return err
			}
			ids, err := r.issueIDsForStop(ctx, e.ID)
			if err != nil {
				return err
			}
			records[i].ID = e.ID
			records[i].IssueIDs = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &StopPage{Stops: records, Total: total, NextCursor: page.EndCursor}, nil
}

// GetStop returns one stop with its derived issue ids.
func (r *Repository) GetStop(ctx context.Context, id int64) (*models.StopRecord, error) {
	var doc models.Stop
	if err := r.store.Get(ctx, kindStop, id, &doc); err != nil {
		if errors.Is(err, storage.ErrNoEntity) {
			return nil, apperr.NotFound(msgNoStop)
		}
		return nil, err
	}
	ids, err := r.issueIDsForStop(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.StopRecord{Stop: doc, ID: id, IssueIDs: ids}, nil
}

// ReplaceStop overwrites every stored field. All required fields must be
// supplied again; an omitted ridership resets to null.
func (r *Repository) ReplaceStop(ctx context.Context, id int64, p models.StopPayload) (*models.StopRecord, error) {
	if p.Name == nil || p.Lat == nil || p.Lon == nil {
		return nil, apperr.Validation(msgMissingAttrs)
	}
	var existing models.Stop
	if err := r.store.Get(ctx, kindStop, id, &existing); err != nil {
		if errors.Is(err, storage.ErrNoEntity) {
			return nil, apperr.NotFound(msgNoStop)
		}
		return nil, err
	}

	doc := models.Stop{Name: *p.Name, Lat: *p.Lat, Lon: *p.Lon, Ridership: p.Ridership}
	if err := r.store.Save(ctx, kindStop, id, doc); err != nil {
		return nil, err
	}
	ids, err := r.issueIDsForStop(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.StopRecord{Stop: doc, ID: id, IssueIDs: ids}, nil
}

// UpdateStop merges by key presence: fields absent from the payload keep
// their stored values, explicit zeroes are applied.
func (r *Repository) UpdateStop(ctx context.Context, id int64, p models.StopPayload) (*models.StopRecord, error) {
	var doc models.Stop
	if err := r.store.Get(ctx, kindStop, id, &doc); err != nil {
		if errors.Is(err, storage.ErrNoEntity) {
			return nil, apperr.NotFound(msgNoStop)
		}
		return nil, err
	}

	if p.Name != nil {
		doc.Name = *p.Name
	}
	if p.Lat != nil {
		doc.Lat = *p.Lat
	}
	if p.Lon != nil {
		doc.Lon = *p.Lon
	}
	if p.Ridership != nil {
		doc.Ridership = p.Ridership
	}

	if err := r.store.Save(ctx, kindStop, id, doc); err != nil {
		return nil, err
	}
	ids, err := r.issueIDsForStop(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.StopRecord{Stop: doc, ID: id, IssueIDs: ids}, nil
}

// DeleteStop detaches every referencing issue, then removes the stop. The
// detaches fan out concurrently with no rollback: a partial failure leaves
// the stop in place and a rerun retries the remaining detaches.
func (r *Repository) DeleteStop(ctx context.Context, id int64) error {
	var doc models.Stop
	if err := r.store.Get(ctx, kindStop, id, &doc); err != nil {
		if errors.Is(err, storage.ErrNoEntity) {
			return apperr.NotFound(msgNoStop)
		}
		return err
	}

	referencing, err := r.issuesForStop(ctx, id)
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, rec := range referencing {
		g.Go(func() error {
			issue := rec.Issue
			issue.Stop = nil
			return r.store.Save(ctx, kindIssue, rec.ID, issue)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return r.store.Delete(ctx, kindStop, id)
}
