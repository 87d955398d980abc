package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_issues/internal/apperr"
	"transit_issues/internal/models"
	"transit_issues/internal/repo"
	"transit_issues/internal/storage/memstore"
)

func ptrString(s string) *string  { return &s }
func ptrFloat(f float64) *float64 { return &f }

func newRepo() *repo.Repository {
	return repo.New(memstore.New())
}

func createStop(t *testing.T, r *repo.Repository, name string, lat, lon float64) *models.StopRecord {
	t.Helper()
	rec, err := r.CreateStop(context.Background(), models.StopPayload{
		Name: ptrString(name),
		Lat:  ptrFloat(lat),
		Lon:  ptrFloat(lon),
	})
	require.NoError(t, err)
	return rec
}

func createIssue(t *testing.T, r *repo.Repository, user string) *models.IssueRecord {
	t.Helper()
	rec, err := r.CreateIssue(context.Background(), models.IssuePayload{
		Priority:    ptrString("high"),
		Description: ptrString("shelter is damaged"),
	}, user)
	require.NoError(t, err)
	return rec
}

func TestCreateStop(t *testing.T) {
	r := newRepo()
	rec := createStop(t, r, "Main St", 1.0, 2.0)

	assert.NotZero(t, rec.ID)
	assert.Equal(t, "Main St", rec.Name)
	assert.Equal(t, 1.0, rec.Lat)
	assert.Equal(t, 2.0, rec.Lon)
	assert.Nil(t, rec.Ridership)
	assert.Equal(t, []int64{}, rec.IssueIDs)
}

func TestCreateStopMissingAttribute(t *testing.T) {
	r := newRepo()
	_, err := r.CreateStop(context.Background(), models.StopPayload{
		Name: ptrString("Main St"),
		Lon:  ptrFloat(2.0),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.EqualError(t, err, "The request object is missing at least one of the required attributes")
}

func TestGetStopRoundTrip(t *testing.T) {
	r := newRepo()
	created := createStop(t, r, "Main St", 1.0, 2.0)

	got, err := r.GetStop(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Main St", got.Name)
	assert.Equal(t, 1.0, got.Lat)
	assert.Equal(t, 2.0, got.Lon)
	assert.Equal(t, []int64{}, got.IssueIDs)
}

func TestGetStopNotFound(t *testing.T) {
	r := newRepo()
	_, err := r.GetStop(context.Background(), 999)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.EqualError(t, err, "No stop with this stop_id exists")
}

func TestReplaceStop(t *testing.T) {
	r := newRepo()
	ctx := context.Background()
	created, err := r.CreateStop(ctx, models.StopPayload{
		Name:      ptrString("Main St"),
		Lat:       ptrFloat(1.0),
		Lon:       ptrFloat(2.0),
		Ridership: ptrFloat(300),
	})
	require.NoError(t, err)

	// Full overwrite: new name, ridership omitted resets to null.
	got, err := r.ReplaceStop(ctx, created.ID, models.StopPayload{
		Name: ptrString("Elm St"),
		Lat:  ptrFloat(1.0),
		Lon:  ptrFloat(2.0),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Elm St", got.Name)
	assert.Nil(t, got.Ridership)
}

func TestReplaceStopValidatesAndChecksExistence(t *testing.T) {
	r := newRepo()
	ctx := context.Background()
	created := createStop(t, r, "Main St", 1.0, 2.0)

	_, err := r.ReplaceStop(ctx, created.ID, models.StopPayload{Name: ptrString("Elm St")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = r.ReplaceStop(ctx, 999, models.StopPayload{
		Name: ptrString("Elm St"), Lat: ptrFloat(0), Lon: ptrFloat(0),
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateStopMergesByKeyPresence(t *testing.T) {
	r := newRepo()
	ctx := context.Background()
	created, err := r.CreateStop(ctx, models.StopPayload{
		Name:      ptrString("Main St"),
		Lat:       ptrFloat(1.0),
		Lon:       ptrFloat(2.0),
		Ridership: ptrFloat(300),
	})
	require.NoError(t, err)

	got, err := r.UpdateStop(ctx, created.ID, models.StopPayload{Name: ptrString("Elm St")})
	require.NoError(t, err)
	assert.Equal(t, "Elm St", got.Name)
	assert.Equal(t, 1.0, got.Lat)
	assert.Equal(t, 2.0, got.Lon)
	require.NotNil(t, got.Ridership)
	assert.Equal(t, 300.0, *got.Ridership)
}

func TestUpdateStopAppliesExplicitZero(t *testing.T) {
	r := newRepo()
	ctx := context.Background()
	created, err := r.CreateStop(ctx, models.StopPayload{
		Name:      ptrString("Main St"),
		Lat:       ptrFloat(1.0),
		Lon:       ptrFloat(2.0),
		Ridership: ptrFloat(300),
	})
	require.NoError(t, err)

	// A zero-valued field present in the payload must win.
	got, err := r.UpdateStop(ctx, created.ID, models.StopPayload{
		Lat:       ptrFloat(0),
		Ridership: ptrFloat(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Lat)
	require.NotNil(t, got.Ridership)
	assert.Equal(t, 0.0, *got.Ridership)
	assert.Equal(t, "Main St", got.Name)
}

func TestListStopsPagination(t *testing.T) {
	r := newRepo()
	ctx := context.Background()
	var ids []int64
	for i := 0; i < 7; i++ {
		ids = append(ids, createStop(t, r, "Stop", float64(i), float64(i)).ID)
	}

	page, err := r.ListStops(ctx, "")
	require.NoError(t, err)
	require.Len(t, page.Stops, 5)
	assert.EqualValues(t, 7, page.Total)
	require.NotEmpty(t, page.NextCursor)

	var firstIDs []int64
	for _, s := range page.Stops {
		firstIDs = append(firstIDs, s.ID)
	}
	assert.Equal(t, ids[:5], firstIDs)

	rest, err := r.ListStops(ctx, page.NextCursor)
	require.NoError(t, err)
	require.Len(t, rest.Stops, 2)
	assert.Empty(t, rest.NextCursor)
	assert.Equal(t, ids[5], rest.Stops[0].ID)
	assert.Equal(t, ids[6], rest.Stops[1].ID)
}

func TestListStopsInvalidCursor(t *testing.T) {
	r := newRepo()
	_, err := r.ListStops(context.Background(), "bogus")
	assert.Equal(t, apperr.KindCursor, apperr.KindOf(err))
	assert.EqualError(t, err, "Invalid cursor value provided")
}

func TestListStopsDerivesIssues(t *testing.T) {
	r := newRepo()
	ctx := context.Background()
	stop := createStop(t, r, "Main St", 1.0, 2.0)
	issue := createIssue(t, r, "user-a")
	require.NoError(t, r.AttachStopToIssue(ctx, stop.ID, issue.ID, "user-a"))

	page, err := r.ListStops(ctx, "")
	require.NoError(t, err)
	require.Len(t, page.Stops, 1)
	assert.Equal(t, []int64{issue.ID}, page.Stops[0].IssueIDs)
}

func TestDeleteStopDetachesIssues(t *testing.T) {
	r := newRepo()
	ctx := context.Background()
	stop := createStop(t, r, "Main St", 1.0, 2.0)

	var issueIDs []int64
	for i := 0; i < 3; i++ {
		issue := createIssue(t, r, "user-a")
		require.NoError(t, r.AttachStopToIssue(ctx, stop.ID, issue.ID, "user-a"))
		issueIDs = append(issueIDs, issue.ID)
	}

	require.NoError(t, r.DeleteStop(ctx, stop.ID))

	_, err := r.GetStop(ctx, stop.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	for _, id := range issueIDs {
		issue, err := r.GetIssue(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, issue.Stop)
	}
}

func TestDeleteStopNotFound(t *testing.T) {
	r := newRepo()
	err := r.DeleteStop(context.Background(), 999)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
