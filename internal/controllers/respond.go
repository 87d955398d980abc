package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"transit_issues/internal/apperr"
	"transit_issues/internal/middleware"
	"transit_issues/internal/models"
)

const msgMissingToken = "Missing or invalid authorization token"

// entityRef is a hyperlinked reference to another resource.
type entityRef struct {
	ID   int64  `json:"id"`
	Self string `json:"self"`
}

// stopResponse mirrors models.Stop with the derived issues list, a GeoJSON
// point for the coordinates, and a self link.
type stopResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Lat       float64     `json:"lat"`
	Lon       float64     `json:"lon"`
	Ridership *float64    `json:"ridership"`
	Geometry  string      `json:"geometry,omitempty"`
	Issues    []entityRef `json:"issues"`
	Self      string      `json:"self"`
}

// issueResponse mirrors models.Issue with the stop reference expanded into
// {id, self} and a self link.
type issueResponse struct {
	ID          int64      `json:"id"`
	Priority    string     `json:"priority"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	User        string     `json:"user"`
	Stop        *entityRef `json:"stop"`
	Self        string     `json:"self"`
}

// listResponse is the pagination envelope shared by every listing.
type listResponse struct {
	Results    any    `json:"results"`
	TotalItems *int64 `json:"total_items,omitempty"`
	Next       string `json:"next,omitempty"`
}

// writeError maps a repository failure to its status code with the uniform
// {"Error": ...} body. Unclassified (store-level) failures log and surface
// verbatim as 500s.
func writeError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	c.JSON(status, gin.H{"Error": err.Error()})
}

// baseURL rebuilds the external scheme+host of the request, honoring
// X-Forwarded-Proto when a proxy sits in front.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

func stopSelf(c *gin.Context, id int64) string {
	return fmt.Sprintf("%s/stops/%d", baseURL(c), id)
}

func issueSelf(c *gin.Context, id int64) string {
	return fmt.Sprintf("%s/issues/%d", baseURL(c), id)
}

// nextLink rebuilds the request path with the continuation cursor.
func nextLink(c *gin.Context, cursor string) string {
	return baseURL(c) + c.Request.URL.Path + "?cursor=" + url.QueryEscape(cursor)
}

// parseID reads a decimal id path parameter. An unparsable id behaves like
// a missing entity.
func parseID(c *gin.Context, param, notFoundMsg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		writeError(c, apperr.NotFound(notFoundMsg))
		return 0, false
	}
	return id, true
}

// requireSubject enforces authenticated access on a route; the identify
// middleware never aborts, so the 401 happens here.
func requireSubject(c *gin.Context) (string, bool) {
	sub, ok := middleware.Subject(c)
	if !ok {
		writeError(c, apperr.Credentials(msgMissingToken))
		return "", false
	}
	return sub, true
}

// stopGeometry renders the coordinates as a GeoJSON point.
func stopGeometry(lat, lon float64) string {
	b, err := gjson.Marshal(geom.NewPointFlat(geom.XY, []float64{lon, lat}))
	if err != nil {
		return ""
	}
	return string(b)
}

func toStopResponse(c *gin.Context, rec *models.StopRecord) stopResponse {
	issues := make([]entityRef, len(rec.IssueIDs))
	for i, id := range rec.IssueIDs {
		issues[i] = entityRef{ID: id, Self: issueSelf(c, id)}
	}
	return stopResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Lat:       rec.Lat,
		Lon:       rec.Lon,
		Ridership: rec.Ridership,
		Geometry:  stopGeometry(rec.Lat, rec.Lon),
		Issues:    issues,
		Self:      stopSelf(c, rec.ID),
	}
}

func toIssueResponse(c *gin.Context, rec *models.IssueRecord) issueResponse {
	resp := issueResponse{
		ID:          rec.ID,
		Priority:    rec.Priority,
		Description: rec.Description,
		Date:        rec.Date,
		User:        rec.User,
		Self:        issueSelf(c, rec.ID),
	}
	if rec.Stop != nil {
		if stopID, err := strconv.ParseInt(*rec.Stop, 10, 64); err == nil {
			resp.Stop = &entityRef{ID: stopID, Self: stopSelf(c, stopID)}
		}
	}
	return resp
}

// MethodNotAllowed answers unsupported verbs on a known path with 405 and
// the Allow header listing what the path supports.
func MethodNotAllowed(allow string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"Error": "Method not allowed; see the Allow header for supported methods",
		})
	}
}
