package models

// Stop is the persisted stop document. The id is the store key and lives
// outside the document; the issues list is never persisted, it is derived
// from the issue documents referencing this stop.
type Stop struct {
	Name      string   `json:"name"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Ridership *float64 `json:"ridership"`
}

// StopRecord pairs a stored stop with its key and derived reverse index.
type StopRecord struct {
	Stop
	ID       int64
	IssueIDs []int64
}

// StopPayload is a client-supplied stop body. Pointer fields distinguish
// an absent key from a legitimate zero value, so partial updates can apply
// explicit zeroes instead of silently dropping them.
type StopPayload struct {
	Name      *string  `json:"name"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Ridership *float64 `json:"ridership"`
}
