package models

// Issue is the persisted issue document. Date is server-assigned on every
// write; User is set at creation and never changes. Stop holds the decimal
// id of the referenced stop, or nil when unassigned.
type Issue struct {
	Priority    string  `json:"priority"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	User        string  `json:"user"`
	Stop        *string `json:"stop"`
}

// IssueRecord pairs a stored issue with its key.
type IssueRecord struct {
	Issue
	ID int64
}

// IssuePayload is a client-supplied issue body. Stop and user are not
// accepted here: the reference moves only through the attach/detach
// endpoints and the owner is taken from the verified token.
type IssuePayload struct {
	Priority    *string `json:"priority"`
	Description *string `json:"description"`
}
