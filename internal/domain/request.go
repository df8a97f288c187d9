package domain

// RequestDetails is the enrichment read from the external request
// collaborator when composing messages. All fields except ID are
// optional; composition omits missing ones entirely.
type RequestDetails struct {
	ID            string
	RequesterName string
	Notes         string
	Courtesy      bool
	CoRiders      []string
}
