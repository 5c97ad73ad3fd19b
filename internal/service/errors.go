package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrLeaserNotFound is returned when a leaser is not found
	ErrLeaserNotFound = errors.New("leaser not found")

	// ErrCommissionLevelNotFound is returned when a commission level is not found
	ErrCommissionLevelNotFound = errors.New("commission level not found")

	// ErrClientNotFound is returned when a client is not found
	ErrClientNotFound = errors.New("client not found")

	// ErrAmbassadorNotFound is returned when an ambassador is not found
	ErrAmbassadorNotFound = errors.New("ambassador not found")

	// ErrOfferNotFound is returned when an offer is not found
	ErrOfferNotFound = errors.New("offer not found")

	// ErrContractNotFound is returned when a contract is not found
	ErrContractNotFound = errors.New("contract not found")

	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidTransition is returned when a workflow transition is not allowed
	ErrInvalidTransition = errors.New("workflow transition not allowed")

	// ErrOfferConverted is returned when mutating an offer already converted
	// to a contract
	ErrOfferConverted = errors.New("offer already converted to contract")

	// ErrNotPaused is returned when resuming an offer that is not in
	// info_requested
	ErrNotPaused = errors.New("offer is not paused for information")

	// ErrInvalidRanges is returned when a range table fails validation
	ErrInvalidRanges = errors.New("invalid range configuration")
)
