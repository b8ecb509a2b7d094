package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoRecordSource = errors.New("no record source configured")
)
