// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OutcomeStatus is the result of one bundle request.
type OutcomeStatus string

const (
	OutcomeOK     OutcomeStatus = "ok"
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome records one bundle request for the journal.
type Outcome struct {
	// ID is assigned by the journal when the outcome is stored.
	ID int64 `json:"id" yaml:"id"`

	// Time is when the request finished.
	Time time.Time `json:"time" yaml:"time"`

	Status OutcomeStatus `json:"status" yaml:"status"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// ArchiveName is the public name of the produced archive.
	ArchiveName string `json:"archive_name" yaml:"archive_name"`

	// Sources lists the submitted file names in order.
	Sources []string `json:"sources" yaml:"sources"`

	// Outputs lists the converted files, empty on failure.
	Outputs []Output `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}
