// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vacancy

import (
	"errors"
	"fmt"
)

var (
	// ErrLookaheadOutOfRange is returned when a label whose value lives in
	// the following block is the last block of the document.
	ErrLookaheadOutOfRange = errors.New("look-ahead past end of block sequence")

	// ErrMalformedHeader is returned when a vacancy header does not yield a
	// VN-<digits> code.
	ErrMalformedHeader = errors.New("malformed vacancy header")
)

// ParseError records the block at which parsing stopped.
type ParseError struct {
	// Index is the position of the offending block.
	Index int

	// Label names the rule that was being applied ("header", "job_title", ...).
	Label string

	// Text is the trimmed text of the offending block.
	Text string

	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("block %d (%s): %v: %q", e.Index, e.Label, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }
