package service

import "errors"

// ErrStaleSubmission reports that a submission's response arrived after
// a newer submission replaced it; its result was discarded, never
// committed to visible state.
var ErrStaleSubmission = errors.New("submission superseded by a newer search")

// Fallback message for network and protocol faults; server-supplied
// application error messages are shown instead when present.
const genericErrorMessage = "Search failed. Please try again."
