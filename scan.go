package confscan

import "context"

// Searcher scans a directory tree for confidential documents.
type Searcher interface {
	// Search runs a complete scan of root. progress and status may be nil.
	// A cancelled scan returns its partial report along with an error
	// wrapping the context error.
	Search(ctx context.Context, root string, progress ProgressFunc, status StatusFunc) (*Report, error)
}

// ScanState is a state of the search pipeline.
type ScanState int

// Pipeline states. A scan moves forward through the phases and ends in one
// of the terminal states.
const (
	StateIdle ScanState = iota
	StateEnumeratingDirectories
	StateWordPhase
	StateExcelPhase
	StatePDFPhase
	StateCompleted
	StateCancelled
	StateFailed
)

// String returns the state name as stored and logged.
func (s ScanState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEnumeratingDirectories:
		return "enumerating_directories"
	case StateWordPhase:
		return "word_phase"
	case StateExcelPhase:
		return "excel_phase"
	case StatePDFPhase:
		return "pdf_phase"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal returns true if no further transitions can happen from s.
func (s ScanState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// ParseScanState is the inverse of ScanState.String.
func ParseScanState(name string) (ScanState, error) {
	for s := StateIdle; s <= StateFailed; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return StateIdle, Errorf(EINVALID, "unknown scan state %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s ScanState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ScanState) UnmarshalText(text []byte) error {
	v, err := ParseScanState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ProgressFunc receives the completed fraction of the current phase, in [0,1].
type ProgressFunc func(fraction float64)

// StatusFunc receives human-readable status updates.
type StatusFunc func(status string)

// Verdict is the outcome of classifying one file.
type Verdict int

const (
	// VerdictClean means the file was read and carries no marker.
	VerdictClean Verdict = iota
	// VerdictConfidential means the file carries the marker (or, for PDF,
	// shares its name with a confidential document).
	VerdictConfidential
	// VerdictSkipped means the file was not inspected: it vanished or is a
	// temporary file.
	VerdictSkipped
	// VerdictUnreadable means the document could not be opened or decoded.
	VerdictUnreadable
)

func (v Verdict) String() string {
	switch v {
	case VerdictClean:
		return "clean"
	case VerdictConfidential:
		return "confidential"
	case VerdictSkipped:
		return "skipped"
	case VerdictUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// PhaseStats counts verdicts for one format phase.
type PhaseStats struct {
	Format       Format `json:"format"`
	Listed       int    `json:"listed"`
	Confidential int    `json:"confidential"`
	Skipped      int    `json:"skipped"`
	Unreadable   int    `json:"unreadable"`
}

// Record updates the counters for a verdict.
func (s *PhaseStats) Record(v Verdict) {
	switch v {
	case VerdictConfidential:
		s.Confidential++
	case VerdictSkipped:
		s.Skipped++
	case VerdictUnreadable:
		s.Unreadable++
	}
}
