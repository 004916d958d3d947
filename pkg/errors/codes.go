package errors

// ErrorCode is the typed classification of an AppError.  Codes are grouped in
// blocks of 100 per layer so that new codes can be added without renumbering.
type ErrorCode int

const (
	// CodeUnknown is the zero value; it means the error was not classified.
	CodeUnknown ErrorCode = 0

	// ── Generic (1xx) ────────────────────────────────────────────────────────
	CodeInternal   ErrorCode = 100
	CodeValidation ErrorCode = 101
	CodeNotFound   ErrorCode = 102

	// ── Model serving (2xx) ──────────────────────────────────────────────────
	CodeArtifactUnavailable ErrorCode = 200
	CodeArtifactCorrupt     ErrorCode = 201
	CodeFeatureMismatch     ErrorCode = 202

	// ── Offline tooling (3xx) ────────────────────────────────────────────────
	CodeDatasetInvalid ErrorCode = 300
	CodeTrainingFailed ErrorCode = 301
)

// String returns the canonical snake_case name of the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeUnknown:
		return "unknown"
	case CodeInternal:
		return "internal"
	case CodeValidation:
		return "validation"
	case CodeNotFound:
		return "not_found"
	case CodeArtifactUnavailable:
		return "artifact_unavailable"
	case CodeArtifactCorrupt:
		return "artifact_corrupt"
	case CodeFeatureMismatch:
		return "feature_mismatch"
	case CodeDatasetInvalid:
		return "dataset_invalid"
	case CodeTrainingFailed:
		return "training_failed"
	default:
		return "unknown"
	}
}
