package domain

import "errors"

// ============================================================================
// Variant Errors
// ============================================================================

var (
	ErrVariantNotFound    = errors.New("variant not found")
	ErrInvalidVariantName = errors.New("variant name is required")
	ErrDuplicateVariant   = errors.New("variant with this name is already configured")
	ErrInvalidSchema      = errors.New("invalid column schema")
	ErrInvalidChart       = errors.New("unknown chart kind")
	ErrChartDisabled      = errors.New("chart is not enabled for this variant")
	ErrInvalidRangePolicy = errors.New("invalid range policy")
)

// ============================================================================
// Model Errors
// ============================================================================

var (
	ErrModelUnavailable    = errors.New("model is unavailable")
	ErrArtifactFormat      = errors.New("malformed model artifact")
	ErrUnsupportedArtifact = errors.New("unsupported model artifact")
)

// ============================================================================
// Prediction Errors
// ============================================================================

// Validation errors
var (
	ErrEmptyImpedance   = errors.New("please enter a valid impedance value")
	ErrInvalidImpedance = errors.New("impedance must be a finite number")
)

// Prediction errors
var (
	ErrPrediction     = errors.New("prediction failed")
	ErrSchemaMismatch = errors.New("model output does not match column schema")
)

// ============================================================================
// Journal Errors
// ============================================================================

var (
	ErrJournalDisabled = errors.New("prediction journal is disabled")
)
