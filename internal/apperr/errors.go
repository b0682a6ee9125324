package apperr

import "fmt"

// OperationError is the base for operation-level failures. It always carries
// the offending operation's module and name so a failure can be diagnosed
// without re-running the sweep.
type OperationError struct {
	Module    string
	Operation string
	Message   string
	Err       error
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s: %s", e.Module, e.Operation, e.Message)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// TrialError records a single failed trial, including the component
// assignment it ran under. It is non-fatal: the sample is discarded and
// counted, and collection continues.
type TrialError struct {
	Module     string
	Operation  string
	Assignment string
	Err        error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("%s.%s [%s]: trial failed: %v", e.Module, e.Operation, e.Assignment, e.Err)
}

func (e *TrialError) Unwrap() error {
	return e.Err
}

// ExcessiveDiscardError is fatal to one operation: too many trials failed
// for the sample set to be trusted.
type ExcessiveDiscardError struct {
	OperationError
	Discarded int
	Total     int
	Threshold float64
}

func NewExcessiveDiscard(module, op string, discarded, total int, threshold float64) *ExcessiveDiscardError {
	return &ExcessiveDiscardError{
		OperationError: OperationError{
			Module:    module,
			Operation: op,
			Message:   fmt.Sprintf("discard rate %d/%d exceeds threshold %.2f", discarded, total, threshold),
		},
		Discarded: discarded,
		Total:     total,
		Threshold: threshold,
	}
}

// EmptySampleSetError is fatal to one operation: collection produced no
// usable samples at all.
type EmptySampleSetError struct {
	OperationError
}

func NewEmptySampleSet(module, op string) *EmptySampleSetError {
	return &EmptySampleSetError{
		OperationError: OperationError{
			Module:    module,
			Operation: op,
			Message:   "no usable samples collected",
		},
	}
}

// UnderdeterminedModelError is fatal to one operation: the sample set has
// fewer distinct assignments than the model has free parameters.
type UnderdeterminedModelError struct {
	OperationError
	Metric     string
	DataPoints int
	Parameters int
}

func NewUnderdeterminedModel(module, op, metric string, points, params int) *UnderdeterminedModelError {
	return &UnderdeterminedModelError{
		OperationError: OperationError{
			Module:    module,
			Operation: op,
			Message:   fmt.Sprintf("metric %s: %d data points for %d free parameters", metric, points, params),
		},
		Metric:     metric,
		DataPoints: points,
		Parameters: params,
	}
}

// RenderingError is fatal to the whole run: an operation result is missing
// required fields for its declared metrics.
type RenderingError struct {
	Module    string
	Operation string
	Message   string
}

func (e *RenderingError) Error() string {
	return fmt.Sprintf("rendering %s.%s: %s", e.Module, e.Operation, e.Message)
}

func NewRendering(module, op, message string) *RenderingError {
	return &RenderingError{Module: module, Operation: op, Message: message}
}
