package hbench

import "errors"

// isValidation reports whether err is (or wraps) a ValidationError.
func isValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// isComputation reports whether err is (or wraps) a ComputationError.
func isComputation(err error) bool {
	var ce *ComputationError
	return errors.As(err, &ce)
}
