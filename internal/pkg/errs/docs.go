// Package errs provides standardized error types for the marketplace core.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Each error type follows the same shape:
//   - A sentinel error variable (e.g. ErrInvalidTransition)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() for errors.Is classification
//
// The taxonomy mirrors how callers must react:
//   - InvalidTransitionError: the entity is in the wrong state (recoverable)
//   - PreconditionFailedError: the input violates a domain rule (recoverable)
//   - ObjectNotFoundError: a referenced entity does not exist
//   - ValueIsInvalid/OutOfRange/Required: malformed construction input
//
// Anything not expressed through these types (storage failures, transaction
// aborts) propagates raw and is treated as fatal to the request.
package errs
