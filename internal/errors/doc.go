// Package errors provides error handling conventions for qval.
//
// It re-exports the subset of [github.com/cockroachdb/errors] used across the
// module so that every package builds errors the same way, defines sentinel
// errors for common failure conditions, and carries the ExitError type that
// maps failures onto process exit codes.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, qerrors.ErrUnknownType) {
//	    // handle unknown semantic type
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//   - ExitInvalid (3): The data failed validation
//   - ExitFault (4): A validator raised an unexpected error
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports unwrapping via [Unwrap] and [As]:
//
//	err := qerrors.NewUserError(qerrors.ErrInvalidConfig, "Check your config file")
//	var exitErr *qerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
