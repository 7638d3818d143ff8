// Package errors provides structured error handling for the cryptos core.
// It defines sentinel errors, exit codes, and helpers for adding context,
// details, and suggestions to errors returned from any layer of the library.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes for CLI entry points, per the core's error handling design.
const (
	ExitSuccess   = 0 // Successful execution
	ExitGeneral   = 1 // General/unknown error
	ExitInput     = 2 // Malformed input (bad varint, invalid SEC, non-canonical DER, ...)
	ExitCrypto    = 3 // Signature invalid, checksum mismatch, PoW exceeded
	ExitProtocol  = 4 // Unexpected P2P message, handshake failure
	ExitIO        = 5 // Socket closed, read timeout, file read failure
	ExitInvariant = 6 // Precondition violated inside the core
)

// Kind classifies an error into one of the core's error categories.
type Kind string

// Error kinds, per §7 of the specification.
const (
	KindParse     Kind = "PARSE"
	KindCrypto    Kind = "CRYPTO"
	KindProtocol  Kind = "PROTOCOL"
	KindIO        Kind = "IO"
	KindInvariant Kind = "INVARIANT"
	KindGeneral   Kind = "GENERAL"
)

// exitCodeForKind maps an error Kind to its CLI exit code.
var exitCodeForKind = map[Kind]int{
	KindParse:     ExitInput,
	KindCrypto:    ExitCrypto,
	KindProtocol:  ExitProtocol,
	KindIO:        ExitIO,
	KindInvariant: ExitInvariant,
	KindGeneral:   ExitGeneral,
}

// CoreError is the structured error type for the cryptos core.
type CoreError struct {
	Kind       Kind              // Machine-readable error category
	Code       string            // Machine-readable error code, unique within Kind
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for the caller
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *CoreError) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap enables errors.Is/errors.As to traverse Cause.
func (e *CoreError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for CoreError by comparing Code.
func (e *CoreError) Is(target error) bool {
	var t *CoreError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func newSentinel(kind Kind, code, message string) *CoreError {
	return &CoreError{
		Kind:     kind,
		Code:     code,
		Message:  message,
		ExitCode: exitCodeForKind[kind],
	}
}

// Sentinel errors, one family per §7 Kind.
var (
	// Parse errors: malformed bytes.
	ErrBadVarint       = newSentinel(KindParse, "BAD_VARINT", "malformed varint")
	ErrTruncated       = newSentinel(KindParse, "TRUNCATED", "truncated message")
	ErrInvalidSEC      = newSentinel(KindParse, "INVALID_SEC", "invalid SEC public key encoding")
	ErrNonCanonicalDER = newSentinel(KindParse, "NON_CANONICAL_DER", "non-canonical DER signature")
	ErrPointNotOnCurve = newSentinel(KindParse, "POINT_NOT_ON_CURVE", "point is not on the curve")
	ErrInvalidBase58   = newSentinel(KindParse, "INVALID_BASE58", "invalid Base58 encoding")
	ErrInvalidScript   = newSentinel(KindParse, "INVALID_SCRIPT", "malformed script encoding")
	ErrInvalidAddress  = newSentinel(KindParse, "INVALID_ADDRESS", "invalid address format")

	// Crypto errors: signature/checksum/PoW failures.
	ErrSignatureInvalid = newSentinel(KindCrypto, "SIGNATURE_INVALID", "ECDSA signature failed to verify")
	ErrChecksumMismatch = newSentinel(KindCrypto, "CHECKSUM_MISMATCH", "checksum mismatch")
	ErrPoWExceeded      = newSentinel(KindCrypto, "POW_EXCEEDED", "block id does not satisfy proof of work target")
	ErrBadSighashType   = newSentinel(KindCrypto, "BAD_SIGHASH_TYPE", "unsupported sighash type")

	// Protocol errors: unexpected P2P traffic.
	ErrUnexpectedMessage = newSentinel(KindProtocol, "UNEXPECTED_MESSAGE", "unexpected P2P message")
	ErrBadMagic          = newSentinel(KindProtocol, "BAD_MAGIC", "network magic mismatch")
	ErrHandshakeFailed   = newSentinel(KindProtocol, "HANDSHAKE_FAILED", "P2P version handshake failed")

	// Io errors.
	ErrConnClosed  = newSentinel(KindIO, "CONN_CLOSED", "connection closed")
	ErrReadTimeout = newSentinel(KindIO, "READ_TIMEOUT", "read timed out")
	ErrFileRead    = newSentinel(KindIO, "FILE_READ", "failed to read file")

	// Invariant errors: core precondition violations.
	ErrMixedPrime       = newSentinel(KindInvariant, "MIXED_PRIME", "field elements belong to different primes")
	ErrMixedCurve       = newSentinel(KindInvariant, "MIXED_CURVE", "points belong to different curves")
	ErrScalarOutOfRange = newSentinel(KindInvariant, "SCALAR_OUT_OF_RANGE", "scalar is outside [1, n-1]")
	ErrNotFound         = newSentinel(KindInvariant, "NOT_FOUND", "referenced transaction not found")

	// General.
	ErrGeneral      = newSentinel(KindGeneral, "GENERAL_ERROR", "an error occurred")
	ErrInvalidInput = newSentinel(KindParse, "INVALID_INPUT", "invalid input")
)

// New creates a new CoreError with the given kind, code, and message.
func New(kind Kind, code, message string) *CoreError {
	return &CoreError{
		Kind:     kind,
		Code:     code,
		Message:  message,
		ExitCode: exitCodeForKind[kind],
	}
}

// Wrap wraps an error with additional context, preserving its Kind/Code/ExitCode.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var ce *CoreError
	if errors.As(err, &ce) {
		return &CoreError{
			Kind:       ce.Kind,
			Code:       ce.Code,
			Message:    fmt.Sprintf("%s: %s", msg, ce.Message),
			Details:    ce.Details,
			Suggestion: ce.Suggestion,
			Cause:      err,
			ExitCode:   ce.ExitCode,
		}
	}

	return &CoreError{
		Kind:     KindGeneral,
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails attaches structured context to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var ce *CoreError
	if errors.As(err, &ce) {
		return &CoreError{
			Kind:       ce.Kind,
			Code:       ce.Code,
			Message:    ce.Message,
			Details:    details,
			Suggestion: ce.Suggestion,
			Cause:      ce.Cause,
			ExitCode:   ce.ExitCode,
		}
	}

	return &CoreError{
		Kind:     KindGeneral,
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion attaches an actionable suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var ce *CoreError
	if errors.As(err, &ce) {
		return &CoreError{
			Kind:       ce.Kind,
			Code:       ce.Code,
			Message:    ce.Message,
			Details:    ce.Details,
			Suggestion: suggestion,
			Cause:      ce.Cause,
			ExitCode:   ce.ExitCode,
		}
	}

	return &CoreError{
		Kind:       KindGeneral,
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the CLI exit code appropriate for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for err, or "GENERAL_ERROR" if err isn't a CoreError.
func Code(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
