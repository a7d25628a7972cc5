package lorc

import "errors"

// Sentinel errors returned by lorc operations.
//
// Callers should use [errors.Is] to classify errors rather than comparing
// error strings.
var (
	// ErrCorruptInternalKey indicates an internal key could not be decoded
	// because it is shorter than the 8-byte sequence/type trailer.
	ErrCorruptInternalKey = errors.New("lorc: corrupt internal key")

	// ErrOrderViolation indicates a caller emplaced a non-ascending or
	// duplicate user key into a [ReferringRange].
	ErrOrderViolation = errors.New("lorc: order violation")

	// ErrOutOfRange names the condition of an update whose user key lies
	// outside the physical range's [start, end] span. Update reports it as
	// [UpdateResultOutOfRange]; no lorc operation returns this error.
	ErrOutOfRange = errors.New("lorc: out of range")

	// ErrUnableToInsert names the continuous layout's refusal of a random
	// insertion. Update reports it as [UpdateResultUnableToInsert]; no lorc
	// operation returns this error.
	ErrUnableToInsert = errors.New("lorc: unable to insert")

	// ErrEmpty indicates a factory call produced a zero-length range.
	ErrEmpty = errors.New("lorc: empty range")

	// ErrInvariantViolation indicates an internal logic error: a logical
	// range view that would become unordered or overlapping, or an evicted
	// physical range that no logical range covers. It is never expected in
	// correct operation and is fatal: the [Cache] logs it through its
	// [Logger] and panics.
	ErrInvariantViolation = errors.New("lorc: invariant violation")

	// ErrClosed indicates the cache has already been closed.
	ErrClosed = errors.New("lorc: closed")

	// ErrInvalidInput indicates invalid arguments were provided (e.g. an
	// unknown [Layout]).
	ErrInvalidInput = errors.New("lorc: invalid input")
)
