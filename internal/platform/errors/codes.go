// Package errors provides structured planner errors with localized user messages.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Act catalog errors
	CodeActDuplicateOrdinal   Code = "ACT_DUPLICATE_ORDINAL"
	CodeActOrdinalOutOfRange  Code = "ACT_ORDINAL_OUT_OF_RANGE"
	CodeActInvalidFightType   Code = "ACT_INVALID_FIGHT_TYPE"
	CodeActNotFound           Code = "ACT_NOT_FOUND"
	CodeModeNotFound          Code = "MODE_NOT_FOUND"
	CodeModeInvalidCharacters Code = "MODE_INVALID_CHARACTER_BOUNDS"
	CodeNameEmpty             Code = "NAME_EMPTY"

	// Season errors
	CodeSeasonElementLimit Code = "SEASON_ELEMENT_LIMIT"
	CodeSeasonOpeningLimit Code = "SEASON_OPENING_LIMIT"
	CodeSeasonGuestLimit   Code = "SEASON_GUEST_LIMIT"

	// Structure errors
	CodeInvalidTopology    Code = "INVALID_TOPOLOGY"
	CodeVariationNotFound  Code = "VARIATION_NOT_FOUND"
	CodeWaveNotFound       Code = "WAVE_NOT_FOUND"
	CodeVariationNotForAct Code = "VARIATION_NOT_FOR_ACT"

	// Task tracker errors
	CodeRegionNotFound   Code = "REGION_NOT_FOUND"
	CodeTaskNotFound     Code = "TASK_NOT_FOUND"
	CodeTaskPartNotFound Code = "TASK_PART_NOT_FOUND"

	// Access errors
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodePermissionDenied Code = "PERMISSION_DENIED"

	// Storage errors
	CodeNotFound       Code = "NOT_FOUND"
	CodeInvalidFilter  Code = "INVALID_FILTER"
	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeStorageFailure Code = "STORAGE_FAILURE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures
	case CodeActOrdinalOutOfRange,
		CodeActInvalidFightType,
		CodeModeInvalidCharacters,
		CodeNameEmpty,
		CodeSeasonElementLimit,
		CodeSeasonOpeningLimit,
		CodeSeasonGuestLimit,
		CodeInvalidTopology,
		CodeVariationNotForAct,
		CodeInvalidFilter,
		CodeInvalidRequest:
		return http.StatusBadRequest

	// Conflict - unique ordinal constraint
	case CodeActDuplicateOrdinal:
		return http.StatusConflict

	case CodeNotFound,
		CodeActNotFound,
		CodeModeNotFound,
		CodeVariationNotFound,
		CodeWaveNotFound,
		CodeRegionNotFound,
		CodeTaskNotFound,
		CodeTaskPartNotFound:
		return http.StatusNotFound

	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}
