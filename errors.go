package depot

import (
	"fmt"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeLoadService is carried by every error returned from Get and GetNew.
	CodeLoadService = "LOAD_SERVICE"

	// CodeServiceNotFound indicates a name has no configuration and cannot be autoloaded
	CodeServiceNotFound = "SERVICE_NOT_FOUND"

	// CodeWrongConfiguration indicates a malformed service definition or parameter
	CodeWrongConfiguration = "WRONG_CONFIGURATION"

	// CodeAutowireFailed indicates a constructor parameter could not be derived
	CodeAutowireFailed = "AUTOWIRE_FAILED"

	// CodeInvalidParameters indicates arguments did not satisfy a constructor or factory
	CodeInvalidParameters = "INVALID_PARAMETERS"

	// CodeCircularDependency indicates a circular dependency was detected
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"

	// CodeTypeMismatch indicates a type mismatch in a typed helper
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeInvalidType indicates a constructor was rejected by the type table
	CodeInvalidType = "INVALID_TYPE"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrLoadServiceSentinel matches any resolution failure.
var ErrLoadServiceSentinel = errs.NewError(CodeLoadService, "load service", nil)

// ErrServiceNotFoundSentinel is a sentinel error for unknown services (for error checking).
var ErrServiceNotFoundSentinel = errs.NewError(CodeServiceNotFound, "service not found", nil)

// ErrWrongConfigurationSentinel is a sentinel error for malformed definitions.
var ErrWrongConfigurationSentinel = errs.NewError(CodeWrongConfiguration, "wrong configuration", nil)

// ErrAutowireSentinel is a sentinel error for autowiring failures.
var ErrAutowireSentinel = errs.NewError(CodeAutowireFailed, "autowire failed", nil)

// ErrInvalidParametersSentinel is a sentinel error for argument mismatches.
var ErrInvalidParametersSentinel = errs.NewError(CodeInvalidParameters, "invalid parameters", nil)

// ErrCircularDependencySentinel is a sentinel error for circular dependency (for error checking).
var ErrCircularDependencySentinel = errs.NewError(CodeCircularDependency, "circular dependency", nil)

// ErrTypeMismatchSentinel is a sentinel error for type mismatch in typed helpers.
var ErrTypeMismatchSentinel = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// ErrInvalidTypeSentinel is a sentinel error for rejected type registrations.
var ErrInvalidTypeSentinel = errs.NewError(CodeInvalidType, "invalid type", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrLoadService creates the umbrella error naming the service being resolved.
func ErrLoadService(serviceName, message string, cause error) *errs.Error {
	e := errs.NewError(CodeLoadService, message, cause)
	e.WithContext("service", serviceName)

	return e
}

// ErrServiceNotFound creates an error for when a service is unknown
func ErrServiceNotFound(serviceName string) *errs.Error {
	e := errs.NewError(
		CodeServiceNotFound,
		fmt.Sprintf("unknown service %q", serviceName),
		nil,
	)
	e.WithContext("service", serviceName)

	return e
}

// ErrWrongConfiguration creates an error for a malformed definition.
func ErrWrongConfiguration(message string) *errs.Error {
	return errs.NewError(CodeWrongConfiguration, message, nil)
}

// ErrAutowire creates an error for a required constructor parameter that
// has no class type.
func ErrAutowire(className, param string) *errs.Error {
	e := errs.NewError(
		CodeAutowireFailed,
		fmt.Sprintf("constructor parameter %q of %q has no class type", param, className),
		nil,
	)
	e.WithContext("class", className)
	e.WithContext("parameter", param)

	return e
}

// ErrInvalidParameters creates an error for arguments that do not fit a call.
func ErrInvalidParameters(message string) *errs.Error {
	return errs.NewError(CodeInvalidParameters, message, nil)
}

// ErrCircularDependency creates an error for circular dependency detection
func ErrCircularDependency(cycle []string) *errs.Error {
	e := errs.NewError(
		CodeCircularDependency,
		"circular dependency detected: "+strings.Join(cycle, " -> "),
		nil,
	)
	e.WithContext("cycle", cycle)

	return e
}

// ErrTypeMismatch creates an error for type mismatch during resolution
func ErrTypeMismatch(serviceName string, expected, actual any) *errs.Error {
	e := errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("service %q type mismatch: expected %T, got %T", serviceName, expected, actual),
		nil,
	)
	e.WithContext("service", serviceName)
	e.WithContext("actual_type", fmt.Sprintf("%T", actual))

	return e
}

// ErrInvalidType creates an error for a rejected type table registration.
func ErrInvalidType(message string) *errs.Error {
	return errs.NewError(CodeInvalidType, message, nil)
}

// hasCode reports whether err itself (not its causes) carries code.
func hasCode(err error, code string) bool {
	e, ok := err.(*errs.Error)

	return ok && e.Code == code
}
