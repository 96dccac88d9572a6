package errors

import "errors"

// Process exit codes used by the command line front end.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitStorage    = 3
	ExitRegistry   = 4
	ExitIO         = 5
	ExitBadBuild   = 70
	ExitBadDecoder = 65
)

// ExitCode returns the process exit code for an error.
// It maps error codes to distinct non-zero values so scripts can tell the
// failing collaborator apart.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return codeToExit(customErr.Code())
	}

	return ExitFailure
}

// codeToExit maps error codes to process exit codes.
func codeToExit(code string) int {
	switch code {
	case CodeOK:
		return ExitOK
	case CodeValidation:
		return ExitUsage
	case CodeDecoding:
		return ExitBadDecoder
	case CodeInterface:
		return ExitBadBuild
	case CodeStorage:
		return ExitStorage
	case CodeRegistry:
		return ExitRegistry
	case CodeIO:
		return ExitIO
	default:
		return ExitFailure
	}
}
