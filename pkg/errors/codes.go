package errors

// Error codes for categorizing errors.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeDecoding indicates malformed hexadecimal or address input.
	CodeDecoding = "DECODING_ERROR"

	// CodeInterface indicates the bundled contract interface is unusable.
	CodeInterface = "INTERFACE_ERROR"

	// CodeStorage indicates a storage network operation failed.
	CodeStorage = "STORAGE_ERROR"

	// CodeRegistry indicates a registry contract operation failed.
	CodeRegistry = "REGISTRY_ERROR"

	// CodeIO indicates a local filesystem operation failed.
	CodeIO = "IO_ERROR"

	// CodeValidation indicates configuration or input validation failed.
	CodeValidation = "VALIDATION_ERROR"

	// CodeInternal indicates internal errors.
	CodeInternal = "INTERNAL"
)

// ErrorCategory represents a high-level error category.
type ErrorCategory string

const (
	// CategoryInput indicates the caller supplied something unusable.
	CategoryInput ErrorCategory = "INPUT_ERROR"

	// CategoryRemote indicates a collaborator (storage node or chain) failed.
	CategoryRemote ErrorCategory = "REMOTE_ERROR"

	// CategoryLocal indicates a failure on this machine.
	CategoryLocal ErrorCategory = "LOCAL_ERROR"

	// CategoryBuild indicates a defect in what was bundled at build time.
	CategoryBuild ErrorCategory = "BUILD_ERROR"
)

// GetCategory returns the category for an error code.
func GetCategory(code string) ErrorCategory {
	switch code {
	case CodeDecoding, CodeValidation:
		return CategoryInput
	case CodeStorage, CodeRegistry:
		return CategoryRemote
	case CodeInterface:
		return CategoryBuild
	default:
		return CategoryLocal
	}
}
