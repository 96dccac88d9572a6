package errors

import "errors"

// IsDecoding checks if an error is a decoding error.
func IsDecoding(err error) bool {
	if err == nil {
		return false
	}

	var decodingErr *DecodingError
	return errors.As(err, &decodingErr)
}

// IsInterface checks if an error is a contract interface error.
func IsInterface(err error) bool {
	if err == nil {
		return false
	}

	var interfaceErr *InterfaceError
	return errors.As(err, &interfaceErr)
}

// IsStorage checks if an error originates from the storage network.
func IsStorage(err error) bool {
	if err == nil {
		return false
	}

	var storageErr *StorageError
	return errors.As(err, &storageErr)
}

// IsRegistry checks if an error originates from the registry contract.
func IsRegistry(err error) bool {
	if err == nil {
		return false
	}

	var registryErr *RegistryError
	return errors.As(err, &registryErr)
}

// IsIO checks if an error is a local filesystem error.
func IsIO(err error) bool {
	if err == nil {
		return false
	}

	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsNotFound checks if an error indicates a missing object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Code()
	}

	return CodeInternal
}

// GetErrorMessage extracts a human-readable message from an error.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Message()
	}

	return err.Error()
}

// Cause returns the underlying cause of an error.
// It unwraps the error chain until it finds the root cause.
func Cause(err error) error {
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		underlying := unwrapper.Unwrap()
		if underlying == nil {
			return err
		}
		err = underlying
	}
}
