package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/DeBrosOfficial/cidreg/pkg/errors"
	"github.com/DeBrosOfficial/cidreg/pkg/hexaddr"
)

// Validate performs validation of the entire config.
// It aggregates all errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateRegistry()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error
	sc := c.Storage

	if err := validateURL(sc.APIURL, "http", "https"); err != nil {
		errs = append(errs, errors.NewValidationError("storage.api_url", err.Error(), sc.APIURL))
	}
	if sc.Timeout < 0 {
		errs = append(errs, errors.NewValidationError("storage.timeout", "must be >= 0 (0 disables the timeout)", sc.Timeout))
	}

	return errs
}

func (c *Config) validateRegistry() []error {
	var errs []error
	rc := c.Registry

	if err := validateRPCEndpoint(rc.RPCURL); err != nil {
		errs = append(errs, errors.NewValidationError("registry.rpc_url", err.Error(), rc.RPCURL))
	}

	if _, err := hexaddr.ParseAddress(rc.Contract); err != nil {
		errs = append(errs, errors.NewValidationError("registry.contract", "must be a 20-byte hex address", rc.Contract))
	}

	// Account may be supplied on the command line instead.
	if rc.Account != "" {
		if _, err := hexaddr.ParseAddress(rc.Account); err != nil {
			errs = append(errs, errors.NewValidationError("registry.account", "must be a 20-byte hex address", rc.Account))
		}
	}

	if rc.WaitReceipt && rc.ReceiptPollInterval <= 0 {
		errs = append(errs, errors.NewValidationError("registry.receipt_poll_interval", "must be positive when wait_receipt is set", rc.ReceiptPollInterval))
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error
	lc := c.Logging

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[lc.Level] {
		errs = append(errs, errors.NewValidationError("logging.level",
			fmt.Sprintf("invalid value %q; allowed values: debug, info, warn, error", lc.Level), lc.Level))
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[lc.Format] {
		errs = append(errs, errors.NewValidationError("logging.format",
			fmt.Sprintf("invalid value %q; allowed values: json, console", lc.Format), lc.Format))
	}

	if lc.OutputFile != "" {
		dir := filepath.Dir(lc.OutputFile)
		if dir != "" && dir != "." {
			if err := validateDirWritable(dir); err != nil {
				errs = append(errs, errors.NewValidationError("logging.output_file",
					fmt.Sprintf("parent directory not writable: %v", err), lc.OutputFile))
			}
		}
	}

	return errs
}

func validateURL(raw string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Host == "" {
				return fmt.Errorf("missing host")
			}
			return nil
		}
	}
	return fmt.Errorf("unsupported scheme %q; expected one of %v", u.Scheme, schemes)
}

// validateRPCEndpoint accepts an http(s) or ws(s) URL, or an absolute path to
// a node's IPC socket.
func validateRPCEndpoint(raw string) error {
	if filepath.IsAbs(raw) {
		return nil
	}
	return validateURL(raw, "http", "https", "ws", "wss")
}

// validateDirWritable validates that a directory exists and is writable.
func validateDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access directory: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}

	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte(""), 0644); err != nil {
		return fmt.Errorf("directory not writable: %v", err)
	}
	os.Remove(testFile)

	return nil
}
