package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/DeBrosOfficial/cidreg/pkg/errors"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "CIDREG_"

// Load reads the YAML file at path over the defaults. A missing file is not
// an error when optional is true.
func Load(path string, optional bool) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if optional && stderrors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, errors.NewIOError(path, err)
	}
	defer f.Close()

	if err := DecodeStrict(f, cfg); err != nil {
		return nil, errors.NewValidationError(path, err.Error(), nil)
	}
	return cfg, nil
}

// LoadEnv overrides fields from CIDREG_* variables. Variables in envFile are
// used when the process environment does not set them; a missing envFile is
// ignored.
func (c *Config) LoadEnv(envFile string) error {
	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case stderrors.Is(err, fs.ErrNotExist):
		default:
			return errors.NewValidationError(envFile, fmt.Sprintf("cannot parse env file: %v", err), nil)
		}
	}

	lookup := func(name string) (string, bool) {
		name = EnvPrefix + name
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
		v, ok := dotenv[name]
		return v, ok
	}

	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, errors.NewValidationError(EnvPrefix+name, "must be a boolean", v))
				return
			}
			*dst = b
		}
	}
	duration := func(name string, dst *time.Duration) {
		if v, ok := lookup(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, errors.NewValidationError(EnvPrefix+name, "must be a duration such as 30s", v))
				return
			}
			*dst = d
		}
	}

	str("IPFS_NODE", &c.Storage.APIURL)
	duration("IPFS_TIMEOUT", &c.Storage.Timeout)
	boolean("IPFS_PIN", &c.Storage.Pin)
	str("ETH_NODE", &c.Registry.RPCURL)
	str("CONTRACT", &c.Registry.Contract)
	str("ACCOUNT", &c.Registry.Account)
	boolean("WAIT_RECEIPT", &c.Registry.WaitReceipt)
	duration("RECEIPT_POLL_INTERVAL", &c.Registry.ReceiptPollInterval)
	boolean("REMOVE_PARTIAL", &c.Resolve.RemovePartial)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("LOG_FILE", &c.Logging.OutputFile)

	return stderrors.Join(errs...)
}
