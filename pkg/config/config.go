package config

import (
	"time"
)

// Config is the cidreg configuration file.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Registry RegistryConfig `yaml:"registry"`
	Resolve  ResolveConfig  `yaml:"resolve"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig contains IPFS node configuration
type StorageConfig struct {
	// APIURL is the Kubo RPC API URL (e.g., "http://localhost:5001")
	APIURL string `yaml:"api_url"`

	// Timeout for each IPFS request including the response body.
	// Zero means no timeout; large downloads need that.
	Timeout time.Duration `yaml:"timeout"`

	// Pin added content on the node
	Pin bool `yaml:"pin"`
}

// RegistryConfig contains the Ethereum node and contract configuration
type RegistryConfig struct {
	RPCURL   string `yaml:"rpc_url"`
	Contract string `yaml:"contract"` // hex address, 0x prefix optional
	Account  string `yaml:"account"`  // sender of set transactions

	// WaitReceipt makes publish wait for the set transaction to be mined
	WaitReceipt         bool          `yaml:"wait_receipt"`
	ReceiptPollInterval time.Duration `yaml:"receipt_poll_interval"`
}

// ResolveConfig contains download behavior
type ResolveConfig struct {
	// RemovePartial deletes the output file when a download fails midway
	RemovePartial bool `yaml:"remove_partial"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // json, console
	OutputFile string `yaml:"output_file"` // Empty for stderr
}

// Default endpoints and contract address.
const (
	DefaultIPFSAPIURL = "http://localhost:5001"
	DefaultRPCURL     = "http://localhost:8545"
	DefaultContract   = "eaff8422d499714ffe4382f681c9087dde36d414"
)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			APIURL: DefaultIPFSAPIURL,
			Pin:    true,
		},
		Registry: RegistryConfig{
			RPCURL:              DefaultRPCURL,
			Contract:            DefaultContract,
			ReceiptPollInterval: time.Second,
		},
		Logging: LoggingConfig{
			Level:  "error",
			Format: "console",
		},
	}
}
