package config

import (
	"github.com/DeBrosOfficial/cidreg/pkg/anchor"
	"github.com/DeBrosOfficial/cidreg/pkg/ipfs"
)

// IPFSConfig returns the storage client configuration.
func (c *Config) IPFSConfig() ipfs.Config {
	return ipfs.Config{
		APIURL:     c.Storage.APIURL,
		Timeout:    c.Storage.Timeout,
		DisablePin: !c.Storage.Pin,
	}
}

// PublishOptions returns the Publish options the config selects.
func (c *Config) PublishOptions() []anchor.PublishOption {
	var opts []anchor.PublishOption
	if c.Registry.WaitReceipt {
		opts = append(opts, anchor.WithReceiptWait())
	}
	return opts
}

// ResolveOptions returns the Resolve options the config selects.
func (c *Config) ResolveOptions() []anchor.ResolveOption {
	var opts []anchor.ResolveOption
	if c.Resolve.RemovePartial {
		opts = append(opts, anchor.WithRemovePartial())
	}
	return opts
}
