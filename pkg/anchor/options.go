package anchor

import "go.uber.org/zap"

// DefaultChunkSize is the read buffer Resolve streams objects through.
const DefaultChunkSize = 32 << 10

type publishOptions struct {
	logger      *zap.Logger
	waitReceipt bool
}

// PublishOption customizes Publish.
type PublishOption func(*publishOptions)

// WithPublishLogger sets the logger Publish reports progress to.
func WithPublishLogger(logger *zap.Logger) PublishOption {
	return func(o *publishOptions) { o.logger = logger }
}

// WithReceiptWait makes Publish wait until the registry transaction is mined
// and fail if it reverted. The registry must implement ReceiptWaiter.
func WithReceiptWait() PublishOption {
	return func(o *publishOptions) { o.waitReceipt = true }
}

func newPublishOptions(opts []PublishOption) publishOptions {
	o := publishOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

type resolveOptions struct {
	logger        *zap.Logger
	removePartial bool
	chunkSize     int
}

// ResolveOption customizes Resolve.
type ResolveOption func(*resolveOptions)

// WithResolveLogger sets the logger Resolve reports progress to.
func WithResolveLogger(logger *zap.Logger) ResolveOption {
	return func(o *resolveOptions) { o.logger = logger }
}

// WithRemovePartial deletes the destination file when streaming fails after
// it was created. Without it the partially written file is left in place.
func WithRemovePartial() ResolveOption {
	return func(o *resolveOptions) { o.removePartial = true }
}

// WithChunkSize sets the size of the buffer each object chunk is read into.
func WithChunkSize(n int) ResolveOption {
	return func(o *resolveOptions) { o.chunkSize = n }
}

func newResolveOptions(opts []ResolveOption) resolveOptions {
	o := resolveOptions{logger: zap.NewNop(), chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.chunkSize <= 0 {
		o.chunkSize = DefaultChunkSize
	}
	return o
}
