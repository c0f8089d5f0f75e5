package conductor

type acquireOptions struct {
	shared  bool
	purpose string
	retry   bool
}

type AcquireOption func(*acquireOptions)

// Shared acquires a read-only task. Shared tasks never block and cannot process events.
func Shared() AcquireOption {
	return func(o *acquireOptions) {
		o.shared = true
	}
}

// WithPurpose names the holder of the lock. It shows up in logs and lock errors.
func WithPurpose(purpose string) AcquireOption {
	return func(o *acquireOptions) {
		o.purpose = purpose
	}
}

// WithoutRetry fails immediately when the node is already locked.
func WithoutRetry() AcquireOption {
	return func(o *acquireOptions) {
		o.retry = false
	}
}
