package metrics

import (
	"time"
)

// DefaultTimeout is the per-metric computation budget when no override is
// configured.
const DefaultTimeout = 30 * time.Second

// Registry is the immutable set of metrics available to the scheduler.
// It is constructed once at startup and safely shared without locking.
type Registry struct {
	descriptors []Descriptor
	functions   map[string]Function
}

// RegistryOptions control per-metric timeout budgets.
type RegistryOptions struct {
	// DefaultTimeout applies to metrics without an entry in Timeouts.
	// Zero means DefaultTimeout.
	DefaultTimeout time.Duration
	// Timeouts overrides the budget for individual metric keys.
	Timeouts map[string]time.Duration
}

// NewRegistry builds a registry from the given metric functions, in order.
// An empty function set or a duplicate key is a ConfigError.
func NewRegistry(opts RegistryOptions, fns ...Function) (*Registry, error) {
	if len(fns) == 0 {
		return nil, configErrorf("metric registry is empty")
	}

	def := opts.DefaultTimeout
	if def <= 0 {
		def = DefaultTimeout
	}

	r := &Registry{functions: make(map[string]Function, len(fns))}
	for _, fn := range fns {
		key := fn.Key()
		if _, dup := r.functions[key]; dup {
			return nil, configErrorf("duplicate metric key %q", key)
		}
		timeout := def
		if t, ok := opts.Timeouts[key]; ok && t > 0 {
			timeout = t
		}
		r.functions[key] = fn
		r.descriptors = append(r.descriptors, Descriptor{
			Key:     key,
			Name:    fn.Name(),
			Timeout: timeout,
		})
	}
	return r, nil
}

// Descriptors returns the registered metric descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Function returns the implementation for a metric key, or nil.
func (r *Registry) Function(key string) Function {
	return r.functions[key]
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int { return len(r.descriptors) }

// FailAll returns one failed Result per registered metric, all carrying the
// given reason. Used when the artifact itself could not be fetched: the
// record still lists every metric.
func (r *Registry) FailAll(reason, detail string) []Result {
	results := make([]Result, len(r.descriptors))
	for i, d := range r.descriptors {
		results[i] = Result{
			Key:    d.Key,
			Failed: true,
			Reason: reason,
			Detail: detail,
		}
	}
	return results
}
