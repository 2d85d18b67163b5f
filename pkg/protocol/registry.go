package protocol

import (
	"os"
	"sync"
	"sync/atomic"
)

// Environment variables read once, before discovery, to seed the registry.
const (
	// EnvDefaultProtocol holds a protocol name adopted verbatim as the
	// default protocol, bypassing discovery.
	EnvDefaultProtocol = "SECDIAL_DEFAULT_TLS_PROTOCOL"

	// EnvEnabledProtocols holds a comma or whitespace separated list of
	// protocol names that replaces the computed enabled set entirely.
	EnvEnabledProtocols = "SECDIAL_ENABLED_TLS_PROTOCOLS"
)

// FallbackProtocol is adopted as the default protocol when discovery cannot
// determine anything better.
const FallbackProtocol = TLSv1

// Probe reports the protocol names supported by the runtime's default
// secure context. A failing probe never fails discovery; it degrades to
// FallbackProtocol.
type Probe func() ([]string, error)

// Registry holds the default protocol and the enabled-protocol set for one
// process. Both values are stored as immutable snapshots: readers are
// lock-free and always observe either the old or the new value in full,
// and writers replace wholesale. Most code uses the package-level
// functions, which operate on a shared registry discovered on first use.
type Registry struct {
	defaultProtocol atomic.Pointer[string]
	enabled         atomic.Pointer[Set]
}

// NewRegistry creates a registry and runs discovery against the supplied
// probe, honoring the environment overrides described in the package
// documentation.
func NewRegistry(probe Probe) *Registry {
	return newRegistry(probe, os.Getenv)
}

// newRegistry allows tests to inject the environment.
func newRegistry(probe Probe, getenv func(string) string) *Registry {
	r := &Registry{}
	r.discover(probe, getenv)
	return r
}

// discover implements the discover-once algorithm: pick the default
// protocol, derive the enabled set from it, then apply overrides.
func (r *Registry) discover(probe Probe, getenv func(string) string) {
	def := FallbackProtocol
	if override := getenv(EnvDefaultProtocol); override != "" {
		def = override
	} else if probe != nil {
		// Best-effort probe of the runtime's default context. Errors are
		// deliberately discarded here: discovery must never fail the
		// process, it only degrades to the fallback.
		if supported, err := probe(); err == nil {
			have := make(map[string]struct{}, len(supported))
			for _, name := range supported {
				have[name] = struct{}{}
			}
			for _, candidate := range []string{TLSv1_2, TLSv1_1, TLSv1} {
				if _, ok := have[candidate]; ok {
					def = candidate
					break
				}
			}
		}
	}
	r.defaultProtocol.Store(&def)

	// TLSv1 is always enabled. Newer versions are added when the
	// discovered default indicates the runtime can negotiate them. SSLv3
	// is never auto-enabled, whatever the runtime reports, and TLSv1.3 is
	// enabled only through explicit configuration.
	names := []string{TLSv1}
	switch def {
	case TLSv1_2:
		names = append(names, TLSv1_1, TLSv1_2)
	case TLSv1_1:
		names = append(names, TLSv1_1)
	}
	enabled := NewSet(names...)

	if override := getenv(EnvEnabledProtocols); override != "" {
		// The override replaces the computed set, it does not extend it.
		enabled = ParseList(override)
	}
	r.enabled.Store(&enabled)
}

// DefaultProtocol returns the protocol used by context-creation calls that
// do not request an explicit protocol.
func (r *Registry) DefaultProtocol() string {
	return *r.defaultProtocol.Load()
}

// SetDefaultProtocol replaces the default protocol. The empty string is
// rejected with ErrEmptyDefaultProtocol and leaves the registry unchanged.
func (r *Registry) SetDefaultProtocol(name string) error {
	if name == "" {
		return ErrEmptyDefaultProtocol
	}
	r.defaultProtocol.Store(&name)
	return nil
}

// EnabledProtocols returns the current enabled-protocol set.
func (r *Registry) EnabledProtocols() Set {
	return *r.enabled.Load()
}

// SetEnabledProtocols replaces the enabled-protocol set wholesale. A nil or
// empty collection clears the set, meaning no restriction is imposed and
// sockets keep their runtime-default enabled protocols.
func (r *Registry) SetEnabledProtocols(names []string) {
	enabled := NewSet(names...)
	r.enabled.Store(&enabled)
}

var sharedRegistry = sync.OnceValue(func() *Registry {
	return NewRegistry(func() ([]string, error) {
		return SupportedProtocols(), nil
	})
})

// SharedRegistry returns the process-wide registry, running discovery on
// first use.
func SharedRegistry() *Registry { return sharedRegistry() }

// DefaultProtocol returns the process-wide default protocol.
func DefaultProtocol() string { return SharedRegistry().DefaultProtocol() }

// SetDefaultProtocol replaces the process-wide default protocol.
func SetDefaultProtocol(name string) error {
	return SharedRegistry().SetDefaultProtocol(name)
}

// EnabledProtocols returns the process-wide enabled-protocol set.
func EnabledProtocols() Set { return SharedRegistry().EnabledProtocols() }

// SetEnabledProtocols replaces the process-wide enabled-protocol set.
func SetEnabledProtocols(names []string) {
	SharedRegistry().SetEnabledProtocols(names)
}
