package protocol

// Intersect returns the entries of supported whose names case-insensitively
// match a member of desired, preserving the order and spelling of
// supported. Different TLS stacks capitalize protocol names inconsistently,
// which is why matching ignores case.
//
// Callers must special-case an empty desired set before calling: empty
// means "do not restrict" and there is nothing to intersect. When desired
// is non-empty but shares no member with supported, Intersect returns a
// *UnavailableError carrying both lists verbatim.
func Intersect(desired Set, supported []string) ([]string, error) {
	want := make(map[string]struct{}, desired.Len())
	for _, name := range desired.values {
		want[lower(name)] = struct{}{}
	}

	enabled := make([]string, 0, len(supported))
	for _, name := range supported {
		if _, ok := want[lower(name)]; ok {
			enabled = append(enabled, name)
		}
	}

	if len(enabled) == 0 {
		supportedCopy := make([]string, len(supported))
		copy(supportedCopy, supported)
		return nil, &UnavailableError{
			Desired:   desired.Values(),
			Supported: supportedCopy,
		}
	}
	return enabled, nil
}
