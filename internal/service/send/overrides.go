package send

// MergeOverrides layers provider-scoped overrides over channel-scoped ones:
// on key collision the provider value wins.
func MergeOverrides(channelScoped, providerScoped map[string]any) map[string]any {
	merged := make(map[string]any, len(channelScoped)+len(providerScoped))

	for k, v := range channelScoped {
		merged[k] = v
	}
	for k, v := range providerScoped {
		merged[k] = v
	}

	return merged
}

// Recipients merges the base recipient with override-supplied ones,
// preserving first-seen order and dropping duplicates.
func Recipients(base string, overrides map[string]any) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(addr string) {
		if addr == "" {
			return
		}
		if _, ok := seen[addr]; ok {
			return
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}

	add(base)
	for _, addr := range stringSlice(overrides, "to") {
		add(addr)
	}

	return out
}

func stringValue(m map[string]any, key string) string {
	if m == nil {
		return ""
	}

	s, _ := m[key].(string)

	return s
}

func stringSlice(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}

	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func mapValue(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}

	v, _ := m[key].(map[string]any)

	return v
}
