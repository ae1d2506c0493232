package database

import "sort"

// mergeOptions overlays overrides on defaults and returns key/value pairs sorted by key.
func mergeOptions(defaults, overrides map[string]string) [][2]string {
	merged := make(map[string]string, len(defaults)+len(overrides))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range overrides {
		merged[key] = value
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, [2]string{key, merged[key]})
	}
	return pairs
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func portOr(port, fallback int) int {
	if port == 0 {
		return fallback
	}
	return port
}
