// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"slices"
	"strings"
)

// ComposeEnv flattens the ambient process environment and any number of
// overlay maps into a single environment slice. Overlays apply in order,
// so a later map wins over an earlier one and every overlay wins over the
// ambient value for the same variable. Nil overlays are skipped.
func ComposeEnv(ambient []string, overlays ...map[string]string) []string {
	merged := envToMap(ambient)
	for _, overlay := range overlays {
		maps.Copy(merged, overlay)
	}
	return EnvToSlice(merged)
}

// EnvToSlice converts an environment map to the KEY=VALUE form expected by
// os/exec, sorted by key so the result is deterministic.
func EnvToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}

func envToMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, entry := range environ {
		sep := findEnvSeparator(entry)
		if sep < 0 {
			continue
		}
		m[entry[:sep]] = entry[sep+1:]
	}
	return m
}

// findEnvSeparator returns the index of the '=' separating key from value.
// Windows exposes entries whose name itself starts with '=' (for example
// "=C:=C:\\"), so a leading '=' is part of the key, not the separator.
func findEnvSeparator(entry string) int {
	if strings.HasPrefix(entry, "=") {
		i := strings.Index(entry[1:], "=")
		if i < 0 {
			return -1
		}
		return i + 1
	}
	return strings.Index(entry, "=")
}
