package utils

import "strings"

// ExportName converts a snake_case identifier to an exported Go name:
// "rotate_epoch" -> "RotateEpoch".
func ExportName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// RemoveEmptyStrings drops empty entries from a slice.
func RemoveEmptyStrings(slice []string) []string {
	var result []string

	for _, s := range slice {
		if s != "" {
			result = append(result, s)
		}
	}

	return result
}
