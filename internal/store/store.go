// Package store persists the raw and clean datasets as whole-file CSV
// snapshots. The raw snapshot is appended page batch by page batch during a
// run; the clean snapshot is only ever replaced atomically, so readers never
// observe a partially written file.
package store

import (
	"strconv"
)

func optString(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}

func optFloat(value string) *float64 {
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}

	return &parsed
}

func fromOptString(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}

func fromOptFloat(value *float64) string {
	if value == nil {
		return ""
	}

	return strconv.FormatFloat(*value, 'f', -1, 64)
}
