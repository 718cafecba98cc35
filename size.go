/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strconv"
)

// humanReadableSize formats a byte count with SI prefixes, e.g. 1.5 kB.
func humanReadableSize(n int) string {
	if n < 1000 {
		return strconv.Itoa(n) + " B"
	}

	size := float64(n)
	for _, prefix := range "kMGTPE" {
		size /= 1000
		if size < 1000 || prefix == 'E' {
			return strconv.FormatFloat(size, 'f', 1, 64) + " " + string(prefix) + "B"
		}
	}

	return ""
}
