// FILE: timezone.go
// Package main – Timezone helpers for schedule and message timestamps.

package main

import "time"

// timestampString renders the current time in loc the way notification
// messages expect it: "11.01.2026 10:51:06 CET".
func timestampString(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format("02.01.2006 15:04:05 MST")
}
