// Package logtail reads the tail of jokefinder's log file for the
// diagnostics view.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines, so it scans the file once and
// keeps O(maxLines) lines in memory regardless of file size:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line in file:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	   - Track total lines seen
//	3. If total < maxLines:
//	   - Return first 'count' entries from buffer
//	4. If total >= maxLines:
//	   - Return buffer starting from current index (oldest line)
//
// # Parsing
//
// The log file holds zerolog JSON lines. Parse splits one into time, level,
// message and the remaining fields rendered as sorted key=value pairs:
//
//	{"level":"warn","kind":"transport","time":"2026-10-19T10:00:00Z","message":"joke fetch failed"}
//	→ Entry{Level: "WARN", Message: "joke fetch failed", Fields: "kind=transport"}
//
// Lines that are not JSON are kept verbatim in Message.
//
// # Error Handling
//
// Read returns nil, nil for non-existent files. Other errors (permission
// denied, I/O errors) are returned wrapped. Parse never fails.
package logtail
