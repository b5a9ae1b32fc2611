// ABOUTME: Managed object status bitmask
// ABOUTME: Round-trips the created/modified/deleted wire strings

package mo

import "strings"

// Status is the lifecycle bitmask of a managed object.
type Status int

// Status bits.
const (
	StatusDefault  Status = 0
	StatusCreated  Status = 2
	StatusModified Status = 4
	StatusDeleted  Status = 8
)

// ParseStatus parses a wire status string such as "created,modified" or
// "deleted". Unknown codes are ignored; an empty string yields the default
// status.
func ParseStatus(statusStr string) Status {
	var s Status
	for _, code := range strings.Split(statusStr, ",") {
		switch strings.TrimSpace(code) {
		case "created":
			s.On(StatusCreated)
		case "modified":
			s.On(StatusModified)
		case "deleted":
			s.On(StatusDeleted)
		}
	}
	return s
}

// On turns a status bit on.
func (s *Status) On(bit Status) {
	*s |= bit
}

// Off turns a status bit off.
func (s *Status) Off(bit Status) {
	*s &^= bit
}

// Clear resets the status to the default.
func (s *Status) Clear() {
	*s = StatusDefault
}

// Created reports whether the created bit is set.
func (s Status) Created() bool {
	return s&StatusCreated != 0
}

// Modified reports whether the modified bit is set.
func (s Status) Modified() bool {
	return s&StatusModified != 0
}

// Deleted reports whether the deleted bit is set.
func (s Status) Deleted() bool {
	return s&StatusDeleted != 0
}

// String returns the wire form. A deleted status renders as "deleted"
// regardless of other bits.
func (s Status) String() string {
	if s.Deleted() {
		return "deleted"
	}
	var parts []string
	if s.Created() {
		parts = append(parts, "created")
	}
	if s.Modified() {
		parts = append(parts, "modified")
	}
	return strings.Join(parts, ",")
}
