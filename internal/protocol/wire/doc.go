// Package wire classifies raw chat lines by their structural markers and
// handles the CTCP ACTION frame that wraps /me lines.
package wire
