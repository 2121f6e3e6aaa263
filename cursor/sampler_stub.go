//go:build !windows

package cursor

import "image"

// Non-Windows builds run headless; the tracker still loops so session
// semantics stay identical, it just samples a fixed origin.
func systemCursorPos() image.Point { return image.Point{} }
