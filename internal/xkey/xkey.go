package xkey

import (
	"path"
	"regexp"
	"strings"
)

// Prefix is the namespace under which all the blobs are stored.
const Prefix = "uploads"

var (
	unsafe     = regexp.MustCompile(`[^\w\-.]`)
	squeezable = regexp.MustCompile(`_+`)
)

// Sanitize makes the filename safe to be used inside a storage key.
func Sanitize(filename string) string {
	filename = unsafe.ReplaceAllString(filename, "_")
	filename = squeezable.ReplaceAllString(filename, "_")
	return strings.Trim(filename, "_")
}

// Craft builds the storage key for the given token and filename.
// The token namespaces the key so identically-named uploads never collide.
func Craft(token, filename string) string {
	return path.Join(Prefix, token+"_"+Sanitize(filename))
}
