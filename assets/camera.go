// Package assets holds the pages embedded into the binary and served
// through the benchview:// asset scheme.
package assets

import "embed"

// Camera contains the built-in camera feed page. The page does its own
// device enumeration and getUserMedia handling; the shell only loads
// benchview://camera/index.html into the feed view.
//
//go:embed camera/*
var Camera embed.FS
