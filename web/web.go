// Package web embeds the server-rendered views.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
