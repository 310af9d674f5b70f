// Package web embeds the single-page game client.
package web

import _ "embed"

//go:embed index.html
var index []byte

// Index returns the game page markup.
func Index() []byte {
	return index
}
