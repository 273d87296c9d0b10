// Package source selects the JSON token driver used by textual archives.
package source

import (
	"io"

	eng "github.com/reoring/verskema/internal/engine"
	drvgojson "github.com/reoring/verskema/source/gojson"
	drvjson "github.com/reoring/verskema/source/json"
)

// Driver converts JSON input into a token source.
type Driver interface {
	NewReader(r io.Reader) eng.TokenSource
	Name() string
}

// Default returns the go-json driver.
func Default() Driver { return drvgojson.Driver() }

// Stdlib returns the encoding/json driver.
func Stdlib() Driver { return drvjson.Driver() }

// ByName returns the driver registered under name ("go-json" or "encoding/json").
func ByName(name string) (Driver, bool) {
	switch name {
	case "", "go-json", "gojson":
		return Default(), true
	case "encoding/json", "stdlib":
		return Stdlib(), true
	}
	return nil, false
}
