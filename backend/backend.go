// Package backend selects a physical archive encoding at runtime.
package backend

import (
	"fmt"
	"strings"

	verskema "github.com/reoring/verskema"
	"github.com/reoring/verskema/backend/binary"
	"github.com/reoring/verskema/backend/text"
	"github.com/reoring/verskema/source"
)

// Options tune the backend returned by Select.
type Options struct {
	// JSONDriver names the token driver of the textual backend ("go-json" or
	// "encoding/json"); empty selects go-json.
	JSONDriver string
	// Compact writes textual archives on one line.
	Compact bool
	// MaxBytes bounds the size of archives accepted by readers (0 = unlimited).
	MaxBytes int64
}

// Names lists the accepted format names.
func Names() []string { return []string{"text", "json", "binary", "bin"} }

// Select returns the backend for a format name. Names are case-insensitive;
// "json" is an alias of "text" and "bin" of "binary".
func Select(name string, opts ...Options) (verskema.Backend, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "json":
		drv, ok := source.ByName(opt.JSONDriver)
		if !ok {
			return nil, fmt.Errorf("backend: unknown JSON driver %q", opt.JSONDriver)
		}
		topts := []text.Option{text.WithDriver(drv), text.WithMaxBytes(opt.MaxBytes)}
		if opt.Compact {
			topts = append(topts, text.WithCompact())
		}
		return text.New(topts...), nil
	case "binary", "bin":
		var bopts []binary.Option
		if opt.MaxBytes > binary.HeaderSize {
			limit := opt.MaxBytes - binary.HeaderSize
			if limit > 1<<32-1 {
				limit = 1<<32 - 1
			}
			bopts = append(bopts, binary.WithMaxPayload(uint32(limit)))
		}
		return binary.New(bopts...), nil
	}
	return nil, fmt.Errorf("backend: unknown format %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// Extension returns the conventional file extension for archives of f.
func Extension(f verskema.Format) string {
	if f == verskema.FormatBinary {
		return ".bin"
	}
	return ".json"
}
