// Package codec provides verskema.Codec implementations for common Go types
// that have no primitive kind of their own.
package codec

import (
	"errors"
	"time"

	verskema "github.com/reoring/verskema"
)

// TimeRFC3339 stores a time.Time as an RFC 3339 string, normalized to UTC with
// nanosecond precision (trailing zeros trimmed).
func TimeRFC3339() verskema.Codec[time.Time] { return rfc3339Codec{} }

type rfc3339Codec struct{}

func (rfc3339Codec) Kind() verskema.Kind { return verskema.KindString }

func (rfc3339Codec) Encode(t time.Time) verskema.Value {
	return verskema.StringValue(t.UTC().Format(time.RFC3339Nano))
}

func (rfc3339Codec) Decode(v verskema.Value) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v.Str())
	if err != nil {
		return time.Time{}, errors.New("invalid RFC3339 time " + v.String())
	}
	return t, nil
}

// UnixNano stores a time.Time as nanoseconds since the Unix epoch. The
// location is not kept; decoded times are UTC.
func UnixNano() verskema.Codec[time.Time] { return unixNanoCodec{} }

type unixNanoCodec struct{}

func (unixNanoCodec) Kind() verskema.Kind { return verskema.KindInt }

func (unixNanoCodec) Encode(t time.Time) verskema.Value { return verskema.IntValue(t.UnixNano()) }

func (unixNanoCodec) Decode(v verskema.Value) (time.Time, error) {
	return time.Unix(0, v.Int()).UTC(), nil
}

// Duration stores a time.Duration as an integer count of nanoseconds.
func Duration() verskema.Codec[time.Duration] { return durationCodec{} }

type durationCodec struct{}

func (durationCodec) Kind() verskema.Kind { return verskema.KindInt }

func (durationCodec) Encode(d time.Duration) verskema.Value { return verskema.IntValue(int64(d)) }

func (durationCodec) Decode(v verskema.Value) (time.Duration, error) {
	return time.Duration(v.Int()), nil
}
