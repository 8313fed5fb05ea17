package config

import (
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/queueworks/mqconnect/pkg/mqerrors"
)

// Duration is a time.Duration that unmarshals from either a bare integer,
// read as a count of milliseconds, or a duration literal such as "30s".
// Negative values are legal; -1ms is the conventional sentinel for "block
// indefinitely" and "sweep disabled" in PoolConfig. It marshals as the
// duration literal.
type Duration time.Duration

// ParseDuration parses s as either an integer count of milliseconds or a
// duration literal accepted by time.ParseDuration.
func ParseDuration(s string) (Duration, error) {
	if s == "" {
		return 0, mqerrors.New(mqerrors.ErrorTypeConfig, "empty duration")
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Duration(time.Duration(ms) * time.Millisecond), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, mqerrors.Newf(mqerrors.ErrorTypeConfig, "invalid duration %q", s)
	}
	return Duration(d), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler. Both quoted duration literals
// and bare JSON numbers (milliseconds) are accepted.
func (d *Duration) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	return d.UnmarshalText([]byte(s))
}
