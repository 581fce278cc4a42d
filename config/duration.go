package config

import (
	"time"

	"github.com/pkg/errors"
)

// Duration is a time.Duration written as "1.5s" or "300ms" in config files.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.Wrapf(err, "config: invalid duration %q", b)
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) duration() time.Duration {
	return time.Duration(*d)
}

func durationOf(t time.Duration) *Duration {
	d := Duration(t)
	return &d
}
