// Package config reads typed settings from prefixed environment variables
// Must* panics on a missing or bad value, May* logs a warning and uses the default
package config

import (
	"strconv"
	"time"

	"membersearch/internal/platform/config/raw"
	"membersearch/internal/platform/logger"

	"github.com/spf13/cast"
)

// Conf is a prefixed view, e.g. New().Prefix("SERVICE_PGSQL_")
type Conf struct{ env raw.Conf }

// New returns the unprefixed view
func New() Conf { return Conf{env: raw.New()} }

// Prefix returns a view with p appended to the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

// Key returns the full variable name for k
func (c Conf) Key(k string) string { return c.env.Key(k) }

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	v, ok := c.env.Lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.Key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return c.env.Get(key, def) }

// MayInt returns the base 10 value or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayIntAtLeast is MayInt that also rejects values below floor
func (c Conf) MayIntAtLeast(key string, def, floor int) int {
	v := c.MayInt(key, def)
	if v < floor {
		logger.Get().Warn().Str("key", c.Key(key)).Int("value", v).Int("floor", floor).Int("default", def).
			Msg("env below floor, using default")
		return def
	}
	return v
}

// MayBool returns the value or def
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, func(s string) (bool, error) { return cast.ToBoolE(s) })
}

// MayDuration returns the value or def, values use time.ParseDuration syntax
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Interface("default", def).
			Msg("invalid env, using default")
		return def
	}
	return v
}
