// Package raw reads environment variables without logging
// the logger bootstraps from it, so it must not import the logger
package raw

import (
	"os"
	"strings"

	"github.com/spf13/cast"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix returns a view with p appended to the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the full variable name for k
func (c Conf) Key(k string) string { return c.prefix + k }

// Lookup returns the trimmed value, blank counts as unset
func (c Conf) Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(c.Key(key))
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Get returns the value or def when unset
func (c Conf) Get(key, def string) string {
	if v, ok := c.Lookup(key); ok {
		return v
	}
	return def
}

// GetBool accepts what strconv.ParseBool does plus yes/no and on/off
// unparsable values fall back to def
func (c Conf) GetBool(key string, def bool) bool {
	v, ok := c.Lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}
