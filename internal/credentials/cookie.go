// Package credentials locates the .ROBLOSECURITY cookie used to authenticate
// against the Roblox web API.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const (
	// EnvVar holds a cookie, with or without the .ROBLOSECURITY= prefix.
	EnvVar = "ROBLOX_COOKIE"

	cookiePrefix = ".ROBLOSECURITY="
)

var (
	ErrNoCookie = errors.New("you need to log in to do that: set ROBLOX_COOKIE or use --registry")
	// ErrNoRegistryCookie is returned when the registry value has no COOK::<...> entry.
	ErrNoRegistryCookie = errors.New("no cookie found in registry value")

	registryCookieRe = regexp.MustCompile(`COOK::<([^>]+)>`)
)

// Normalize turns a bare cookie value into a Cookie header fragment. Values
// that already carry the .ROBLOSECURITY= prefix are returned unchanged.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, cookiePrefix) {
		return raw
	}
	return cookiePrefix + raw + ";"
}

// ExtractRegistryCookie pulls the cookie out of the value Roblox Studio
// stores in the registry.
func ExtractRegistryCookie(value string) (string, error) {
	m := registryCookieRe.FindStringSubmatch(value)
	if m == nil {
		return "", ErrNoRegistryCookie
	}
	return m[1], nil
}

// Resolver picks a cookie from the registry or the environment.
type Resolver struct {
	Getenv   func(string) string
	Registry func() (string, error)
}

// DefaultResolver reads the process environment and the current user's registry.
func DefaultResolver() Resolver {
	return Resolver{Getenv: os.Getenv, Registry: RegistryCookie}
}

// HasEnvCookie reports whether ROBLOX_COOKIE is set.
func (r Resolver) HasEnvCookie() bool {
	return r.getenv(EnvVar) != ""
}

// Resolve returns the Cookie header value. The registry wins over the
// environment when useRegistry is set.
func (r Resolver) Resolve(useRegistry bool) (string, error) {
	if useRegistry {
		read := r.Registry
		if read == nil {
			read = RegistryCookie
		}
		value, err := read()
		if err != nil {
			return "", fmt.Errorf("failed to get cookie from the registry: %w", err)
		}
		return cookiePrefix + value + ";", nil
	}
	if cookie := Normalize(r.getenv(EnvVar)); cookie != "" {
		return cookie, nil
	}
	return "", ErrNoCookie
}

func (r Resolver) getenv(key string) string {
	if r.Getenv == nil {
		return os.Getenv(key)
	}
	return strings.TrimSpace(r.Getenv(key))
}
