//go:build !windows

package credentials

import "errors"

// ErrRegistryUnsupported is returned by RegistryCookie outside Windows.
var ErrRegistryUnsupported = errors.New("the registry is only available on Windows")

// RegistryCookie always fails on this platform.
func RegistryCookie() (string, error) {
	return "", ErrRegistryUnsupported
}
