//go:build windows

package credentials

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const (
	registryPath  = `Software\Roblox\RobloxStudioBrowser\roblox.com`
	registryValue = ".ROBLOSECURITY"
)

// RegistryCookie reads the cookie Roblox Studio saved for the current user.
func RegistryCookie() (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, registryPath, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("open HKCU\\%s: %w", registryPath, err)
	}
	defer key.Close()

	value, _, err := key.GetStringValue(registryValue)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", registryValue, err)
	}
	return ExtractRegistryCookie(value)
}
