package credentials

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "   ", want: ""},
		{in: "abc", want: ".ROBLOSECURITY=abc;"},
		{in: " abc\n", want: ".ROBLOSECURITY=abc;"},
		{in: ".ROBLOSECURITY=abc;", want: ".ROBLOSECURITY=abc;"},
		{in: ".ROBLOSECURITY=abc", want: ".ROBLOSECURITY=abc"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractRegistryCookie(t *testing.T) {
	got, err := ExtractRegistryCookie(`SEC::<YES>,EXP::<2030-01-01>,COOK::<_|WARNING:-DO-NOT-SHARE|_ABC>`)
	require.NoError(t, err)
	require.Equal(t, "_|WARNING:-DO-NOT-SHARE|_ABC", got)

	_, err = ExtractRegistryCookie("garbage")
	require.ErrorIs(t, err, ErrNoRegistryCookie)
}

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestResolve(t *testing.T) {
	registry := func() (string, error) { return "from-registry", nil }

	t.Run("registry wins", func(t *testing.T) {
		r := Resolver{Getenv: env(map[string]string{EnvVar: "from-env"}), Registry: registry}
		cookie, err := r.Resolve(true)
		require.NoError(t, err)
		require.Equal(t, ".ROBLOSECURITY=from-registry;", cookie)
	})

	t.Run("environment", func(t *testing.T) {
		r := Resolver{Getenv: env(map[string]string{EnvVar: "from-env"}), Registry: registry}
		require.True(t, r.HasEnvCookie())
		cookie, err := r.Resolve(false)
		require.NoError(t, err)
		require.Equal(t, ".ROBLOSECURITY=from-env;", cookie)
	})

	t.Run("nothing", func(t *testing.T) {
		r := Resolver{Getenv: env(nil), Registry: registry}
		require.False(t, r.HasEnvCookie())
		_, err := r.Resolve(false)
		require.ErrorIs(t, err, ErrNoCookie)
	})

	t.Run("registry failure", func(t *testing.T) {
		boom := errors.New("access denied")
		r := Resolver{Getenv: env(nil), Registry: func() (string, error) { return "", boom }}
		_, err := r.Resolve(true)
		require.ErrorIs(t, err, boom)
		require.Contains(t, err.Error(), "failed to get cookie from the registry")
	})
}
