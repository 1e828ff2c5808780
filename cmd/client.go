package cmd

import (
	"os"

	"github.com/rbxupload/rbxupload/internal/credentials"
	"github.com/rbxupload/rbxupload/internal/roblox"
	"github.com/rbxupload/rbxupload/internal/wizard"
)

// Endpoint overrides, mostly for tests and mirrors.
const (
	envDataURL = "RBXUPLOAD_DATA_URL"
	envAPIURL  = "RBXUPLOAD_API_URL"
	envWWWURL  = "RBXUPLOAD_WWW_URL"
	envAuthURL = "RBXUPLOAD_AUTH_URL"
)

func endpointsFromEnv() roblox.Endpoints {
	return roblox.Endpoints{
		Data: os.Getenv(envDataURL),
		API:  os.Getenv(envAPIURL),
		WWW:  os.Getenv(envWWWURL),
		Auth: os.Getenv(envAuthURL),
	}
}

func newClient(cookie string, rps float64) *roblox.Client {
	return roblox.NewClient(roblox.NewSession(cookie),
		roblox.WithEndpoints(endpointsFromEnv()),
		roblox.WithRateLimit(rps),
	)
}

// env is what a command reads from and writes to.
type env struct {
	prompt wizard.Prompter
	creds  credentials.Resolver
}

// lazyPrompter opens the terminal on the first question only, so
// non-interactive runs never touch it.
type lazyPrompter struct {
	line *wizard.LinePrompter
}

func (p *lazyPrompter) Ask(q string) (string, error) {
	return p.get().Ask(q)
}

func (p *lazyPrompter) AskPassword(q string) (string, error) {
	return p.get().AskPassword(q)
}

func (p *lazyPrompter) get() *wizard.LinePrompter {
	if p.line == nil {
		p.line = wizard.NewLinePrompter()
	}
	return p.line
}

func (p *lazyPrompter) Close() {
	if p.line != nil {
		_ = p.line.Close()
	}
}

func defaultEnv() (env, func()) {
	p := &lazyPrompter{}
	return env{prompt: p, creds: credentials.DefaultResolver()}, p.Close
}
