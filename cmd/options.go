// Copyright © 2024 The ELPS authors

package cmd

import "github.com/luthersystems/dtacheck/signature"

// Option configures an exported command factory (LSPCommand, REPLCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	signatures *signature.Function
	checks     []string
}

// WithSignatures injects a function signature table.  It takes precedence
// over the --signatures flag, so embedders can ship a table built in Go.
func WithSignatures(sigs *signature.Function) Option {
	return func(c *cmdConfig) { c.signatures = sigs }
}

// WithChecks restricts the checks run by the command to the named ones.
func WithChecks(names ...string) Option {
	return func(c *cmdConfig) { c.checks = names }
}
