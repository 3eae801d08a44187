// Copyright © 2024 The ELPS authors

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/dtacheck/signature"
)

func TestServerOptionsInjectedTableWins(t *testing.T) {
	sigs := signature.New()
	sigs.Insert([]string{"set"}, 1, 1)

	var cfg cmdConfig
	WithSignatures(sigs)(&cfg)
	opts, err := cfg.serverOptions(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestServerOptionsFromPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "funcs", testSignatures)
	var cfg cmdConfig
	opts, err := cfg.serverOptions(path)
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	opts, err = cfg.serverOptions("")
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	_, err = cfg.serverOptions(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestServerOptionsChecks(t *testing.T) {
	var cfg cmdConfig
	WithChecks("arity", "syntax")(&cfg)
	_, err := cfg.serverOptions("")
	require.NoError(t, err)

	WithChecks("bogus")(&cfg)
	_, err = cfg.serverOptions("")
	assert.ErrorContains(t, err, "bogus")
}
