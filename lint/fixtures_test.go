// Copyright © 2024 The ELPS authors

package lint_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luthersystems/dtacheck/dtatest"
	"github.com/luthersystems/dtacheck/signature"
)

func fixtureRunner(t testing.TB) *dtatest.Runner {
	sigs, err := signature.LoadFile(filepath.Join("testdata", "funcs.sig"))
	require.NoError(t, err)
	return &dtatest.Runner{Signatures: sigs}
}

func TestFixtures(t *testing.T) {
	fixtureRunner(t).RunTestDir(t, filepath.Join("testdata", "fixtures"))
}

func BenchmarkArityFixture(b *testing.B) {
	fixtureRunner(b).RunBenchmarkFile(b, filepath.Join("testdata", "fixtures", "arity.dta"))
}
