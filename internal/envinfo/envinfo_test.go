package envinfo

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	r := Collect()
	require.NotNil(t, r)

	assert.Equal(t, runtime.GOOS, r.OS)
	assert.Equal(t, runtime.GOARCH, r.Arch)
	assert.Equal(t, runtime.Version(), r.GoVersion)
	assert.Greater(t, r.CPUs, 0)
}
