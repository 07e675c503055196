package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestHasMetricsDependency_Node(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{
			name:    "declared in dependencies",
			content: `{"dependencies":{"appmetrics-dash":"^5.0.0"}}`,
			want:    true,
		},
		{
			name:    "declared in devDependencies",
			content: `{"devDependencies":{"appmetrics-dash":"^5.0.0"}}`,
			want:    true,
		},
		{
			name:    "absent",
			content: `{"dependencies":{"express":"^4.0.0"}}`,
			want:    false,
		},
		{
			name:    "no dependencies section",
			content: `{"name":"app"}`,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "package.json", tt.content)

			has, err := HasMetricsDependency(dir, "nodejs")
			require.NoError(t, err)
			assert.Equal(t, tt.want, has)
		})
	}
}

func TestHasMetricsDependency_MissingManifestIsTyped(t *testing.T) {
	dir := t.TempDir()

	has, err := HasMetricsDependency(dir, "nodejs")
	assert.False(t, has)
	require.ErrorIs(t, err, ErrManifestMissing)
}

func TestHasMetricsDependency_UnparsableManifestDegradesToFalse(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{broken json`)

	has, err := HasMetricsDependency(dir, "nodejs")
	require.NoError(t, err, "parse failure must degrade, not propagate")
	assert.False(t, has)
}

func TestHasMetricsDependency_Java(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pom.xml", `<project><dependencies><dependency><artifactId>javametrics</artifactId></dependency></dependencies></project>`)

	has, err := HasMetricsDependency(dir, "java")
	require.NoError(t, err)
	assert.True(t, has)

	other := t.TempDir()
	writeFile(t, other, "pom.xml", `<project/>`)
	has, err = HasMetricsDependency(other, "java")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestHasMetricsDependency_Swift(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Package.swift", `.package(url: "https://github.com/RuntimeTools/SwiftMetrics.git", from: "2.0.0")`)

	has, err := HasMetricsDependency(dir, "swift")
	require.NoError(t, err)
	assert.True(t, has)

	empty := t.TempDir()
	_, err = HasMetricsDependency(empty, "swift")
	require.ErrorIs(t, err, ErrManifestMissing)
}

func TestHasMetricsDependency_UnsupportedLanguage(t *testing.T) {
	_, err := HasMetricsDependency(t.TempDir(), "cobol")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrManifestMissing)
}
