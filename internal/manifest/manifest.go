// Package manifest inspects a project's build descriptor for the metrics
// dependency that backs the instance-local dashboard.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrManifestMissing reports that the project has no build manifest for the
// given language. It is distinct from the dependency simply being absent,
// so callers can branch without matching error text.
var ErrManifestMissing = errors.New("manifest: build manifest missing")

// Per-language dependency markers.
const (
	nodeDependency = "appmetrics-dash"
	javaArtifact   = "javametrics"
	swiftPackage   = "SwiftMetrics"
)

// HasMetricsDependency reports whether the project rooted at root declares
// the metrics dependency for its language. A missing manifest file is
// reported as ErrManifestMissing; manifest content that cannot be parsed
// degrades to false rather than an error.
func HasMetricsDependency(root, language string) (bool, error) {
	switch language {
	case "nodejs":
		return nodeHasDependency(filepath.Join(root, "package.json"))
	case "java":
		return fileContains(filepath.Join(root, "pom.xml"), javaArtifact)
	case "swift":
		return fileContains(filepath.Join(root, "Package.swift"), swiftPackage)
	default:
		return false, fmt.Errorf("manifest: unsupported language %q", language)
	}
}

func nodeHasDependency(path string) (bool, error) {
	data, err := readManifest(path)
	if err != nil {
		return false, err
	}

	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		// Unparsable manifest: cannot prove the dependency is there.
		return false, nil
	}
	if _, ok := pkg.Dependencies[nodeDependency]; ok {
		return true, nil
	}
	_, ok := pkg.DevDependencies[nodeDependency]
	return ok, nil
}

func fileContains(path, marker string) (bool, error) {
	data, err := readManifest(path)
	if err != nil {
		return false, err
	}
	return strings.Contains(string(data), marker), nil
}

func readManifest(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestMissing, path)
		}
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return data, nil
}
