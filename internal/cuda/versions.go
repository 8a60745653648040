package cuda

import (
	"fmt"
	"sort"
	"strings"
)

// ExitCodeUnsupported is the process exit code for an unrecognized
// CUDA toolkit version.
const ExitCodeUnsupported = 111

// versionNames maps supported dotted toolkit versions to their
// undotted wheel-tag suffixes.
var versionNames = map[string]string{
	"11.8": "118",
	"12.1": "121",
	"12.4": "124",
	"12.6": "126",
}

// indexURLs maps supported toolkit versions to the package index serving
// their builds. 12.1 builds ship on the primary index, hence the empty URL.
var indexURLs = map[string]string{
	"11.8": "https://download.pytorch.org/whl/cu118",
	"12.1": "",
	"12.4": "https://download.pytorch.org/whl/cu124",
	"12.6": "https://download.pytorch.org/whl/cu126",
}

// UnsupportedVersionError indicates a CUDA version outside the
// recognized set.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported CUDA version %q (supported: %s)", e.Version, strings.Join(Supported(), ", "))
}

// Supported returns the recognized dotted toolkit versions in order
func Supported() []string {
	versions := make([]string, 0, len(versionNames))
	for v := range versionNames {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Normalize accepts a dotted or undotted toolkit version and returns the
// canonical dotted form ("124" and "12.4" both resolve to "12.4").
func Normalize(version string) (string, error) {
	v := strings.TrimSpace(version)
	if _, ok := versionNames[v]; ok {
		return v, nil
	}

	// Undotted form: re-insert the dot before the minor digit
	if !strings.Contains(v, ".") && len(v) >= 3 {
		dotted := v[:len(v)-1] + "." + v[len(v)-1:]
		if _, ok := versionNames[dotted]; ok {
			return dotted, nil
		}
	}

	return "", &UnsupportedVersionError{Version: version}
}

// Suffix returns the undotted wheel-tag suffix for a toolkit version
// ("11.8" → "118").
func Suffix(version string) (string, error) {
	dotted, err := Normalize(version)
	if err != nil {
		return "", err
	}
	return versionNames[dotted], nil
}

// Tag returns the full local-version tag for a toolkit version
// ("12.1" → "cu121").
func Tag(version string) (string, error) {
	suffix, err := Suffix(version)
	if err != nil {
		return "", err
	}
	return "cu" + suffix, nil
}

// IndexURL resolves the package index URL for a toolkit version. The
// empty string means the primary index.
func IndexURL(version string) (string, error) {
	dotted, err := Normalize(version)
	if err != nil {
		return "", err
	}
	return indexURLs[dotted], nil
}

// TagMatches reports whether an installed build's local-version tag refers
// to the given toolkit version. Installed builds have historically spelled
// the tag three ways: bare digits ("121"), prefixed digits ("cu121"), and
// prefixed dotted ("cu12.1").
func TagMatches(tag, version string) bool {
	dotted, err := Normalize(version)
	if err != nil {
		return false
	}
	suffix := versionNames[dotted]

	switch tag {
	case suffix, "cu" + suffix, "cu" + dotted:
		return true
	}
	return false
}
