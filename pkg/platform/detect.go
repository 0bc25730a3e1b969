// Package platform detects which OS family the process is running on.
package platform

import (
	"os"
	"runtime"
	"strings"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/types"
)

// osReleasePath is the standard distribution identification file
const osReleasePath = "/etc/os-release"

// DetectFamily returns the OS family of the current machine: "macos"
// on Darwin, otherwise the ID field of /etc/os-release.
func DetectFamily() (types.Family, error) {
	if runtime.GOOS == "darwin" {
		return types.Family("macos"), nil
	}

	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", osReleasePath)
	}
	return parseOSRelease(string(data))
}

// parseOSRelease extracts the distribution ID from os-release content
func parseOSRelease(content string) (types.Family, error) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "ID=") {
			continue
		}
		id := strings.TrimPrefix(line, "ID=")
		id = strings.Trim(id, `"'`)
		if id != "" {
			return types.Family(id), nil
		}
	}
	return "", errors.New(errors.ErrNotFound, "no ID field in os-release")
}
