package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
)

// CheckCompatibility reports whether data written in storedVersion can be
// read by code at currentVersion.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - The stored minor version must not be newer than the current one
//   - Patch versions can differ (e.g., 1.2.0 reads 1.2.5)
//
// Examples:
//   - Current 1.2.0, Stored 1.2.0 -> OK (exact match)
//   - Current 1.3.0, Stored 1.2.0 -> OK (older minor)
//   - Current 1.2.0, Stored 1.3.0 -> ERROR (written by a newer format)
//   - Current 2.0.0, Stored 1.2.0 -> ERROR (major differs)
//   - Current main, Stored 1.2.0 -> OK (dev build, skip check)
func CheckCompatibility(currentVersion, storedVersion string) error {
	currentVersion = strings.TrimPrefix(currentVersion, "v")
	storedVersion = strings.TrimPrefix(storedVersion, "v")

	if currentVersion == "main" || storedVersion == "main" {
		return nil
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeSnapshotVersion, err, "invalid current version '%s'", currentVersion)
	}

	stored, err := semver.NewVersion(storedVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeSnapshotVersion, err, "invalid stored version '%s'", storedVersion)
	}

	if current.Major() != stored.Major() {
		return errors.Newf(errors.ErrCodeSnapshotVersion, "major version mismatch: current is %d.x.x but data was written by %d.x.x",
			current.Major(), stored.Major())
	}

	if stored.Minor() > current.Minor() {
		return errors.Newf(errors.ErrCodeSnapshotVersion, "minor version too new: current is %d.%d.x but data was written by %d.%d.x",
			current.Major(), current.Minor(),
			stored.Major(), stored.Minor())
	}

	return nil
}
