package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// CheckConfigCompatibility checks that a binary can run a config file written for configVersion.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - An empty config version, or "main" on either side, skips the check
//   - Major versions must match exactly
//   - The binary's minor version must be at least the config's
//
// Examples:
//   - Binary 1.2.0, Config 1.2.0 -> OK
//   - Binary 1.4.1, Config 1.2.0 -> OK (newer binary reads older config)
//   - Binary 1.1.0, Config 1.2.0 -> ERROR (config uses newer settings)
//   - Binary 2.0.0, Config 1.2.0 -> ERROR (major differs)
func CheckConfigCompatibility(binaryVersion, configVersion string) error {
	binaryVersion = strings.TrimPrefix(binaryVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if configVersion == "" || binaryVersion == "main" || configVersion == "main" {
		return nil
	}

	binarySemver, err := semver.NewVersion(binaryVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid binary version '%s'", binaryVersion)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid config version '%s'", configVersion)
	}

	if binarySemver.Major() != configSemver.Major() {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "major version mismatch: binary is %d.x.x but config requires %d.x.x",
			binarySemver.Major(), configSemver.Major())
	}

	if binarySemver.Minor() < configSemver.Minor() {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "config requires %d.%d.x or newer, binary is %s",
			configSemver.Major(), configSemver.Minor(), binarySemver.String())
	}

	return nil
}
