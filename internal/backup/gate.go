package backup

import (
	"fmt"

	"github.com/julianstephens/daylog/internal/constants"
	derrors "github.com/julianstephens/daylog/internal/errors"
)

// SupportedVersion is the newest envelope version this build reads, and the
// version it writes.
const SupportedVersion = constants.SupportedBackupVersion

// CheckVersion rejects envelopes written by a newer release. Every version
// up to SupportedVersion is read the same way.
func CheckVersion(version int) error {
	if version > SupportedVersion {
		return fmt.Errorf("%w: version %d, this build reads up to %d", derrors.ErrNewerVersion, version, SupportedVersion)
	}
	return nil
}
