package services

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/reglet-dev/classlist/internal/domain/entities"
)

// MinArchivableMajor is the first class file major version (JDK 6) that
// can be archived.
const MinArchivableMajor = 50

// DefaultReleaseConstraint accepts every archivable release.
const DefaultReleaseConstraint = ">= 6"

// ReleasePolicy decides whether a resolved class file version is acceptable.
type ReleasePolicy struct {
	constraint *semver.Constraints
	raw        string
	strict     bool
}

// NewReleasePolicy parses a semver constraint over Java feature releases,
// e.g. ">= 8, < 22". With strict set, classes outside the constraint fail
// instead of producing a warning.
func NewReleasePolicy(constraint string, strict bool) (*ReleasePolicy, error) {
	if constraint == "" {
		constraint = DefaultReleaseConstraint
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid release constraint %q: %w", constraint, err)
	}
	return &ReleasePolicy{constraint: c, raw: constraint, strict: strict}, nil
}

// ReleaseVersion maps a class file major version to the Java release that
// produced it: 52 is 8.0.0, 46 is 1.2.0.
func ReleaseVersion(major uint16) *semver.Version {
	if major < 49 {
		minor := uint64(0)
		if major > 44 {
			minor = uint64(major - 44)
		}
		return semver.New(1, minor, 0, "", "")
	}
	return semver.New(uint64(major-44), 0, 0, "", "")
}

// Check returns a warning for classes that would be left out of the
// archive. A non-nil error means the class fails the strict policy.
func (p *ReleasePolicy) Check(info *entities.ResolvedClassInfo) (string, error) {
	if info.MajorVersion < MinArchivableMajor {
		return fmt.Sprintf("Pre JDK 6 class not supported by CDS: %d.%d %s",
			info.MajorVersion, info.MinorVersion, info.Name), nil
	}

	v := ReleaseVersion(info.MajorVersion)
	if p.constraint.Check(v) {
		return "", nil
	}

	msg := fmt.Sprintf("Class %s has release %d which does not satisfy %q",
		info.Name, v.Major(), p.raw)
	if p.strict {
		return "", errors.New(msg)
	}
	return msg, nil
}

// String returns the constraint as configured.
func (p *ReleasePolicy) String() string {
	return p.raw
}
