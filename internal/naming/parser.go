// Package naming decodes project metadata from directory names such as
// "2022_06001_AAB_v2_l10_f-ACME_AS".
//
// The leading run of non-letters is the project id. The rest is split on "_":
// the first token is the project name, the others are suffixes. Recognised
// suffixes are "AN"/"AS" (offer/tender), "v<version>", "l<lot>" and
// "f-<company>"; anything else is kept in OtherSuffixes.
package naming

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/wiwo/tenderindex/internal/domain/project"
)

// Defaults for fields a directory name does not spell out.
const (
	DefaultVersion   = "1"
	DefaultLotNumber = "100" // all lots
	DefaultCompany   = "WiWo"
)

// ErrRejected is returned for names that do not follow the convention.
var ErrRejected = errors.New("not a project directory")

// Parse decodes a directory name. Names that do not follow the convention
// return an error wrapping ErrRejected.
func Parse(dirName string) (project.Descriptor, error) {
	split := strings.IndexFunc(dirName, unicode.IsLetter)
	if split < 0 {
		return project.Descriptor{}, reject(dirName, "no alphabetic character")
	}

	id := strings.ReplaceAll(strings.TrimRight(dirName[:split], "_"), "_", "-")
	if id == "" {
		return project.Descriptor{}, reject(dirName, "empty project id")
	}

	tokens := strings.Split(dirName[split:], "_")
	if len(tokens) < 2 {
		return project.Descriptor{}, reject(dirName, "no suffix after project name")
	}

	desc := project.Descriptor{
		ID:           id,
		Name:         tokens[0],
		DocumentType: project.DocumentOffer,
		Status:       project.StatusActive,
		Version:      DefaultVersion,
		LotNumber:    DefaultLotNumber,
		Company:      DefaultCompany,
	}
	for _, suffix := range tokens[1:] {
		classify(&desc, suffix)
	}
	return desc, nil
}

// classify applies one suffix. Later suffixes of the same kind win.
func classify(desc *project.Descriptor, suffix string) {
	lower := strings.ToLower(suffix)
	switch {
	case suffix == "AS":
		desc.DocumentType = project.DocumentTender
	case suffix == "AN":
		desc.DocumentType = project.DocumentOffer
	case strings.HasPrefix(lower, "v"):
		desc.Version = suffix[1:]
	case strings.HasPrefix(lower, "l"):
		desc.LotNumber = suffix[1:]
	case strings.HasPrefix(lower, "f-"):
		desc.Company = suffix[2:]
	default:
		desc.OtherSuffixes = append(desc.OtherSuffixes, suffix)
	}
}

func reject(dirName, reason string) error {
	return fmt.Errorf("%w: %q: %s", ErrRejected, dirName, reason)
}
