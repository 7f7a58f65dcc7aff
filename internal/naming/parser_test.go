package naming

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wiwo/tenderindex/internal/domain/project"
)

func TestParse_FullName(t *testing.T) {
	desc, err := Parse("2022_06001_AAB_v2_l10_f-ACME_AS")
	require.NoError(t, err)
	require.Equal(t, project.Descriptor{
		ID:           "2022-06001",
		Name:         "AAB",
		DocumentType: project.DocumentTender,
		Status:       project.StatusActive,
		Version:      "2",
		LotNumber:    "10",
		Company:      "ACME",
	}, desc)
}

func TestParse_Defaults(t *testing.T) {
	desc, err := Parse("2022_06001_AAB_Entwurf")
	require.NoError(t, err)
	require.Equal(t, "2022-06001", desc.ID)
	require.Equal(t, "AAB", desc.Name)
	require.Equal(t, project.DocumentOffer, desc.DocumentType)
	require.Equal(t, project.StatusActive, desc.Status)
	require.Equal(t, DefaultVersion, desc.Version)
	require.Equal(t, DefaultLotNumber, desc.LotNumber)
	require.Equal(t, DefaultCompany, desc.Company)
	require.Equal(t, []string{"Entwurf"}, desc.OtherSuffixes)
	require.Empty(t, desc.Path)
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		dirName string
	}{
		{name: "digits only", dirName: "12345"},
		{name: "separators only", dirName: "2022_06001_"},
		{name: "empty", dirName: ""},
		// Rejected on purpose: the text after the id must split on "_" into a
		// name plus at least one suffix token.
		{name: "name without suffix", dirName: "2022_06001_AAB"},
		{name: "single alphabetic run", dirName: "12345AAB"},
		{name: "empty id", dirName: "AAB_v2_AS"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.dirName)
			require.ErrorIs(t, err, ErrRejected)
		})
	}
}

func TestParse_SuffixClassification(t *testing.T) {
	tests := []struct {
		name     string
		dirName  string
		docType  project.DocumentType
		version  string
		lot      string
		company  string
		leftover []string
	}{
		{
			name:    "explicit offer",
			dirName: "7_X_AN",
			docType: project.DocumentOffer, version: "1", lot: "100", company: "WiWo",
		},
		{
			name:    "upper case prefixes",
			dirName: "7_X_V3_L4_F-Bau",
			docType: project.DocumentOffer, version: "3", lot: "4", company: "Bau",
		},
		{
			name:    "last suffix of a kind wins",
			dirName: "7_X_v1_v2_AS_AN_l1_l5",
			docType: project.DocumentOffer, version: "2", lot: "5", company: "WiWo",
		},
		{
			name:    "type match is case sensitive",
			dirName: "7_X_as",
			docType: project.DocumentOffer, version: "1", lot: "100", company: "WiWo",
			leftover: []string{"as"},
		},
		{
			name:    "unknown suffixes keep their order",
			dirName: "7_X_final_AS_Kopie_alt",
			docType: project.DocumentTender, version: "1", lot: "100", company: "WiWo",
			leftover: []string{"final", "Kopie", "alt"},
		},
		{
			name:    "company without dash is not a company",
			dirName: "7_X_fBau",
			docType: project.DocumentOffer, version: "1", lot: "100", company: "WiWo",
			leftover: []string{"fBau"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			desc, err := Parse(tc.dirName)
			require.NoError(t, err)
			require.Equal(t, "7", desc.ID)
			require.Equal(t, "X", desc.Name)
			require.Equal(t, tc.docType, desc.DocumentType)
			require.Equal(t, tc.version, desc.Version)
			require.Equal(t, tc.lot, desc.LotNumber)
			require.Equal(t, tc.company, desc.Company)
			require.Equal(t, tc.leftover, desc.OtherSuffixes)
		})
	}
}

func TestParse_IDNormalisation(t *testing.T) {
	desc, err := Parse("2023__07_015__Halle_AS")
	require.NoError(t, err)
	require.Equal(t, "2023--07-015", desc.ID)
	require.Equal(t, "Halle", desc.Name)

	desc, err = Parse("2023-07.015 Halle_AS")
	require.NoError(t, err)
	require.Equal(t, "2023-07.015 ", desc.ID)
	require.Equal(t, "Halle", desc.Name)
}

func TestParse_IsDeterministic(t *testing.T) {
	for _, name := range []string{"2022_06001_AAB_v2_l10_f-ACME_AS", "1_a_b_c", "12345"} {
		first, firstErr := Parse(name)
		second, secondErr := Parse(name)
		require.Equal(t, first, second)
		require.Equal(t, firstErr, secondErr)
	}
}
