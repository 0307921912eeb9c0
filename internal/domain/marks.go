package domain

import "strings"

// Mark is the spreadsheet placeholder written instead of a translation string
// when a cell has no approved translation.
type Mark string

const (
	MarkMissing       Mark = "MISSING"
	MarkPretranslated Mark = "PRETRANSLATED"
	MarkRejected      Mark = "REJECTED"
	MarkFuzzy         Mark = "FUZZY"
	MarkUnreviewed    Mark = "UNREVIEWED"
)

// ReservedMarks lists every placeholder. Cells holding one of these values are
// never imported as translation strings.
var ReservedMarks = []Mark{
	MarkMissing,
	MarkPretranslated,
	MarkRejected,
	MarkFuzzy,
	MarkUnreviewed,
}

// IsReservedMark reports whether value is exactly one of ReservedMarks.
func IsReservedMark(value string) bool {
	for _, mark := range ReservedMarks {
		if value == string(mark) {
			return true
		}
	}
	return false
}

// Format identifies the file format of a resource.
type Format string

const (
	FormatPO    Format = "po"
	FormatXML   Format = "xml"
	FormatJSON  Format = "json"
	FormatXLIFF Format = "xliff"
)

// NormalizeFormat lower-cases and trims a stored format tag.
func NormalizeFormat(value string) Format {
	return Format(strings.ToLower(strings.TrimSpace(value)))
}

// Visibility controls who may see a project.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Role is the level of access a grant gives.
type Role string

const (
	RoleTranslator Role = "translator"
	RoleManager    Role = "manager"
)
