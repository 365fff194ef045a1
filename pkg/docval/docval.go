// Package docval validates user-provided document instances against
// their document type. Validation is pure: it reads the document, the
// type, the applicant fields, and a caller-supplied clock, and returns
// every defect at once. Nothing here touches the graph or the registry.
package docval

import (
	"strings"
	"time"

	"github.com/civickit/permitgraph/pkg/types"
)

// Validate checks a document against its type and the applicant's name
// and address. All checks run regardless of earlier failures, so the
// caller can report every correction needed in one pass. The errors are
// recoverable validation codes, never fatal.
func Validate(doc types.Document, docType types.DocumentType, applicantName, applicantAddress string, now time.Time) types.ValidationResult {
	var errs []string

	if docType.FreshnessDays > 0 && olderThanDays(doc.IssueDate, now, docType.FreshnessDays) {
		errs = append(errs, types.ValidationStale)
	}
	if docType.NameMatchRequired && !NamesMatch(doc.NameOnDoc, applicantName) {
		errs = append(errs, types.ValidationNameMismatch)
	}
	if docType.AddressMatchRequired && !AddressesMatch(doc.AddressOnDoc, applicantAddress) {
		errs = append(errs, types.ValidationAddressMismatch)
	}

	return types.ValidationResult{
		Passed: len(errs) == 0,
		Errors: errs,
	}
}

// Apply runs Validate and writes the outcome back onto the document's
// Verified and ValidationErrors fields.
func Apply(doc *types.Document, docType types.DocumentType, applicantName, applicantAddress string, now time.Time) types.ValidationResult {
	res := Validate(*doc, docType, applicantName, applicantAddress, now)
	doc.Verified = res.Passed
	doc.ValidationErrors = res.Errors
	return res
}

// olderThanDays reports whether issued precedes now by strictly more
// than the given number of days. A document issued exactly at the
// boundary still passes.
func olderThanDays(issued, now time.Time, days int) bool {
	if issued.IsZero() {
		return true
	}
	return issued.Before(now.AddDate(0, 0, -days))
}

// NamesMatch compares names case-insensitively after collapsing
// whitespace. OCR output varies in casing and spacing; it does not
// reorder name parts.
func NamesMatch(onDoc, applicant string) bool {
	return normalize(onDoc) != "" && normalize(onDoc) == normalize(applicant)
}

// AddressesMatch accepts one address appearing within the other after
// normalization. Documents and registrations often carry a longer form
// (unit numbers, ZIP+4) of the same address.
func AddressesMatch(onDoc, applicant string) bool {
	d, a := normalize(onDoc), normalize(applicant)
	if d == "" || a == "" {
		return false
	}
	return strings.Contains(d, a) || strings.Contains(a, d)
}

// normalize lowercases, strips punctuation commonly varying across OCR
// output, and collapses runs of whitespace to single spaces.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(",", " ", ".", " ", "#", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
