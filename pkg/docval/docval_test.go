package docval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/civickit/permitgraph/pkg/types"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func utilityBillType() types.DocumentType {
	return types.DocumentType{
		DocTypeID:            "doc.utility_bill",
		Name:                 "Utility bill",
		FreshnessDays:        30,
		NameMatchRequired:    true,
		AddressMatchRequired: true,
	}
}

func freshBill() types.Document {
	return types.Document{
		DocID:        "d1",
		DocTypeID:    "doc.utility_bill",
		Issuer:       "National Grid",
		IssueDate:    testNow.AddDate(0, 0, -10),
		NameOnDoc:    "Jordan Rivera",
		AddressOnDoc: "12 Beacon St, Boston, MA 02108",
	}
}

func TestValidatePasses(t *testing.T) {
	res := Validate(freshBill(), utilityBillType(), "Jordan Rivera", "12 Beacon St, Boston, MA 02108", testNow)
	assert.True(t, res.Passed)
	assert.Empty(t, res.Errors)
}

func TestFreshnessBoundary(t *testing.T) {
	tests := []struct {
		name    string
		ageDays int
		stale   bool
	}{
		{"well within window", 10, false},
		{"one day inside", 29, false},
		{"exactly at boundary", 30, false},
		{"one day outside", 31, true},
		{"far outside", 120, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := freshBill()
			doc.IssueDate = testNow.AddDate(0, 0, -tt.ageDays)

			res := Validate(doc, utilityBillType(), "Jordan Rivera", "12 Beacon St, Boston, MA 02108", testNow)
			if tt.stale {
				assert.Contains(t, res.Errors, types.ValidationStale)
				assert.False(t, res.Passed)
			} else {
				assert.NotContains(t, res.Errors, types.ValidationStale)
			}
		})
	}
}

func TestNoFreshnessRequirement(t *testing.T) {
	dt := utilityBillType()
	dt.FreshnessDays = 0

	doc := freshBill()
	doc.IssueDate = testNow.AddDate(-3, 0, 0)

	res := Validate(doc, dt, "Jordan Rivera", "12 Beacon St, Boston, MA 02108", testNow)
	assert.NotContains(t, res.Errors, types.ValidationStale)
}

func TestNameMatching(t *testing.T) {
	tests := []struct {
		name      string
		onDoc     string
		applicant string
		match     bool
	}{
		{"exact", "Jordan Rivera", "Jordan Rivera", true},
		{"case differs", "JORDAN RIVERA", "jordan rivera", true},
		{"extra whitespace", "Jordan   Rivera ", "Jordan Rivera", true},
		{"different person", "Alex Chen", "Jordan Rivera", false},
		{"empty on doc", "", "Jordan Rivera", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := freshBill()
			doc.NameOnDoc = tt.onDoc

			res := Validate(doc, utilityBillType(), tt.applicant, "12 Beacon St, Boston, MA 02108", testNow)
			if tt.match {
				assert.NotContains(t, res.Errors, types.ValidationNameMismatch)
			} else {
				assert.Contains(t, res.Errors, types.ValidationNameMismatch)
			}
		})
	}
}

func TestAddressMatching(t *testing.T) {
	tests := []struct {
		name      string
		onDoc     string
		applicant string
		match     bool
	}{
		{"exact", "12 Beacon St, Boston, MA 02108", "12 Beacon St, Boston, MA 02108", true},
		{"doc carries longer form", "12 Beacon St Apt 4, Boston, MA 02108-1234", "12 Beacon St Apt 4", true},
		{"empty applicant address", "12 Beacon St, Boston, MA 02108", "", false},
		{"applicant within doc", "12 Beacon St, Boston, MA 02108", "12 Beacon St, Boston, MA", true},
		{"punctuation differs", "12 Beacon St. Boston MA 02108", "12 Beacon St, Boston, MA 02108", true},
		{"different street", "7 Tremont St, Boston, MA 02108", "12 Beacon St, Boston, MA 02108", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := freshBill()
			doc.AddressOnDoc = tt.onDoc

			res := Validate(doc, utilityBillType(), "Jordan Rivera", tt.applicant, testNow)
			if tt.match {
				assert.NotContains(t, res.Errors, types.ValidationAddressMismatch)
			} else {
				assert.Contains(t, res.Errors, types.ValidationAddressMismatch)
			}
		})
	}
}

func TestAllDefectsAccumulate(t *testing.T) {
	doc := freshBill()
	doc.IssueDate = testNow.AddDate(0, 0, -90)
	doc.NameOnDoc = "Alex Chen"
	doc.AddressOnDoc = "7 Tremont St, Boston, MA 02108"

	res := Validate(doc, utilityBillType(), "Jordan Rivera", "12 Beacon St, Boston, MA 02108", testNow)
	assert.False(t, res.Passed)
	assert.Equal(t, []string{
		types.ValidationStale,
		types.ValidationNameMismatch,
		types.ValidationAddressMismatch,
	}, res.Errors)
}

func TestMatchesNotRequired(t *testing.T) {
	dt := utilityBillType()
	dt.NameMatchRequired = false
	dt.AddressMatchRequired = false

	doc := freshBill()
	doc.NameOnDoc = "Someone Else"
	doc.AddressOnDoc = "Elsewhere"

	res := Validate(doc, dt, "Jordan Rivera", "12 Beacon St, Boston, MA 02108", testNow)
	assert.True(t, res.Passed)
}

func TestApplyWritesBack(t *testing.T) {
	doc := freshBill()
	doc.NameOnDoc = "Alex Chen"

	res := Apply(&doc, utilityBillType(), "Jordan Rivera", "12 Beacon St, Boston, MA 02108", testNow)
	assert.False(t, res.Passed)
	assert.False(t, doc.Verified)
	assert.Equal(t, []string{types.ValidationNameMismatch}, doc.ValidationErrors)

	doc.NameOnDoc = "Jordan Rivera"
	res = Apply(&doc, utilityBillType(), "Jordan Rivera", "12 Beacon St, Boston, MA 02108", testNow)
	assert.True(t, res.Passed)
	assert.True(t, doc.Verified)
	assert.Empty(t, doc.ValidationErrors)
}
