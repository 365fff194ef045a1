package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testCitation() Citation {
	return Citation{
		SourceURL:    "https://www.boston.gov/departments/parking-clerk/how-get-resident-parking-permit",
		LastVerified: time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC),
		Confidence:   ConfidenceHigh,
	}
}

func TestFactValidate(t *testing.T) {
	tests := []struct {
		name    string
		fact    Fact
		wantErr error
	}{
		{
			name: "valid fact",
			fact: Fact{
				ID:       "rpp.proof_of_residency.recency",
				Text:     "Proof of residency must be dated within 30 days",
				Citation: testCitation(),
			},
		},
		{
			name: "empty id",
			fact: Fact{
				Text:     "some claim",
				Citation: testCitation(),
			},
			wantErr: ErrInvalidID,
		},
		{
			name: "whitespace id",
			fact: Fact{
				ID:       "   ",
				Text:     "some claim",
				Citation: testCitation(),
			},
			wantErr: ErrInvalidID,
		},
		{
			name: "empty text",
			fact: Fact{
				ID:       "rpp.eligibility.vehicle_class",
				Citation: testCitation(),
			},
			wantErr: ErrInvalidData,
		},
		{
			name: "incomplete citation",
			fact: Fact{
				ID:   "rpp.eligibility.vehicle_class",
				Text: "Only passenger vehicles qualify",
				Citation: Citation{
					SourceURL: "https://www.boston.gov/departments/parking-clerk",
				},
			},
			wantErr: ErrCitationMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fact.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFactHasPrefix(t *testing.T) {
	f := Fact{ID: "rpp.eligibility.vehicle_class"}
	assert.True(t, f.HasPrefix("rpp.eligibility"))
	assert.True(t, f.HasPrefix("rpp."))
	assert.False(t, f.HasPrefix("rpp.documents"))
}
