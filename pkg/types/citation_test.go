package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCitationValidate(t *testing.T) {
	verified := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		citation Citation
		wantErr  error
	}{
		{
			name: "complete triple",
			citation: Citation{
				SourceURL:    "https://www.boston.gov/departments/parking-clerk",
				LastVerified: verified,
				Confidence:   ConfidenceHigh,
			},
		},
		{
			name: "missing source url",
			citation: Citation{
				LastVerified: verified,
				Confidence:   ConfidenceHigh,
			},
			wantErr: ErrCitationMissing,
		},
		{
			name: "missing last verified",
			citation: Citation{
				SourceURL:  "https://www.boston.gov/departments/parking-clerk",
				Confidence: ConfidenceHigh,
			},
			wantErr: ErrCitationMissing,
		},
		{
			name: "missing confidence",
			citation: Citation{
				SourceURL:    "https://www.boston.gov/departments/parking-clerk",
				LastVerified: verified,
			},
			wantErr: ErrCitationMissing,
		},
		{
			name: "confidence outside closed set",
			citation: Citation{
				SourceURL:    "https://www.boston.gov/departments/parking-clerk",
				LastVerified: verified,
				Confidence:   "certain",
			},
			wantErr: ErrCitationMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.citation.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCitationOlderThan(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		verified time.Time
		days     int
		want     bool
	}{
		{
			name:     "well past threshold",
			verified: now.AddDate(0, 0, -120),
			days:     90,
			want:     true,
		},
		{
			name:     "inside threshold",
			verified: now.AddDate(0, 0, -30),
			days:     90,
			want:     false,
		},
		{
			name:     "exactly at threshold",
			verified: now.AddDate(0, 0, -90),
			days:     90,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Citation{LastVerified: tt.verified}
			assert.Equal(t, tt.want, c.OlderThan(now, tt.days))
		})
	}
}

func TestValidConfidence(t *testing.T) {
	assert.True(t, ValidConfidence(ConfidenceHigh))
	assert.True(t, ValidConfidence(ConfidenceMedium))
	assert.True(t, ValidConfidence(ConfidenceLow))
	assert.False(t, ValidConfidence("certain"))
	assert.False(t, ValidConfidence(""))
}
