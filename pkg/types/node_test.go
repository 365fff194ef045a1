package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepValidate(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		wantErr error
	}{
		{
			name: "valid step",
			step: Step{
				StepID:    "rpp.gather_documents",
				ProcessID: "boston_rpp",
				Name:      "Gather Required Documents",
				Order:     2,
				Citation:  testCitation(),
			},
		},
		{
			name: "zero order rejected",
			step: Step{
				StepID:    "rpp.gather_documents",
				ProcessID: "boston_rpp",
				Name:      "Gather Required Documents",
				Order:     0,
				Citation:  testCitation(),
			},
			wantErr: ErrInvalidData,
		},
		{
			name: "missing process id",
			step: Step{
				StepID:   "rpp.gather_documents",
				Name:     "Gather Required Documents",
				Order:    2,
				Citation: testCitation(),
			},
			wantErr: ErrInvalidData,
		},
		{
			name: "missing citation",
			step: Step{
				StepID:    "rpp.gather_documents",
				ProcessID: "boston_rpp",
				Name:      "Gather Required Documents",
				Order:     2,
			},
			wantErr: ErrCitationMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequirementValidate(t *testing.T) {
	valid := Requirement{
		RequirementID:    "req.proof_of_residency",
		Text:             "Proof of Boston residency",
		FactID:           "rpp.documents.residency_proof",
		AppliesToProcess: "boston_rpp",
		HardGate:         false,
		Citation:         testCitation(),
	}
	assert.NoError(t, valid.Validate())

	noFact := valid
	noFact.FactID = ""
	assert.ErrorIs(t, noFact.Validate(), ErrInvalidData)

	noProcess := valid
	noProcess.AppliesToProcess = ""
	assert.ErrorIs(t, noProcess.Validate(), ErrInvalidData)
}

func TestRequirementEffectiveMinCount(t *testing.T) {
	r := Requirement{}
	assert.Equal(t, 1, r.EffectiveMinCount())
	r.MinCount = 2
	assert.Equal(t, 2, r.EffectiveMinCount())
}

func TestDocumentTypeValidate(t *testing.T) {
	valid := DocumentType{
		DocTypeID:            "proof.utility_bill",
		Name:                 "Utility Bill",
		FreshnessDays:        30,
		NameMatchRequired:    true,
		AddressMatchRequired: true,
		Citation:             testCitation(),
	}
	assert.NoError(t, valid.Validate())

	negative := valid
	negative.FreshnessDays = -1
	assert.ErrorIs(t, negative.Validate(), ErrInvalidData)
}

func TestWebResourceValidate(t *testing.T) {
	valid := WebResource{
		ResID:    "rpp.howto",
		Title:    "How to get a resident parking permit",
		URL:      "https://www.boston.gov/departments/parking-clerk/how-get-resident-parking-permit",
		Type:     ResourceHowTo,
		Owner:    "Parking Clerk",
		Hash:     strings.Repeat("ab", 32),
		Citation: testCitation(),
	}
	assert.NoError(t, valid.Validate())

	badType := valid
	badType.Type = "blog"
	assert.ErrorIs(t, badType.Validate(), ErrInvalidData)

	badHash := valid
	badHash.Hash = "not-a-hash"
	assert.ErrorIs(t, badHash.Validate(), ErrInvalidData)

	upperHash := valid
	upperHash.Hash = strings.Repeat("AB", 32)
	assert.ErrorIs(t, upperHash.Validate(), ErrInvalidData)
}

func TestValidNodeKind(t *testing.T) {
	for _, kind := range []string{
		KindProcess, KindStep, KindRequirement, KindRule,
		KindDocumentType, KindOffice, KindWebResource,
	} {
		assert.True(t, ValidNodeKind(kind), kind)
	}
	assert.False(t, ValidNodeKind("neighborhood"))
}
