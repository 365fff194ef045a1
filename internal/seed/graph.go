package seed

import (
	"log/slog"
	"time"

	"github.com/civickit/permitgraph/pkg/eligibility"
	"github.com/civickit/permitgraph/pkg/graph"
	"github.com/civickit/permitgraph/pkg/types"
)

// ProcessID is the seeded Boston RPP process.
const ProcessID = "proc.boston_rpp"

// Seeded step ids, in process order.
const (
	StepCheckEligibility = "step.rpp.check_eligibility"
	StepGatherDocuments  = "step.rpp.gather_documents"
	StepApply            = "step.rpp.apply"
	StepReceiveSticker   = "step.rpp.receive_sticker"
)

func cite(section string, verified time.Time) types.Citation {
	return types.Citation{
		SourceURL:     "https://www.boston.gov/departments/parking-clerk/how-get-resident-parking-permit",
		SourceSection: section,
		LastVerified:  verified,
		Confidence:    types.ConfidenceHigh,
	}
}

// requirement ties an engine requirement id to its governing fact and
// the document types that satisfy it.
type requirement struct {
	reqID    string
	factID   string
	text     string
	hardGate bool
	docTypes []string
}

var seedRequirements = []requirement{
	{
		reqID:    eligibility.ReqVehicleClass,
		factID:   "rpp.eligibility.vehicle_class",
		text:     "Vehicle is a passenger-class vehicle",
		hardGate: true,
	},
	{
		reqID:    eligibility.ReqNoUnpaidTickets,
		factID:   "rpp.eligibility.no_unpaid_tickets",
		text:     "No unpaid parking tickets on the registration",
		hardGate: true,
	},
	{
		reqID:    eligibility.ReqRegistrationMatch,
		factID:   "rpp.eligibility.registration_match",
		text:     "Vehicle registered in Massachusetts at the Boston address",
		hardGate: true,
	},
	{
		reqID:  eligibility.ReqProofOfResidency,
		factID: "rpp.documents.proof_of_residency",
		text:   "One accepted proof of Boston residency",
		docTypes: []string{
			"doc.rpp.utility_bill",
			"doc.rpp.bank_statement",
			"doc.rpp.signed_lease",
		},
	},
	{
		reqID:    eligibility.ReqRentalContract,
		factID:   "rpp.documents.rental_contract",
		text:     "Rental contract in the applicant's name",
		docTypes: []string{"doc.rpp.rental_contract"},
	},
	{
		reqID:    eligibility.ReqCompanyLetter,
		factID:   "rpp.documents.company_letter",
		text:     "Company letter confirming the vehicle assignment",
		docTypes: []string{"doc.rpp.company_letter"},
	},
	{
		reqID:    eligibility.ReqBusinessFormation,
		factID:   "rpp.documents.business_formation",
		text:     "Articles of organization or certificate of exercise",
		docTypes: []string{"doc.rpp.articles_of_organization"},
	},
	{
		reqID:    eligibility.ReqHackneyCard,
		factID:   "rpp.documents.hackney_card",
		text:     "Valid hackney carriage license card",
		docTypes: []string{"doc.rpp.hackney_card"},
	},
	{
		reqID:    eligibility.ReqHackneyShiftLease,
		factID:   "rpp.documents.hackney_shift_lease",
		text:     "Current shift lease for the medallion vehicle",
		docTypes: []string{"doc.rpp.hackney_shift_lease"},
	},
	{
		reqID:    eligibility.ReqMilitaryOrders,
		factID:   "rpp.documents.military_orders",
		text:     "Military orders assigning the applicant to the area",
		docTypes: []string{"doc.rpp.military_orders"},
	},
}

// docType describes one seeded document type.
type docType struct {
	id            string
	name          string
	freshnessDays int
	nameMatch     bool
	addressMatch  bool
	examples      []string
}

var seedDocTypes = []docType{
	{
		id: "doc.rpp.utility_bill", name: "Utility bill",
		freshnessDays: 30, nameMatch: true, addressMatch: true,
		examples: []string{"National Grid", "Eversource", "Boston Water and Sewer"},
	},
	{
		id: "doc.rpp.bank_statement", name: "Bank or credit card statement",
		freshnessDays: 30, nameMatch: true, addressMatch: true,
	},
	{
		id: "doc.rpp.signed_lease", name: "Signed lease or deed",
		nameMatch: true, addressMatch: true,
	},
	{
		id: "doc.rpp.rental_contract", name: "Rental contract",
		freshnessDays: 30, nameMatch: true,
	},
	{
		id: "doc.rpp.company_letter", name: "Company letter",
		freshnessDays: 30, nameMatch: true,
	},
	{
		id: "doc.rpp.articles_of_organization", name: "Articles of organization",
	},
	{
		id: "doc.rpp.hackney_card", name: "Hackney carriage license card",
		nameMatch: true,
	},
	{
		id: "doc.rpp.hackney_shift_lease", name: "Hackney shift lease agreement",
		freshnessDays: 30, nameMatch: true,
	},
	{
		id: "doc.rpp.military_orders", name: "Military orders",
		nameMatch: true,
	},
}

// BuildGraph constructs the Boston RPP process graph against the given
// fact resolver. Everything commits in one transaction, so a defective
// seed never half-commits.
func BuildGraph(facts graph.FactResolver, log *slog.Logger) (*graph.Graph, error) {
	if log == nil {
		log = slog.Default()
	}
	verified := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)

	g := graph.New(facts)
	err := g.Apply(func(tx *graph.Tx) error {
		if err := tx.AddNode(&types.Process{
			ProcessID:         ProcessID,
			Name:              "Boston Resident Parking Permit",
			Description:       "Permit to park in resident-only spaces in a designated neighborhood.",
			Category:          types.ProcessCategoryPermits,
			Jurisdiction:      "City of Boston",
			JurisdictionState: "MA",
			Citation:          cite("", verified),
		}); err != nil {
			return err
		}

		if err := addSteps(tx, verified); err != nil {
			return err
		}
		if err := addRequirements(tx, verified); err != nil {
			return err
		}
		if err := addOfficeAndResources(tx, verified); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	snap := g.Snapshot()
	log.Info("process graph seeded",
		"process", ProcessID, "nodes", len(snap.AllNodes()), "edges", len(snap.AllEdges()))
	return g, nil
}

func addSteps(tx *graph.Tx, verified time.Time) error {
	steps := []*types.Step{
		{
			StepID: StepCheckEligibility, ProcessID: ProcessID, Order: 1,
			Name:                 "Confirm eligibility",
			Description:          "Check vehicle class, registration, and outstanding tickets.",
			EstimatedTimeMinutes: 10,
			Citation:             cite("Eligibility", verified),
		},
		{
			StepID: StepGatherDocuments, ProcessID: ProcessID, Order: 2,
			Name:                 "Gather required documents",
			Description:          "Collect registration and any residency or category documents.",
			EstimatedTimeMinutes: 30,
			Citation:             cite("Required documents", verified),
		},
		{
			StepID: StepApply, ProcessID: ProcessID, Order: 3,
			Name:                 "Apply online or in person",
			Description:          "Submit the application with documents attached.",
			EstimatedTimeMinutes: 20,
			Citation:             cite("How to apply", verified),
		},
		{
			StepID: StepReceiveSticker, ProcessID: ProcessID, Order: 4,
			Name:        "Receive and attach the sticker",
			Description: "The permit sticker arrives by mail; attach it to the vehicle.",
			Citation:    cite("After you apply", verified),
		},
	}

	for _, s := range steps {
		if err := tx.AddNode(s); err != nil {
			return err
		}
		if err := tx.AddEdge(types.Edge{
			Type: types.EdgeHasStep, FromID: ProcessID, ToID: s.StepID,
			Props: types.EdgeProps{Order: s.Order},
		}); err != nil {
			return err
		}
	}

	// Each step depends on the previous one.
	deps := [][2]string{
		{StepGatherDocuments, StepCheckEligibility},
		{StepApply, StepGatherDocuments},
		{StepReceiveSticker, StepApply},
	}
	for _, d := range deps {
		if err := tx.AddEdge(types.Edge{
			Type: types.EdgeDependsOn, FromID: d[0], ToID: d[1],
		}); err != nil {
			return err
		}
	}

	return nil
}

func addRequirements(tx *graph.Tx, verified time.Time) error {
	for _, dt := range seedDocTypes {
		if err := tx.AddNode(&types.DocumentType{
			DocTypeID:            dt.id,
			Name:                 dt.name,
			FreshnessDays:        dt.freshnessDays,
			NameMatchRequired:    dt.nameMatch,
			AddressMatchRequired: dt.addressMatch,
			Examples:             dt.examples,
			Citation:             cite("Required documents", verified),
		}); err != nil {
			return err
		}
	}

	for _, r := range seedRequirements {
		if err := tx.AddNode(&types.Requirement{
			RequirementID:    r.reqID,
			Text:             r.text,
			FactID:           r.factID,
			AppliesToProcess: ProcessID,
			HardGate:         r.hardGate,
			Citation:         cite("", verified),
		}); err != nil {
			return err
		}
		if err := tx.AddEdge(types.Edge{
			Type: types.EdgeRequires, FromID: ProcessID, ToID: r.reqID,
		}); err != nil {
			return err
		}

		// One rule per requirement, carrying the same fact.
		ruleID := "rule." + r.factID
		if err := tx.AddNode(&types.Rule{
			RuleID:   ruleID,
			Text:     r.text,
			FactID:   r.factID,
			Scope:    "general",
			Citation: cite("", verified),
		}); err != nil {
			return err
		}
		if err := tx.AddEdge(types.Edge{
			Type: types.EdgeRuleGoverns, FromID: ruleID, ToID: r.reqID,
		}); err != nil {
			return err
		}

		for _, dtID := range r.docTypes {
			if err := tx.AddEdge(types.Edge{
				Type: types.EdgeSatisfies, FromID: dtID, ToID: r.reqID,
			}); err != nil {
				return err
			}
		}
	}

	// The 30-day recency rule also governs proof of residency.
	if err := tx.AddNode(&types.Rule{
		RuleID:   "rule.rpp.documents.residency_recency",
		Text:     "Proof of residency must be dated within 30 days",
		FactID:   "rpp.documents.residency_recency",
		Scope:    "general",
		Citation: cite("Required documents", verified),
	}); err != nil {
		return err
	}
	if err := tx.AddEdge(types.Edge{
		Type:   types.EdgeRuleGoverns,
		FromID: "rule.rpp.documents.residency_recency",
		ToID:   eligibility.ReqProofOfResidency,
	}); err != nil {
		return err
	}

	// The gather step names the residency documents it collects.
	for _, dtID := range []string{"doc.rpp.utility_bill", "doc.rpp.bank_statement", "doc.rpp.signed_lease"} {
		if err := tx.AddEdge(types.Edge{
			Type: types.EdgeNeedsDocument, FromID: StepGatherDocuments, ToID: dtID,
			Props: types.EdgeProps{Count: 1},
		}); err != nil {
			return err
		}
	}
	return nil
}

func addOfficeAndResources(tx *graph.Tx, verified time.Time) error {
	if err := tx.AddNode(&types.Office{
		OfficeID: "office.rpp.parking_clerk",
		Name:     "Office of the Parking Clerk",
		Address:  "1 City Hall Square, Boston, MA 02201",
		Room:     "224",
		Hours:    "Monday-Friday, 9:00-16:30",
		Phone:    "617-635-4410",
		Email:    "parking@boston.gov",
		Citation: types.Citation{
			SourceURL:    "https://www.boston.gov/departments/parking-clerk",
			LastVerified: verified,
			Confidence:   types.ConfidenceHigh,
		},
	}); err != nil {
		return err
	}
	if err := tx.AddEdge(types.Edge{
		Type: types.EdgeHandledAt, FromID: StepApply, ToID: "office.rpp.parking_clerk",
	}); err != nil {
		return err
	}

	if err := tx.AddNode(&types.WebResource{
		ResID: "res.rpp.how_to",
		Title: "How to get a resident parking permit",
		URL:   "https://www.boston.gov/departments/parking-clerk/how-get-resident-parking-permit",
		Type:  types.ResourceHowTo,
		Owner: "Office of the Parking Clerk",
		Citation: types.Citation{
			SourceURL:    "https://www.boston.gov/departments/parking-clerk/how-get-resident-parking-permit",
			LastVerified: verified,
			Confidence:   types.ConfidenceHigh,
		},
	}); err != nil {
		return err
	}
	if err := tx.AddEdge(types.Edge{
		Type: types.EdgeUsesResource, FromID: ProcessID, ToID: "res.rpp.how_to",
	}); err != nil {
		return err
	}

	if err := tx.AddNode(&types.WebResource{
		ResID: "res.rpp.portal",
		Title: "Resident parking permit online application",
		URL:   "https://www.boston.gov/departments/parking-clerk/resident-parking-permits",
		Type:  types.ResourcePortal,
		Owner: "Office of the Parking Clerk",
		Citation: types.Citation{
			SourceURL:    "https://www.boston.gov/departments/parking-clerk/resident-parking-permits",
			LastVerified: verified,
			Confidence:   types.ConfidenceHigh,
		},
	}); err != nil {
		return err
	}
	return tx.AddEdge(types.Edge{
		Type: types.EdgeUsesResource, FromID: StepApply, ToID: "res.rpp.portal",
	})
}
