package notices

import (
	"testing"

	"github.com/hwatkins/procurement-finder/internal/models"
)

func baseNotice(id string) models.Notice {
	return models.Notice{
		ID:            id,
		Source:        models.SourceFindTender,
		PublishedDate: "2024-03-05T08:00:00Z",
	}
}

func TestProjectRelease_NilPackageReturnsBase(t *testing.T) {
	base := baseNotice("abc")
	got := ProjectRelease(base, nil)
	if got.ID != base.ID || got.Title != nil {
		t.Fatal("expected base record unchanged")
	}

	got = ProjectRelease(base, &ReleasePackage{})
	if got.ID != base.ID || got.Title != nil {
		t.Fatal("expected base record unchanged for empty package")
	}
}

func TestProjectRelease_SelectsMostRecentWhenNoIDMatch(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{
		{ID: "r1", Date: "2024-01-01T00:00:00Z", Tender: &Tender{Title: "January release"}},
		{ID: "r2", Date: "2024-03-01T00:00:00Z", Tender: &Tender{Title: "March release"}},
	}}

	got := ProjectRelease(baseNotice("no-match"), pkg)
	if got.Title == nil || *got.Title != "March release" {
		t.Fatalf("expected most recent release selected, got %v", got.Title)
	}
}

func TestProjectRelease_PrefersIDMatchOverNewer(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{
		{ID: "mine", Date: "2024-01-01T00:00:00Z", Tender: &Tender{Title: "Matching release"}},
		{ID: "other", Date: "2024-06-01T00:00:00Z", Tender: &Tender{Title: "Newer release"}},
	}}

	got := ProjectRelease(baseNotice("mine"), pkg)
	if got.Title == nil || *got.Title != "Matching release" {
		t.Fatalf("expected id-matching release selected, got %v", got.Title)
	}
}

func TestProjectRelease_TenderValueRange(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID: "r",
		Tender: &Tender{
			Value: &Value{Amount: fptr(10000), MaximumAmount: fptr(50000)},
		},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.ValueLow == nil || *got.ValueLow != 10000 {
		t.Fatalf("expected valueLow 10000, got %v", got.ValueLow)
	}
	if got.ValueHigh == nil || *got.ValueHigh != 50000 {
		t.Fatalf("expected valueHigh 50000, got %v", got.ValueHigh)
	}
}

func TestProjectRelease_BudgetBreakdownFallback(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID: "r",
		Planning: &Planning{Budget: &Budget{
			Amount: &Value{Amount: fptr(111)},
			BudgetBreakdown: []BudgetLine{
				{ID: "empty"},
				{ID: "first", Amount: &Value{Amount: fptr(7500)}},
			},
		}},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.ValueLow == nil || *got.ValueLow != 7500 {
		t.Fatalf("expected first non-empty breakdown entry, got %v", got.ValueLow)
	}
}

func TestProjectRelease_FlatBudgetWhenBreakdownEmpty(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID:       "r",
		Planning: &Planning{Budget: &Budget{Amount: &Value{Amount: fptr(111)}}},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.ValueLow == nil || *got.ValueLow != 111 {
		t.Fatalf("expected flat planning budget amount, got %v", got.ValueLow)
	}
}

func TestProjectRelease_AwardedValuePrefersContract(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID:        "r",
		Awards:    []Award{{ID: "a", Status: "active", Value: &Value{Amount: fptr(2000)}}},
		Contracts: []Contract{{ID: "c", Status: "active", Value: &Value{Amount: fptr(2500)}}},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.AwardedValue == nil || *got.AwardedValue != 2500 {
		t.Fatalf("expected contract value 2500, got %v", got.AwardedValue)
	}
}

func TestProjectRelease_ActiveAwardSelection(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID: "r",
		Awards: []Award{
			{ID: "a1", Status: "cancelled", Value: &Value{Amount: fptr(1)}},
			{ID: "a2", Status: "Active", Value: &Value{Amount: fptr(999)}, Date: "2024-02-02"},
		},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.AwardedValue == nil || *got.AwardedValue != 999 {
		t.Fatalf("expected active award, got %v", got.AwardedValue)
	}
	if got.AwardedDate == nil || *got.AwardedDate != "2024-02-02" {
		t.Fatalf("expected active award date, got %v", got.AwardedDate)
	}
}

func TestProjectRelease_BuyerExtraction(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID: "r",
		Parties: []Party{
			{ID: "s1", Name: "Some Supplier", Roles: []string{"supplier"}},
			{ID: "b1", Name: "Leeds Teaching Hospitals NHS Trust", Roles: []string{"Buyer"}, Address: &Address{
				StreetAddress: "Great George Street",
				Locality:      "Leeds",
				Postcode:      "LS1 3EX",
				CountryName:   "United Kingdom",
			}},
		},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.OrganisationName == nil || *got.OrganisationName != "Leeds Teaching Hospitals NHS Trust" {
		t.Fatalf("expected buyer party, got %v", got.OrganisationName)
	}
	if got.Postcode == nil || *got.Postcode != "LS1 3EX" {
		t.Fatalf("expected buyer postcode, got %v", got.Postcode)
	}
	if got.OrganisationAddress == nil || *got.OrganisationAddress != "Great George Street, Leeds, United Kingdom" {
		t.Fatalf("unexpected address: %v", got.OrganisationAddress)
	}
}

func TestProjectRelease_ClassificationDedupe(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID: "r",
		Tender: &Tender{
			Classification: &Classification{ID: "33100000", Description: "Medical equipments"},
			Items: []TenderItem{{
				Classification: &Classification{ID: "33100000", Description: "Medical equipments"},
				AdditionalClassifications: []Classification{
					{ID: "33190000", Description: "Miscellaneous medical devices"},
					{ID: "50400000", Description: "Repair services"},
				},
			}},
		},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.CpvCodes == nil || *got.CpvCodes != "33100000" {
		t.Fatalf("expected primary code, got %v", got.CpvCodes)
	}
	if got.CpvCodesExtended == nil || *got.CpvCodesExtended != "33190000 50400000" {
		t.Fatalf("expected space-joined extended codes, got %v", got.CpvCodesExtended)
	}
	if got.CpvDescriptionExpanded == nil || *got.CpvDescriptionExpanded != "Miscellaneous medical devices | Repair services" {
		t.Fatalf("expected pipe-joined descriptions, got %v", got.CpvDescriptionExpanded)
	}
}

func TestProjectRelease_RegionFirstWins(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID: "r",
		Tender: &Tender{Items: []TenderItem{{
			DeliveryLocations: []Location{
				{Description: "West Yorkshire", Gazetteer: &Gazetteer{Identifiers: []string{"UKE4"}}},
				{Gazetteer: &Gazetteer{Identifiers: []string{"UKE1"}}, Geometry: &Geometry{Coordinates: []float64{53.8, -1.55}}},
			},
		}}},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.Region == nil || *got.Region != "UKE4" {
		t.Fatalf("expected first region code, got %v", got.Region)
	}
	if got.Coordinates == nil || *got.Coordinates != "53.8,-1.55" {
		t.Fatalf("expected coordinates from second location, got %v", got.Coordinates)
	}
	if got.RegionText == nil || *got.RegionText != "West Yorkshire" {
		t.Fatalf("expected descriptive text, got %v", got.RegionText)
	}
}

func TestProjectRelease_SuitabilityFlags(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID: "r",
		Tender: &Tender{Suitability: []string{
			"Suitable for SME bidders",
			"Open to voluntary sector organisations",
		}},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.IsSuitableForSme == nil || !*got.IsSuitableForSme {
		t.Fatal("expected SME suitability flag")
	}
	if got.IsSuitableForVco == nil || !*got.IsSuitableForVco {
		t.Fatal("expected VCO suitability flag")
	}
}

func TestProjectRelease_SupplierScaleFlags(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID: "r",
		Parties: []Party{
			{ID: "s1", Name: "MedTech Ltd", Roles: []string{"supplier"}, Details: &PartyDetails{Scale: "sme"}},
			{ID: "s2", Name: "Care Collective CIC", Roles: []string{"supplier"}, Details: &PartyDetails{Scale: "thirdSector"}},
		},
		Awards: []Award{{
			ID: "a", Status: "active",
			Suppliers: []OrgRef{{ID: "s1", Name: "MedTech Ltd"}, {ID: "s2", Name: "Care Collective CIC"}},
		}},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.AwardedSupplier == nil || *got.AwardedSupplier != "MedTech Ltd, Care Collective CIC" {
		t.Fatalf("expected comma-joined suppliers, got %v", got.AwardedSupplier)
	}
	if got.AwardedToSme == nil || !*got.AwardedToSme {
		t.Fatal("expected awardedToSme flag")
	}
	if got.AwardedToVcse == nil || !*got.AwardedToVcse {
		t.Fatal("expected awardedToVcse flag")
	}
}

func TestProjectRelease_TypeResolutionOrder(t *testing.T) {
	// A contract document's noticeType wins over tags.
	pkg := &ReleasePackage{Releases: []Release{{
		ID:  "r",
		Tag: []string{"award"},
		Contracts: []Contract{{
			ID: "c", Status: "active",
			Documents: []OCDSDocument{{ID: "d", NoticeType: "UK5"}},
		}},
	}}}
	got := ProjectRelease(baseNotice("r"), pkg)
	if got.NoticeType == nil || *got.NoticeType != "UK5" {
		t.Fatalf("expected contract document type, got %v", got.NoticeType)
	}

	// Without documents the joined release tags are used.
	pkg = &ReleasePackage{Releases: []Release{{ID: "r", Tag: []string{"tender", "tenderUpdate"}}}}
	got = ProjectRelease(baseNotice("r"), pkg)
	if got.NoticeType == nil || *got.NoticeType != "tender, tenderUpdate" {
		t.Fatalf("expected joined tags, got %v", got.NoticeType)
	}

	// Tender procedure type is the last non-base fallback.
	pkg = &ReleasePackage{Releases: []Release{{ID: "r", Tender: &Tender{ProcurementMethodDetails: "Open procedure"}}}}
	got = ProjectRelease(baseNotice("r"), pkg)
	if got.NoticeType == nil || *got.NoticeType != "Open procedure" {
		t.Fatalf("expected procedure type, got %v", got.NoticeType)
	}
}

func TestProjectRelease_StatusResolution(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID:     "r",
		Tender: &Tender{Status: "complete"},
		Awards: []Award{{ID: "a", Status: "active"}},
	}}}
	got := ProjectRelease(baseNotice("r"), pkg)
	if got.NoticeStatus == nil || *got.NoticeStatus != "complete" {
		t.Fatalf("expected tender status preferred, got %v", got.NoticeStatus)
	}

	pkg = &ReleasePackage{Releases: []Release{{
		ID:     "r",
		Awards: []Award{{ID: "a", Status: "active"}},
	}}}
	got = ProjectRelease(baseNotice("r"), pkg)
	if got.NoticeStatus == nil || *got.NoticeStatus != "active" {
		t.Fatalf("expected award status fallback, got %v", got.NoticeStatus)
	}
}

func TestProjectRelease_Dates(t *testing.T) {
	pkg := &ReleasePackage{Releases: []Release{{
		ID: "r",
		Tender: &Tender{
			TenderPeriod: &Period{EndDate: "2024-07-31T12:00:00Z"},
		},
		Contracts: []Contract{{
			ID: "c", Status: "active",
			Period: &Period{StartDate: "2024-09-01", EndDate: "2026-08-31"},
		}},
	}}}

	got := ProjectRelease(baseNotice("r"), pkg)
	if got.DeadlineDate == nil || *got.DeadlineDate != "2024-07-31T12:00:00Z" {
		t.Fatalf("expected deadline from tender period, got %v", got.DeadlineDate)
	}
	if got.Start == nil || *got.Start != "2024-09-01" {
		t.Fatalf("expected contract start, got %v", got.Start)
	}
	if got.End == nil || *got.End != "2026-08-31" {
		t.Fatalf("expected contract end, got %v", got.End)
	}
}
