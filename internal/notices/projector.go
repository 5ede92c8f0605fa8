package notices

import (
	"fmt"
	"strings"
	"time"

	"github.com/hwatkins/procurement-finder/internal/models"
)

// ProjectRelease flattens an OCDS release package onto a base notice built
// from the listing call. A nil package or one with zero releases degrades to
// the base record unchanged. Never fails: every sub-structure is optional.
func ProjectRelease(base models.Notice, pkg *ReleasePackage) models.Notice {
	if pkg == nil || len(pkg.Releases) == 0 {
		return base
	}

	rel := selectRelease(base.ID, pkg.Releases)
	n := base

	if n.PublishedDate == "" && rel.Date != "" {
		n.PublishedDate = rel.Date
	}

	projectValues(&n, rel)
	projectBuyer(&n, rel)
	projectClassifications(&n, rel)
	projectRegions(&n, rel)
	projectSuitability(&n, rel)
	projectSuppliers(&n, rel)
	projectTypeAndStatus(&n, rel)
	projectDates(&n, rel)

	return n
}

// selectRelease prefers the release whose id matches the base notice id,
// otherwise the most recently dated one. Equal dates keep the earlier entry.
func selectRelease(baseID string, releases []Release) Release {
	for _, rel := range releases {
		if baseID != "" && rel.ID == baseID {
			return rel
		}
	}

	best := releases[0]
	bestAt := releaseTime(best)
	for _, rel := range releases[1:] {
		if at := releaseTime(rel); at.After(bestAt) {
			best = rel
			bestAt = at
		}
	}
	return best
}

func releaseTime(rel Release) time.Time {
	t, err := time.Parse(time.RFC3339, rel.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// projectValues extracts the estimated value range and the awarded value.
// Range comes from tender.value, falling back to the planning budget
// breakdown, then the flat planning budget amount. Awarded value prefers the
// active contract over the active award.
func projectValues(n *models.Notice, rel Release) {
	if v := estimatedValue(rel); v != nil {
		n.ValueLow = v.Amount
		n.ValueHigh = v.MaximumAmount
	}

	if c := activeContract(rel.Contracts); c != nil && c.Value != nil && c.Value.Amount != nil {
		n.AwardedValue = c.Value.Amount
	} else if a := activeAward(rel.Awards); a != nil && a.Value != nil && a.Value.Amount != nil {
		n.AwardedValue = a.Value.Amount
	}
}

func estimatedValue(rel Release) *Value {
	if rel.Tender != nil && rel.Tender.Value != nil {
		return rel.Tender.Value
	}
	if rel.Planning == nil || rel.Planning.Budget == nil {
		return nil
	}
	for _, line := range rel.Planning.Budget.BudgetBreakdown {
		if line.Amount != nil && line.Amount.Amount != nil {
			return line.Amount
		}
	}
	return rel.Planning.Budget.Amount
}

// activeAward picks the award with status "active", else the first listed.
func activeAward(awards []Award) *Award {
	if len(awards) == 0 {
		return nil
	}
	for i := range awards {
		if strings.EqualFold(awards[i].Status, "active") {
			return &awards[i]
		}
	}
	return &awards[0]
}

func activeContract(contracts []Contract) *Contract {
	if len(contracts) == 0 {
		return nil
	}
	for i := range contracts {
		if strings.EqualFold(contracts[i].Status, "active") {
			return &contracts[i]
		}
	}
	return &contracts[0]
}

// projectBuyer takes the first party whose roles include "buyer".
func projectBuyer(n *models.Notice, rel Release) {
	buyer := buyerParty(rel.Parties)
	if buyer == nil {
		if rel.Buyer != nil && rel.Buyer.Name != "" {
			name := rel.Buyer.Name
			n.OrganisationName = &name
		}
		return
	}

	if buyer.Name != "" {
		name := buyer.Name
		n.OrganisationName = &name
	}
	if buyer.Address != nil {
		if addr := formatAddress(*buyer.Address); addr != "" {
			n.OrganisationAddress = &addr
		}
		if buyer.Address.Postcode != "" {
			pc := buyer.Address.Postcode
			n.Postcode = &pc
		}
	}
}

func buyerParty(parties []Party) *Party {
	for i := range parties {
		for _, role := range parties[i].Roles {
			if strings.EqualFold(role, "buyer") {
				return &parties[i]
			}
		}
	}
	return nil
}

func formatAddress(a Address) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.StreetAddress, a.Locality, a.Region, a.CountryName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// projectClassifications gathers every (code, description) pair from the
// tender classification and all item classifications, deduplicated. The
// first pair becomes the primary CPV fields; the remainder are joined into
// the extended fields.
func projectClassifications(n *models.Notice, rel Release) {
	if rel.Tender == nil {
		return
	}

	seen := make(map[string]struct{})
	var codes []string
	var descriptions []string

	add := func(c *Classification) {
		if c == nil || c.ID == "" {
			return
		}
		if _, dup := seen[c.ID]; dup {
			return
		}
		seen[c.ID] = struct{}{}
		codes = append(codes, c.ID)
		if c.Description != "" {
			descriptions = append(descriptions, c.Description)
		}
	}

	add(rel.Tender.Classification)
	for _, item := range rel.Tender.Items {
		add(item.Classification)
		for i := range item.AdditionalClassifications {
			add(&item.AdditionalClassifications[i])
		}
	}

	if len(codes) == 0 {
		return
	}

	primary := codes[0]
	n.CpvCodes = &primary
	if len(descriptions) > 0 {
		primaryDesc := descriptions[0]
		n.CpvDescription = &primaryDesc
	}
	if len(codes) > 1 {
		extended := strings.Join(codes[1:], " ")
		n.CpvCodesExtended = &extended
	}
	if len(descriptions) > 1 {
		expanded := strings.Join(descriptions[1:], " | ")
		n.CpvDescriptionExpanded = &expanded
	}
}

// projectRegions walks delivery addresses and locations across all tender
// items, with the buyer address as a final fallback. First region code wins,
// first coordinate pair wins, first descriptive text wins.
func projectRegions(n *models.Notice, rel Release) {
	var addresses []Address
	var locations []Location
	if rel.Tender != nil {
		for _, item := range rel.Tender.Items {
			addresses = append(addresses, item.DeliveryAddresses...)
			locations = append(locations, item.DeliveryLocations...)
		}
	}
	if buyer := buyerParty(rel.Parties); buyer != nil && buyer.Address != nil {
		addresses = append(addresses, *buyer.Address)
	}

	for _, loc := range locations {
		if n.Region == nil && loc.Gazetteer != nil && len(loc.Gazetteer.Identifiers) > 0 {
			code := loc.Gazetteer.Identifiers[0]
			n.Region = &code
		}
		if n.Coordinates == nil && loc.Geometry != nil && len(loc.Geometry.Coordinates) >= 2 {
			coords := fmt.Sprintf("%v,%v", loc.Geometry.Coordinates[0], loc.Geometry.Coordinates[1])
			n.Coordinates = &coords
		}
		if n.RegionText == nil && loc.Description != "" {
			text := loc.Description
			n.RegionText = &text
		}
	}
	for _, addr := range addresses {
		if n.Region == nil && addr.Region != "" {
			code := addr.Region
			n.Region = &code
		}
		if n.RegionText == nil && addr.Locality != "" {
			text := addr.Locality
			n.RegionText = &text
		}
	}
}

// projectSuitability scans the tender suitability strings for SME and
// voluntary-sector markers.
func projectSuitability(n *models.Notice, rel Release) {
	if rel.Tender == nil || len(rel.Tender.Suitability) == 0 {
		return
	}
	for _, entry := range rel.Tender.Suitability {
		lower := strings.ToLower(entry)
		if strings.Contains(lower, "sme") {
			yes := true
			n.IsSuitableForSme = &yes
		}
		if strings.Contains(lower, "vcse") || strings.Contains(lower, "voluntary") {
			yes := true
			n.IsSuitableForVco = &yes
		}
	}
}

// projectSuppliers joins awarded supplier names and reads each supplier
// party's declared scale for the awarded-to flags.
func projectSuppliers(n *models.Notice, rel Release) {
	award := activeAward(rel.Awards)
	if award == nil || len(award.Suppliers) == 0 {
		return
	}

	var names []string
	for _, sup := range award.Suppliers {
		if sup.Name != "" {
			names = append(names, sup.Name)
		}
		scale := strings.ToLower(supplierScale(rel.Parties, sup))
		if scale == "" {
			continue
		}
		if strings.Contains(scale, "sme") || strings.Contains(scale, "small") {
			yes := true
			n.AwardedToSme = &yes
		}
		if strings.Contains(scale, "vcse") || strings.Contains(scale, "thirdsector") {
			yes := true
			n.AwardedToVcse = &yes
		}
	}
	if len(names) > 0 {
		joined := strings.Join(names, ", ")
		n.AwardedSupplier = &joined
	}
}

func supplierScale(parties []Party, ref OrgRef) string {
	for i := range parties {
		if parties[i].ID == ref.ID && parties[i].Details != nil {
			return parties[i].Details.Scale
		}
	}
	return ""
}

// projectTypeAndStatus resolves noticeType from the first contract document
// carrying one, else the release tags joined, else the tender procedure
// type; the base record's provisional type is the final fallback. Status
// prefers tender status, then active award status.
func projectTypeAndStatus(n *models.Notice, rel Release) {
	if t := contractDocumentType(rel.Contracts); t != "" {
		n.NoticeType = &t
	} else if len(rel.Tag) > 0 {
		joined := strings.Join(rel.Tag, ", ")
		n.NoticeType = &joined
	} else if rel.Tender != nil && rel.Tender.ProcurementMethodDetails != "" {
		t := rel.Tender.ProcurementMethodDetails
		n.NoticeType = &t
	}

	if rel.Tender != nil && rel.Tender.Status != "" {
		s := rel.Tender.Status
		n.NoticeStatus = &s
	} else if a := activeAward(rel.Awards); a != nil && a.Status != "" {
		s := a.Status
		n.NoticeStatus = &s
	}
}

func contractDocumentType(contracts []Contract) string {
	for _, c := range contracts {
		for _, doc := range c.Documents {
			if doc.NoticeType != "" {
				return doc.NoticeType
			}
		}
	}
	return ""
}

// projectDates fills title/description and the temporal fields the flat
// shape needs: deadline from the tender period, award date from the active
// award, contract start/end from the active contract period (tender contract
// period as fallback).
func projectDates(n *models.Notice, rel Release) {
	if rel.Tender != nil {
		if n.Title == nil && rel.Tender.Title != "" {
			title := rel.Tender.Title
			n.Title = &title
		}
		if n.Description == nil && rel.Tender.Description != "" {
			desc := rel.Tender.Description
			n.Description = &desc
		}
		if rel.Tender.TenderPeriod != nil && rel.Tender.TenderPeriod.EndDate != "" {
			d := rel.Tender.TenderPeriod.EndDate
			n.DeadlineDate = &d
		}
	}

	if a := activeAward(rel.Awards); a != nil && a.Date != "" {
		d := a.Date
		n.AwardedDate = &d
	}

	var period *Period
	if c := activeContract(rel.Contracts); c != nil && c.Period != nil {
		period = c.Period
	} else if rel.Tender != nil && rel.Tender.ContractPeriod != nil {
		period = rel.Tender.ContractPeriod
	}
	if period != nil {
		if period.StartDate != "" {
			d := period.StartDate
			n.Start = &d
		}
		if period.EndDate != "" {
			d := period.EndDate
			n.End = &d
		}
	}
}
