package notices

import (
	"github.com/hwatkins/procurement-finder/internal/models"
)

const (
	contractsFinderNoticeURL = "https://www.contractsfinder.service.gov.uk/notice/"
	contractsFinderSearchURL = "https://www.contractsfinder.service.gov.uk/Search"
	findTenderNoticeURL      = "https://www.find-tender.service.gov.uk/Notice/"
	findTenderSearchURL      = "https://www.find-tender.service.gov.uk/Search"

	// Used when an FTS release carries no tender title at all.
	defaultFindTenderTitle = "Find a Tender notice"
)

// MapContractsFinderRecord converts one raw Contracts Finder hit into the
// unified Notice shape. Missing fields map to nil; a missing id degrades the
// link to the generic search page. Never fails.
func MapContractsFinderRecord(rec ContractsFinderRecord) models.Notice {
	n := models.Notice{
		ID:               rec.ID,
		ParentID:         rec.ParentID,
		NoticeIdentifier: rec.NoticeIdentifier,
		Source:           models.SourceContractsFinder,

		Title:       DecodeEntities(rec.Title),
		Description: DecodeEntities(rec.Description),

		NoticeType:   rec.NoticeType,
		NoticeStatus: rec.NoticeStatus,

		OrganisationName:    DecodeEntities(rec.OrganisationName),
		OrganisationAddress: DecodeEntities(rec.Address),
		Postcode:            rec.Postcode,
		Region:              rec.Region,
		RegionText:          DecodeEntities(rec.RegionText),
		Coordinates:         rec.Coordinates,

		CpvCodes:               rec.CpvCodes,
		CpvCodesExtended:       rec.CpvCodesExtended,
		CpvDescription:         DecodeEntities(rec.CpvDescription),
		CpvDescriptionExpanded: DecodeEntities(rec.CpvDescriptionExpanded),

		ValueLow:        rec.ValueLow,
		ValueHigh:       rec.ValueHigh,
		AwardedValue:    rec.AwardedValue,
		AwardedSupplier: DecodeEntities(rec.AwardedSupplier),

		PublishedDate:        rec.PublishedDate,
		DeadlineDate:         rec.DeadlineDate,
		AwardedDate:          rec.AwardedDate,
		ApproachMarketDate:   rec.ApproachMarketDate,
		Start:                rec.Start,
		End:                  rec.End,
		LastNotifiableUpdate: coalesce(rec.LastNotifiableUpdate, rec.LastNotifableUpdate),

		IsSuitableForSme: rec.IsSuitableForSme,
		IsSuitableForVco: rec.IsSuitableForVco,

		Link: noticeLink(models.SourceContractsFinder, rec.ID),
	}

	// An upstream stage token only survives if it is one of the six labels;
	// anything else is left for the classifier to derive.
	if rec.ProcurementStage != nil {
		if stage, ok := models.ParseStage(*rec.ProcurementStage); ok {
			n.ProcurementStage = &stage
		}
	}

	return n
}

// MapFindTenderNotice finishes a Notice already flattened by ProjectRelease:
// field derivation happened there, so only decoding and the default title
// remain. Never fails.
func MapFindTenderNotice(n models.Notice) models.Notice {
	n.Source = models.SourceFindTender
	n.Title = DecodeEntities(n.Title)
	n.Description = DecodeEntities(n.Description)
	n.OrganisationName = DecodeEntities(n.OrganisationName)
	n.OrganisationAddress = DecodeEntities(n.OrganisationAddress)
	n.RegionText = DecodeEntities(n.RegionText)
	n.CpvDescription = DecodeEntities(n.CpvDescription)
	n.CpvDescriptionExpanded = DecodeEntities(n.CpvDescriptionExpanded)
	n.AwardedSupplier = DecodeEntities(n.AwardedSupplier)

	if n.Title == nil || *n.Title == "" {
		title := defaultFindTenderTitle
		n.Title = &title
	}
	if n.Link == "" {
		n.Link = noticeLink(models.SourceFindTender, n.ID)
	}
	return n
}

// noticeLink builds the deterministic per-notice URL, falling back to the
// service's search page when the id is missing.
func noticeLink(source models.Source, id string) string {
	switch source {
	case models.SourceFindTender:
		if id == "" {
			return findTenderSearchURL
		}
		return findTenderNoticeURL + id
	default:
		if id == "" {
			return contractsFinderSearchURL
		}
		return contractsFinderNoticeURL + id
	}
}

// coalesce returns the first non-nil, non-empty value.
func coalesce(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
