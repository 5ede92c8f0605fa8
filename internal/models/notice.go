package models

// Source identifies which upstream a notice came from.
type Source string

const (
	SourceContractsFinder Source = "cf"
	SourceFindTender      Source = "fts"
)

// Stage is one of the six procurement lifecycle labels, in lifecycle order.
type Stage string

const (
	StagePipeline    Stage = "Pipeline"
	StagePlanning    Stage = "Planning"
	StageTender      Stage = "Tender"
	StageAward       Stage = "Award"
	StageContract    Stage = "Contract"
	StageTermination Stage = "Termination"
)

// StageOrder lists the stages in the order the classifier evaluates them.
var StageOrder = []Stage{
	StagePipeline,
	StagePlanning,
	StageTender,
	StageAward,
	StageContract,
	StageTermination,
}

// Notice is the unified procurement record, regardless of origin.
// IDs are source-scoped and not globally unique across sources.
// All optional fields are pointers: absent upstream data is nil, never "".
type Notice struct {
	ID               string  `json:"id"`
	ParentID         *string `json:"parentId,omitempty"`
	NoticeIdentifier *string `json:"noticeIdentifier,omitempty"`
	Source           Source  `json:"source"`

	Title       *string `json:"title"`
	Description *string `json:"description"`

	NoticeType       *string `json:"noticeType"`
	NoticeStatus     *string `json:"noticeStatus"`
	ProcurementStage *Stage  `json:"procurementStage"`

	OrganisationName    *string `json:"organisationName"`
	OrganisationAddress *string `json:"organisationAddress,omitempty"`
	Postcode            *string `json:"postcode,omitempty"`
	Region              *string `json:"region,omitempty"`
	RegionText          *string `json:"regionText,omitempty"`
	Coordinates         *string `json:"coordinates,omitempty"`

	CpvCodes               *string `json:"cpvCodes,omitempty"`
	CpvCodesExtended       *string `json:"cpvCodesExtended,omitempty"`
	CpvDescription         *string `json:"cpvDescription,omitempty"`
	CpvDescriptionExpanded *string `json:"cpvDescriptionExpanded,omitempty"`

	ValueLow        *float64 `json:"valueLow"`
	ValueHigh       *float64 `json:"valueHigh"`
	AwardedValue    *float64 `json:"awardedValue,omitempty"`
	AwardedSupplier *string  `json:"awardedSupplier,omitempty"`

	PublishedDate        string  `json:"publishedDate"`
	DeadlineDate         *string `json:"deadlineDate"`
	AwardedDate          *string `json:"awardedDate,omitempty"`
	ApproachMarketDate   *string `json:"approachMarketDate,omitempty"`
	Start                *string `json:"start,omitempty"`
	End                  *string `json:"end,omitempty"`
	LastNotifiableUpdate *string `json:"lastNotifiableUpdate,omitempty"`

	IsSuitableForSme *bool `json:"isSuitableForSme,omitempty"`
	IsSuitableForVco *bool `json:"isSuitableForVco,omitempty"`
	AwardedToSme     *bool `json:"awardedToSme,omitempty"`
	AwardedToVcse    *bool `json:"awardedToVcse,omitempty"`

	Link string `json:"link"`
}

// ParseStage maps an arbitrary stage token onto one of the six labels.
// Matching is case-insensitive and ignores punctuation. Returns false for
// anything that is not exactly one of the six.
func ParseStage(token string) (Stage, bool) {
	norm := normalizeLabel(token)
	for _, s := range StageOrder {
		if norm == normalizeLabel(string(s)) {
			return s, true
		}
	}
	return "", false
}

func normalizeLabel(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	return string(out)
}
