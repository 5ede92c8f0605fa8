package notices

// ContractsFinderRecord is one raw hit from the Contracts Finder search API.
// The feed is flat but loosely populated: most fields are optional, and the
// "last notifiable update" field is spelled two ways across API versions
// (the live feed carries the lastNotifableUpdate typo).
type ContractsFinderRecord struct {
	ID               string  `json:"id"`
	ParentID         *string `json:"parentId"`
	NoticeIdentifier *string `json:"noticeIdentifier"`

	Title       *string `json:"title"`
	Description *string `json:"description"`

	NoticeType       *string `json:"noticeType"`
	NoticeStatus     *string `json:"noticeStatus"`
	ProcurementStage *string `json:"procurementStage"`

	OrganisationName *string `json:"organisationName"`
	Address          *string `json:"address"`
	Postcode         *string `json:"postcode"`
	Region           *string `json:"region"`
	RegionText       *string `json:"regionText"`
	Coordinates      *string `json:"coordinates"`

	CpvCodes               *string `json:"cpvCodes"`
	CpvCodesExtended       *string `json:"cpvCodesExtended"`
	CpvDescription         *string `json:"cpvDescription"`
	CpvDescriptionExpanded *string `json:"cpvDescriptionExpanded"`

	ValueLow        *float64 `json:"valueLow"`
	ValueHigh       *float64 `json:"valueHigh"`
	AwardedValue    *float64 `json:"awardedValue"`
	AwardedSupplier *string  `json:"awardedSupplier"`

	PublishedDate      string  `json:"publishedDate"`
	DeadlineDate       *string `json:"deadlineDate"`
	AwardedDate        *string `json:"awardedDate"`
	ApproachMarketDate *string `json:"approachMarketDate"`
	Start              *string `json:"start"`
	End                *string `json:"end"`

	// Both spellings observed upstream; coalesced by the mapper.
	LastNotifiableUpdate *string `json:"lastNotifiableUpdate"`
	LastNotifableUpdate  *string `json:"lastNotifableUpdate"`

	IsSuitableForSme *bool `json:"isSuitableForSme"`
	IsSuitableForVco *bool `json:"isSuitableForVco"`
}

// ReleasePackage is an OCDS release-package document from the Find a Tender
// detail API. Only the fields the projector reads are modelled.
type ReleasePackage struct {
	URI      string    `json:"uri"`
	Releases []Release `json:"releases"`
}

// Release is one timed snapshot of a procurement process.
type Release struct {
	ID        string     `json:"id"`
	OCID      string     `json:"ocid"`
	Date      string     `json:"date"`
	Tag       []string   `json:"tag"`
	Buyer     *OrgRef    `json:"buyer"`
	Parties   []Party    `json:"parties"`
	Planning  *Planning  `json:"planning"`
	Tender    *Tender    `json:"tender"`
	Awards    []Award    `json:"awards"`
	Contracts []Contract `json:"contracts"`
}

type OrgRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Party struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Roles   []string      `json:"roles"`
	Address *Address      `json:"address"`
	Details *PartyDetails `json:"details"`
}

type PartyDetails struct {
	Scale string `json:"scale"`
}

type Address struct {
	StreetAddress string `json:"streetAddress"`
	Locality      string `json:"locality"`
	Region        string `json:"region"`
	Postcode      string `json:"postalCode"`
	CountryName   string `json:"countryName"`
}

type Planning struct {
	Budget *Budget `json:"budget"`
}

type Budget struct {
	Amount          *Value       `json:"amount"`
	BudgetBreakdown []BudgetLine `json:"budgetBreakdown"`
}

type BudgetLine struct {
	ID     string `json:"id"`
	Amount *Value `json:"amount"`
}

type Value struct {
	Amount        *float64 `json:"amount"`
	MaximumAmount *float64 `json:"maximumAmount"`
	Currency      string   `json:"currency"`
}

type Tender struct {
	ID                       string           `json:"id"`
	Title                    string           `json:"title"`
	Description              string           `json:"description"`
	Status                   string           `json:"status"`
	ProcurementMethodDetails string           `json:"procurementMethodDetails"`
	Value                    *Value           `json:"value"`
	TenderPeriod             *Period          `json:"tenderPeriod"`
	ContractPeriod           *Period          `json:"contractPeriod"`
	Classification           *Classification  `json:"classification"`
	Items                    []TenderItem     `json:"items"`
	Suitability              []string         `json:"suitability"`
	Documents                []OCDSDocument   `json:"documents"`
}

type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Classification struct {
	Scheme      string `json:"scheme"`
	ID          string `json:"id"`
	Description string `json:"description"`
}

type TenderItem struct {
	ID                        string           `json:"id"`
	Classification            *Classification  `json:"classification"`
	AdditionalClassifications []Classification `json:"additionalClassifications"`
	DeliveryAddresses         []Address        `json:"deliveryAddresses"`
	DeliveryLocations         []Location       `json:"deliveryLocations"`
}

type Location struct {
	Description string    `json:"description"`
	Gazetteer   *Gazetteer `json:"gazetteer"`
	Geometry    *Geometry  `json:"geometry"`
}

type Gazetteer struct {
	Scheme      string   `json:"scheme"`
	Identifiers []string `json:"identifiers"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type Award struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	Date      string   `json:"date"`
	Value     *Value   `json:"value"`
	Suppliers []OrgRef `json:"suppliers"`
}

type Contract struct {
	ID         string         `json:"id"`
	AwardID    string         `json:"awardID"`
	Status     string         `json:"status"`
	DateSigned string         `json:"dateSigned"`
	Value      *Value         `json:"value"`
	Period     *Period        `json:"period"`
	Documents  []OCDSDocument `json:"documents"`
}

type OCDSDocument struct {
	ID           string `json:"id"`
	DocumentType string `json:"documentType"`
	NoticeType   string `json:"noticeType"`
}
