package domain

// CompanyRef identifies one company for a batch run. It is resolved once
// per run (corp_code lookup) and cached in memory only; persisted output
// carries stock_code, corp_name and label but never corp_code.
type CompanyRef struct {
	StockCode string `json:"stock_code" validate:"omitempty,len=6"`
	CorpName  string `json:"corp_name"`
	CorpCode  string `json:"corp_code,omitempty" validate:"omitempty,len=8"`
	Label     string `json:"label"`
	Sector    string `json:"sector,omitempty"`
}

// SectorOrDefault returns the company's sector label, falling back to
// "Unknown" for archive partitioning when none was supplied.
func (c CompanyRef) SectorOrDefault() string {
	if c.Sector == "" {
		return "Unknown"
	}
	return c.Sector
}

// CorpCode is one row of the OpenDART corpCode.xml lookup table.
type CorpCode struct {
	CorpCode   string `xml:"corp_code"`
	CorpName   string `xml:"corp_name"`
	StockCode  string `xml:"stock_code"`
	ModifyDate string `xml:"modify_date"`
}
