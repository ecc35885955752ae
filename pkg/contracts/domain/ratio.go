package domain

// RatioRow is one computed observation: all derived ratios for a single
// (stock_code, year, quarter). Every declared ratio name is present in
// Ratios even when its value is nil; missing data is nil, never a
// missing key. Rows are immutable once computed.
type RatioRow struct {
	StockCode string              `json:"stock_code"`
	CorpName  string              `json:"corp_name"`
	Year      string              `json:"year"`
	Quarter   ReportPeriod        `json:"quarter"`
	Label     string              `json:"label"`
	Ratios    map[string]*float64 `json:"ratios"`
}

// Key returns the natural key of the observation. The persisted store
// keeps at most one row per key.
func (r RatioRow) Key() string {
	return r.StockCode + "_" + r.Year + "_" + string(r.Quarter)
}

// AllNil reports whether every one of the given ratio names is nil in
// this row. Used to detect an empty consolidated fetch before falling
// back to separate statements.
func (r RatioRow) AllNil(names []string) bool {
	for _, name := range names {
		if r.Ratios[name] != nil {
			return false
		}
	}
	return true
}
