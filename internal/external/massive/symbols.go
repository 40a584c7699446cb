package massive

// Curated symbol lists. A maintained index feed would replace these;
// for now the most liquid names cover the ranking universe well.

var sp500Symbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK.B",
	"UNH", "JPM", "V", "XOM", "HD", "PG", "MA", "COST", "ABBV", "AVGO",
	"DIS", "NFLX", "AMD", "LLY", "MRK", "PEP", "KO", "WMT", "BAC", "CRM",
	"TMO", "MCD", "CSCO", "ACN", "ADBE", "LIN", "ABT", "ORCL", "DHR",
	"TXN", "WFC", "PM", "INTU", "CAT", "GE", "AMGN", "IBM", "NOW", "QCOM",
	"UNP", "NKE", "HON", "LOW", "SPGI", "GS", "RTX", "BKNG", "ELV", "PLD",
	"ISRG", "SBUX", "BLK", "MDLZ", "DE", "GILD", "AXP", "ADI", "TJX",
	"LMT", "SYK", "VRTX", "MMC", "SCHW", "C", "ADP", "AMT", "CVS", "MO",
	"ZTS", "CI", "CB", "PGR", "FI",
}

var majorETFs = []string{
	// Broad market
	"SPY", "QQQ", "DIA", "IWM", "VTI", "EFA", "EEM",
	// Sectors
	"XLE", "XLF", "XLK", "XLV", "XLI", "XLP", "XLY", "XLU", "XLB", "XLRE",
	// Commodities
	"GLD", "SLV", "USO", "UNG", "DBA", "DBC",
	// Fixed income
	"TLT", "IEF", "HYG", "LQD",
}

// SP500Symbols returns up to limit S&P 500 stock symbols.
func SP500Symbols(limit int) []string {
	return truncate(sp500Symbols, limit)
}

// MajorETFs returns up to limit major ETF symbols.
func MajorETFs(limit int) []string {
	return truncate(majorETFs, limit)
}

func truncate(symbols []string, limit int) []string {
	if limit <= 0 || limit >= len(symbols) {
		out := make([]string, len(symbols))
		copy(out, symbols)
		return out
	}
	out := make([]string, limit)
	copy(out, symbols[:limit])
	return out
}
