package coincap

import "strings"

// symbolToID maps ticker symbols to CoinCap asset IDs for the majors.
// Unknown symbols fall back to the lowercased ticker, which matches the
// CoinCap convention for most smaller assets.
var symbolToID = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"BNB":   "binance-coin",
	"SOL":   "solana",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"AVAX":  "avalanche",
	"DOT":   "polkadot",
	"MATIC": "polygon",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
	"ALGO":  "algorand",
	"VET":   "vechain",
	"FTM":   "fantom",
	"NEAR":  "near-protocol",
	"HBAR":  "hedera-hashgraph",
	"ICP":   "internet-computer",
	"APT":   "aptos",
	"ARB":   "arbitrum",
	"DOGE":  "dogecoin",
	"SHIB":  "shiba-inu",
	"LTC":   "litecoin",
	"BCH":   "bitcoin-cash",
	"XLM":   "stellar",
	"ETC":   "ethereum-classic",
	"FIL":   "filecoin",
	"XMR":   "monero",
	"AAVE":  "aave",
	"MKR":   "maker",
	"PEPE":  "pepe",
	"WIF":   "dogwifhat",
	"BONK":  "bonk",
}

// topSymbols is the ranking universe ordered roughly by market cap.
var topSymbols = []string{
	"BTC", "ETH", "BNB", "SOL", "XRP", "ADA", "AVAX", "DOT", "MATIC",
	"LINK", "UNI", "ATOM", "DOGE", "SHIB", "ALGO", "VET", "FTM", "NEAR",
	"HBAR", "ICP", "APT", "ARB", "LTC", "BCH", "XLM", "ETC", "FIL",
	"XMR", "AAVE", "MKR", "PEPE", "WIF", "BONK",
}

// TopSymbols returns up to limit crypto symbols by market cap.
func TopSymbols(limit int) []string {
	if limit <= 0 || limit >= len(topSymbols) {
		out := make([]string, len(topSymbols))
		copy(out, topSymbols)
		return out
	}
	out := make([]string, limit)
	copy(out, topSymbols[:limit])
	return out
}

// Supports reports whether the symbol has a known CoinCap asset ID.
func Supports(symbol string) bool {
	_, ok := symbolToID[symbol]
	return ok
}

// AssetID resolves a ticker symbol to a CoinCap asset ID.
func AssetID(symbol string) string {
	if id, ok := symbolToID[symbol]; ok {
		return id
	}
	return strings.ToLower(symbol)
}
