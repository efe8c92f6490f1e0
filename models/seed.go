package models

import (
	"fmt"
	"math/rand"
	"strings"
)

// seedISINs is the instrument pool the mock watchlist is generated from.
var seedISINs = []string{
	"US91282CFM82", "US91282CPK17", "US91282CMD01", "US91282CJJ18", "US91282CNC19",
	"US912810QA97", "US912810TU25", "US912810TZ12", "US912810RK60", "US912810SN90",
	"USY5S5CGAK82", "USY5S5CGAL65", "US37045VAY65", "US44891CCG69", "US44891CCH43",
	"USG2176UAA81", "US037833EC07", "US023135BF28", "US254687FX90", "US30303M8S40",
	"XS1994698436", "US438127AB80", "AU0000075681", "AU000XCLWAR9", "AU0000300535",
	"GB00BPSNB460", "GB00BSQNRD01", "US24023LAF31", "XS2911668650", "AU3CB0249357",
	"NZGOVDT427C1", "NZGOVDT530C2", "NZGOVDT541C9", "US56501RAN61", "XS2357280101",
	"DE000A3LSYG8", "DE000A382988", "XS2389383766", "HK0000492725", "US594918AX20",
	"XS1720922415", "US191216DY38", "HK0001151395", "DE000BU27006", "AU3SG0002082",
	"HK0001179586", "US171239AM89", "US097023CY98", "AU3CB0283182", "NZANBDT026C2",
	"US458140CN85", "US68389XDH52", "CA135087H235", "CA135087T388", "HK0001179263",
	"US254687FY73", "US02079KAX54", "US02079KAE73", "XS3007631032", "US01609WBM38",
}

// issuerProfile groups the static attributes inferred from an ISIN prefix.
type issuerProfile struct {
	issuer   string
	currency Currency
	sector   string
	ratings  Ratings
}

func profileFor(isin string, index int) issuerProfile {
	switch {
	case strings.HasPrefix(isin, "US9128"):
		return issuerProfile{"US Treasury", CurrencyUSD, "Sovereign",
			Ratings{Moodys: "Aaa", SNP: "AA+", Fitch: "AA+"}}
	case strings.HasPrefix(isin, "HK"):
		issuer := "HKSAR Government"
		if index%2 != 0 {
			issuer = "Airport Authority Hong Kong"
		}
		return issuerProfile{issuer, CurrencyHKD, "Government/Utility",
			Ratings{Moodys: "Aa3", SNP: "AA+", Fitch: "AA-"}}
	case strings.HasPrefix(isin, "AU"):
		return issuerProfile{"Commonwealth of Australia (ACGB)", CurrencyUSD, "Sovereign",
			Ratings{Moodys: "Aaa", SNP: "AAA", Fitch: "AAA"}}
	case strings.HasPrefix(isin, "NZ"):
		return issuerProfile{"New Zealand Government (NZGB)", CurrencyUSD, "Sovereign",
			Ratings{Moodys: "Aaa", SNP: "AAA", Fitch: "AAA"}}
	case strings.HasPrefix(isin, "DE"):
		return issuerProfile{"Federal Republic of Germany (Bund)", CurrencyEUR, "Sovereign",
			Ratings{Moodys: "Aaa", SNP: "AAA", Fitch: "AAA"}}
	case strings.HasPrefix(isin, "GB"):
		// Gilts are quoted in EUR on the international terminal feed
		return issuerProfile{"UK Treasury (Gilt)", CurrencyEUR, "Government",
			Ratings{Moodys: "Aa3", SNP: "AA", Fitch: "AA-"}}
	case strings.HasPrefix(isin, "CA"):
		return issuerProfile{"Government of Canada", CurrencyUSD, "Sovereign",
			Ratings{Moodys: "Aaa", SNP: "AAA", Fitch: "AAA"}}
	case strings.HasPrefix(isin, "XS"), strings.HasPrefix(isin, "USY"), strings.HasPrefix(isin, "USU"), strings.HasPrefix(isin, "USG"):
		return issuerProfile{"Corporate/Multinational Issuer", CurrencyUSD, "Credit",
			Ratings{Moodys: "Baa1", SNP: "BBB+", Fitch: "BBB"}}
	default:
		return issuerProfile{"Corporate Issuer", CurrencyUSD, "Credit",
			Ratings{Moodys: "Baa1", SNP: "BBB+", Fitch: "BBB"}}
	}
}

// SeedWatchlist generates the mock watchlist from the ISIN pool. Market
// values are drawn from rng so tests can seed them deterministically.
func SeedWatchlist(rng *rand.Rand) []Bond {
	bonds := make([]Bond, 0, len(seedISINs))
	for i, isin := range seedISINs {
		p := profileFor(isin, i)

		price := 85 + rng.Float64()*20
		yield := 3 + rng.Float64()*4
		maturityYear := 2025 + rng.Intn(25)

		bonds = append(bonds, Bond{
			ID:             fmt.Sprintf("b-%d", i),
			Ticker:         isin,
			Issuer:         p.issuer,
			Coupon:         round3(2.5 + rng.Float64()*3),
			Maturity:       fmt.Sprintf("%d-06-15", maturityYear),
			Price:          round3(price),
			Yield:          round3(yield),
			YieldChangeBps: round1((rng.Float64() - 0.5) * 10),
			Duration:       1 + rng.Float64()*15,
			Currency:       p.currency,
			Sector:         p.sector,
			Ratings:        p.ratings,
		})
	}
	return bonds
}

// SeedRates returns the static reference rates for the session.
func SeedRates() []MarketRate {
	return []MarketRate{
		{Label: "UST 10Y", Rate: 4.22, Change: -0.01, Currency: "USD"},
		{Label: "UST 2Y", Rate: 4.58, Change: 0.02, Currency: "USD"},
		{Label: "SOFR", Rate: 5.31, Change: 0.00, Currency: "USD"},
		{Label: "EURIBOR 3M", Rate: 3.85, Change: -0.02, Currency: "EUR"},
		{Label: "HIBOR 3M", Rate: 4.65, Change: 0.05, Currency: "HKD"},
	}
}

// SeedNews returns the static seed entries for the news feed.
func SeedNews() []NewsItem {
	return []NewsItem{
		{
			ID:        "n1",
			Timestamp: "15:30",
			Date:      "2024-05-22",
			Title:     "Global government bond yields swing",
			Summary:   "US, Australian and New Zealand sovereign yields edged higher in tandem as inflation expectations were repriced.",
			Sentiment: SentimentNeutral,
			Impact:    ImpactMedium,
			Tags:      []string{"UST", "ACGB", "NZGB"},
		},
		{
			ID:        "n2",
			Timestamp: "11:15",
			Date:      "2024-05-22",
			Title:     "Strong demand for Hong Kong government paper",
			Summary:   "Local institutional investors showed firm interest in long-end HK government bonds, keeping spreads near the lows.",
			Sentiment: SentimentPositive,
			Impact:    ImpactLow,
			Tags:      []string{"HKGB", "liquidity"},
		},
	}
}

func round3(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}

func round1(v float64) float64 {
	if v < 0 {
		return float64(int64(v*10-0.5)) / 10
	}
	return float64(int64(v*10+0.5)) / 10
}
