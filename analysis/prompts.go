package analysis

import (
	"fmt"
	"strings"

	"bond-terminal/models"
	"bond-terminal/services"
)

const traderInsightSystem = `You are a senior fixed-income trader at an institutional desk.
Given a bond's market data, analyze its spread risk and valuation in a few tight sentences.
Do not restate the input data back to the reader.`

func traderInsightPrompt(bond models.Bond, language string) string {
	return fmt.Sprintf(`Senior bond trader insight:
Ticker: %s
Issuer: %s
Yield: %g%% (change: %gbps)
Ratings: Moody's %s, S&P %s, Fitch %s
Analyze the spread risk and valuation. Language: %s.`,
		bond.Ticker,
		bond.Issuer,
		bond.Yield,
		bond.YieldChangeBps,
		bond.Ratings.Moodys,
		bond.Ratings.SNP,
		bond.Ratings.Fitch,
		language,
	)
}

func issuerNewsPrompt(issuer, guarantor string, count int, language string) string {
	query := issuer
	if guarantor != "" {
		query = fmt.Sprintf("%s and %s", issuer, guarantor)
	}
	return fmt.Sprintf(`Provide the %d most recent financial news items, earnings highlights, or credit rating changes about %s.
Write one item per line, plain prose, no numbering headers. Language: %s.`,
		count, query, language)
}

func macroSummaryPrompt(titles []string, language string) string {
	return fmt.Sprintf(`Summarize macro strategy advice for a trader based on the following news: %s. Language: %s.`,
		strings.Join(titles, "; "), language)
}

func issuerBackgroundPrompt(issuer, guarantor string, language string) string {
	entity := issuer
	if guarantor != "" {
		entity = fmt.Sprintf("%s (guaranteed by %s)", issuer, guarantor)
	}
	return fmt.Sprintf(`As a senior credit analyst, provide a professional introduction of "%s".
Focus on its business model, market position and credit standing.
No more than 200 words. Language: %s.`, entity, language)
}

func financialAnalysisPrompt(issuer, currency, unit, language string) string {
	return fmt.Sprintf(`Analyze the latest financial statements of the company "%s".
1. Determine the original reporting currency and unit.
2. Convert all monetary amounts (total assets, total liabilities, cash, etc.) precisely into %s.
3. Report values in %s of %s.
4. Extract the report date or quarter the figures belong to (for example: FY2023 or 2024 Q3).
5. All output must be in %s.
Values must contain only digits and thousands separators, with no units attached.`,
		issuer, currency, unit, currency, language)
}

// financialSchema declares the constrained output shape for the
// financial-analysis operation.
var financialSchema = &services.ResponseSchema{
	Fields: []services.SchemaField{
		{Name: "totalAssets"},
		{Name: "totalLiabilities"},
		{Name: "debtRatio"},
		{Name: "currentRatio"},
		{Name: "quickRatio"},
		{Name: "cashEquivalents"},
		{Name: "grossMargin"},
		{Name: "netMargin"},
		{Name: "eps"},
		{Name: "peg"},
		{Name: "reportDate", Description: "date or period of the source financial report"},
	},
	Required: []string{"totalAssets", "debtRatio", "reportDate"},
}
