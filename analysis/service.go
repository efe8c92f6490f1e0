// Package analysis is the generative-analysis gateway: it builds
// natural-language prompts from caller-supplied entity data, forwards
// them to the configured LLM backend, and normalizes the replies. Every
// operation is total — backend faults, malformed replies and timeouts
// all degrade to a typed fallback value and never escape to the caller.
package analysis

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	appconfig "bond-terminal/config"
	"bond-terminal/models"
	"bond-terminal/observability"
	"bond-terminal/services"
)

// Fallback values surfaced when an operation degrades. The presentation
// layer renders these directly, so they are user-facing notices rather
// than error messages.
const (
	InsightOfflineNotice        = "Analysis offline."
	BackgroundDefaultNotice     = "No background information available."
	BackgroundUnavailableNotice = "Issuer background could not be retrieved."
	MacroUnavailableNotice      = "Macro analysis is currently unavailable."
)

// Operation names used for logging and metrics labels.
const (
	OpInsight    = "insight"
	OpNews       = "news"
	OpMacro      = "macro"
	OpBackground = "background"
	OpFinancial  = "financial"
)

// Service is the gateway over a generative backend. It is constructed
// once at process start with its credentialed LLM client and injected
// into the request handlers.
type Service struct {
	llm         services.LLMService
	language    string
	currency    string
	unit        string
	newsCount   int
	newsMinLine int
	healthCache *HealthCache

	// now is injectable so tests get deterministic timestamps
	now func() time.Time
}

// New creates the gateway service.
func New(llm services.LLMService, cfg *appconfig.Config) *Service {
	ttl := time.Duration(cfg.Analysis.HealthCacheTTLSeconds) * time.Second
	return &Service{
		llm:         llm,
		language:    cfg.Analysis.Language,
		currency:    cfg.Analysis.ReportCurrency,
		unit:        cfg.Analysis.ReportUnit,
		newsCount:   cfg.Analysis.NewsItemCount,
		newsMinLine: cfg.Analysis.NewsMinLineRunes,
		healthCache: NewHealthCache(ttl),
		now:         time.Now,
	}
}

// TraderInsight generates a trading desk commentary for one bond. Any
// fault degrades to the fixed offline notice.
func (s *Service) TraderInsight(ctx context.Context, bond models.Bond) string {
	metrics := observability.GetMetrics()
	metrics.RecordAnalysisRequest(OpInsight)
	timer := metrics.NewTimer()

	text, err := s.llm.InvokeWithPrompt(ctx, services.Prompt{
		System: traderInsightSystem,
		User:   traderInsightPrompt(bond, s.language),
	})
	if err != nil || strings.TrimSpace(text) == "" {
		observability.WithOperation(OpInsight).Warn("degrading to offline notice", "error", err, "ticker", bond.Ticker)
		metrics.RecordAnalysisFallback(OpInsight, "backend_error")
		timer.ObserveAnalysis(OpInsight, "fallback")
		return InsightOfflineNotice
	}

	timer.ObserveAnalysis(OpInsight, "ok")
	return text
}

// IssuerNews fetches recent issuer-specific items through a
// web-search-grounded prompt and wraps the surviving reply lines into
// NewsItems. Any fault degrades to an empty, non-nil slice.
func (s *Service) IssuerNews(ctx context.Context, issuer, guarantor string) []models.NewsItem {
	metrics := observability.GetMetrics()
	metrics.RecordAnalysisRequest(OpNews)
	timer := metrics.NewTimer()

	text, err := s.llm.InvokeWithPrompt(ctx, services.Prompt{
		User:      issuerNewsPrompt(issuer, guarantor, s.newsCount, s.language),
		WebSearch: true,
	})
	if err != nil {
		observability.WithOperation(OpNews).Warn("degrading to empty news", "error", err, "issuer", issuer)
		metrics.RecordAnalysisFallback(OpNews, "backend_error")
		timer.ObserveAnalysis(OpNews, "fallback")
		return []models.NewsItem{}
	}

	items := s.wrapNewsLines(issuer, text)
	timer.ObserveAnalysis(OpNews, "ok")
	return items
}

// leadingPunct matches leading list markers and punctuation on reply lines.
var leadingPunct = regexp.MustCompile(`^[^\p{L}\p{N}]+`)

// wrapNewsLines splits an unstructured reply into candidate lines,
// discards lines at or below the minimum length, truncates to the
// configured count, and wraps each survivor into a NewsItem.
func (s *Service) wrapNewsLines(issuer, text string) []models.NewsItem {
	now := s.now()
	timeStr := now.Format("15:04")
	dateStr := now.Format("2006-01-02")

	items := make([]models.NewsItem, 0, s.newsCount)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) <= s.newsMinLine {
			continue
		}
		if len(items) == s.newsCount {
			break
		}
		items = append(items, models.NewsItem{
			ID:        "gen-" + uuid.NewString(),
			Timestamp: timeStr,
			Date:      dateStr,
			Title:     issuer + " market update",
			Summary:   leadingPunct.ReplaceAllString(line, ""),
			Sentiment: models.SentimentNeutral,
			Impact:    models.ImpactMedium,
			Tags:      []string{strings.ToUpper(issuer), "realtime"},
		})
	}
	return items
}

// MacroSummary condenses the supplied news into strategy advice. Only
// the titles are sent as context. Any fault degrades to the fixed
// unavailable notice.
func (s *Service) MacroSummary(ctx context.Context, news []models.NewsItem) string {
	metrics := observability.GetMetrics()
	metrics.RecordAnalysisRequest(OpMacro)
	timer := metrics.NewTimer()

	titles := make([]string, 0, len(news))
	for _, n := range news {
		titles = append(titles, n.Title)
	}

	text, err := s.llm.InvokeWithPrompt(ctx, services.Prompt{
		User: macroSummaryPrompt(titles, s.language),
	})
	if err != nil || strings.TrimSpace(text) == "" {
		observability.WithOperation(OpMacro).Warn("degrading to unavailable notice", "error", err)
		metrics.RecordAnalysisFallback(OpMacro, "backend_error")
		timer.ObserveAnalysis(OpMacro, "fallback")
		return MacroUnavailableNotice
	}

	timer.ObserveAnalysis(OpMacro, "ok")
	return text
}

// IssuerBackground generates a credit-analyst introduction of the
// issuer. A fault degrades to the not-available notice; an empty reply
// degrades to the default notice.
func (s *Service) IssuerBackground(ctx context.Context, issuer, guarantor string) string {
	metrics := observability.GetMetrics()
	metrics.RecordAnalysisRequest(OpBackground)
	timer := metrics.NewTimer()

	text, err := s.llm.InvokeWithPrompt(ctx, services.Prompt{
		User: issuerBackgroundPrompt(issuer, guarantor, s.language),
	})
	if err != nil {
		observability.WithOperation(OpBackground).Warn("degrading to unavailable notice", "error", err, "issuer", issuer)
		metrics.RecordAnalysisFallback(OpBackground, "backend_error")
		timer.ObserveAnalysis(OpBackground, "fallback")
		return BackgroundUnavailableNotice
	}
	if strings.TrimSpace(text) == "" {
		metrics.RecordAnalysisFallback(OpBackground, "empty_response")
		timer.ObserveAnalysis(OpBackground, "fallback")
		return BackgroundDefaultNotice
	}

	timer.ObserveAnalysis(OpBackground, "ok")
	return text
}

// FinancialAnalysis extracts a normalized financial snapshot for the
// issuer through a schema-constrained, web-search-grounded request. A
// parse failure or a snapshot missing any always-required field
// degrades to nil — never a partially filled record.
func (s *Service) FinancialAnalysis(ctx context.Context, issuer string) *models.Financials {
	metrics := observability.GetMetrics()
	metrics.RecordAnalysisRequest(OpFinancial)
	timer := metrics.NewTimer()

	var fin models.Financials
	err := s.llm.InvokeStructured(ctx, services.Prompt{
		User:      financialAnalysisPrompt(issuer, s.currency, s.unit, s.language),
		WebSearch: true,
	}, financialSchema, &fin)
	if err != nil {
		observability.WithOperation(OpFinancial).Warn("degrading to absent snapshot", "error", err, "issuer", issuer)
		metrics.RecordAnalysisFallback(OpFinancial, "backend_error")
		timer.ObserveAnalysis(OpFinancial, "fallback")
		return nil
	}
	if !fin.Complete() {
		observability.WithOperation(OpFinancial).Warn("incomplete snapshot discarded", "issuer", issuer)
		metrics.RecordAnalysisFallback(OpFinancial, "incomplete")
		timer.ObserveAnalysis(OpFinancial, "fallback")
		return nil
	}

	timer.ObserveAnalysis(OpFinancial, "ok")
	return &fin
}

// IsAvailable checks whether the generative backend answers at all.
// Results are cached to keep health probes cheap.
func (s *Service) IsAvailable(ctx context.Context) bool {
	if available, valid := s.healthCache.Get(); valid {
		return available
	}

	_, err := s.llm.InvokeWithPrompt(ctx, services.Prompt{User: "Reply with OK."})
	available := err == nil
	s.healthCache.Set(available)
	return available
}

// InvalidateHealthCache clears the health cache, forcing the next check
// to make a live call.
func (s *Service) InvalidateHealthCache() {
	s.healthCache.Invalidate()
}
