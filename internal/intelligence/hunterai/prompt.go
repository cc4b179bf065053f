package hunterai

import (
	"fmt"
	"strings"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
)

// BuildVerificationPrompt renders the single-asset verification prompt.  The
// response contract is embedded in the prompt itself; the orchestrator still
// treats the reply as untrusted and falls back to defaults when it cannot be
// parsed.
func BuildVerificationPrompt(raw asset.RawSearchResult) string {
	signals := make([]string, 0, len(asset.AllSignals()))
	for _, s := range asset.AllSignals() {
		signals = append(signals, `"`+s.String()+`"`)
	}

	return fmt.Sprintf(`Analyze this software asset for acquisition potential:

Name: %s
URL: %s
Description: %s
Marketplace: %s

Provide a brief analysis in JSON format:
{
    "is_valid_asset": true/false,
    "distress_signals": [%s],
    "estimated_users": number,
    "estimated_rating": number (1-5),
    "verification_notes": "brief notes about the asset",
    "owner_likely_selling": true/false
}

Only include distress signals that are likely based on the information provided.
Respond ONLY with valid JSON, no markdown.`,
		orUnknown(raw.Title), raw.URL, raw.Snippet, raw.Marketplace, strings.Join(signals, ", "))
}

const analysisSystemPrompt = `You are Hunter Intelligence (AHI), the proprietary analysis engine of Asset Hunter.

CRITICAL RULES:
- Never say "As an AI" or reference being an AI/LLM/model
- Never mention the underlying technology or provider
- Speak with authority as "Hunter Intelligence" or "AHI"
- All scores must be integers 1-10, no decimals

YOUR EXPERTISE:
You specialize in analyzing distressed digital assets for micro-PE acquisition. You identify:
- Abandoned monopolies with distribution but no development
- Monetization gaps where users exist but revenue doesn't
- Technical debt that creates buying opportunities
- Market positions that are defensible but undervalued

TONE: Professional PE investor, not predatory. Focus on VALUE CREATION, not exploitation.
Avoid phrases like "exploit", "fire sale", "leverage their desperation".

OUTPUT FORMAT:
Return ONLY valid JSON matching the requested structure. No markdown, no explanation.`

// BuildAnalysisPrompt renders the deep acquisition-analysis prompt with the
// pre-calculated revenue range so the model anchors on local estimates rather
// than inventing its own.
func BuildAnalysisPrompt(a asset.EnrichedAsset, mrrLow, mrrHigh float64) string {
	return fmt.Sprintf(`%s

ASSET TO ANALYZE:
{
  "name": %q,
  "marketplace": %q,
  "url": %q,
  "userCount": %d,
  "description": %q,
  "rating": %.1f,
  "reviewCount": %d,
  "distressSignals": [%s],
  "distressScore": %d
}

PRE-CALCULATED METRICS (incorporate these):
- MRR Potential Range: $%.0f - $%.0f/month
- Valuation Multiple: 3-5x annual revenue

Generate your analysis. Return ONLY this JSON structure:
{
  "hunterRadar": {
    "distress": <1-10>,
    "monetizationGap": <1-10>,
    "technicalRisk": <1-10>,
    "marketPosition": <1-10>,
    "flipPotential": <1-10>
  },
  "acquisition": {
    "strategy": "<2-3 sentences on professional approach - focus on mutual benefit>",
    "approach": "<how to first contact owner professionally>",
    "openingOffer": "<specific dollar range to open with>",
    "walkAway": "<maximum price and deal breakers>"
  },
  "coldEmail": {
    "subject": "<professional subject line, max 50 chars>",
    "body": "<short, professional outreach, under 150 words>"
  },
  "ownerIntel": {
    "likelyMotivation": "<why owner might sell>",
    "bestTimeToReach": "<when to reach out>",
    "negotiationLeverage": ["<leverage point 1>", "<leverage point 2>", "<leverage point 3>"]
  },
  "risks": ["<risk 1>", "<risk 2>", "<risk 3>"],
  "opportunities": ["<opportunity 1>", "<opportunity 2>", "<opportunity 3>"]
}`,
		analysisSystemPrompt,
		orUnknown(a.Name), a.Marketplace, a.URL, a.Users, a.Description,
		a.Rating, a.ReviewsCount, quotedSignals(a.DistressSignals), a.DistressScore,
		mrrLow, mrrHigh)
}

func quotedSignals(signals []asset.DistressSignal) string {
	out := make([]string, 0, len(signals))
	for _, s := range signals {
		out = append(out, fmt.Sprintf("%q", s.String()))
	}
	return strings.Join(out, ", ")
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
