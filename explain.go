package hbench

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	genai "google.golang.org/genai"
)

// Audience categorizes who a classification is being explained to. The
// wording of the deterministic fallback templates depends on it.
type Audience string

const (
	AudienceTechnical    Audience = "technical"
	AudienceNonTechnical Audience = "non-technical"
	AudienceManagerial   Audience = "managerial"
	AudienceEndUser      Audience = "end-user"
)

// Validate rejects unknown audience categories.
func (a Audience) Validate() error {
	switch a {
	case AudienceTechnical, AudienceNonTechnical, AudienceManagerial, AudienceEndUser:
		return nil
	default:
		return invalidf("audience", "unknown category %q", string(a))
	}
}

// ExplanationSource tags where an explanation came from.
type ExplanationSource string

const (
	SourceAI       ExplanationSource = "AI"
	SourceFallback ExplanationSource = "LOCAL_FALLBACK"
)

// Narrator turns a classified ranking entry into free text for an
// audience. The model-backed implementation lives behind this interface so
// that the core never depends on a narrator being reachable: see
// ExplainWithFallback.
type Narrator interface {
	Explain(ctx context.Context, entry RankingEntry, audience Audience) (string, error)
}

// GeminiNarrator narrates classifications through the Gemini API. The
// client reads its credentials from the environment (GEMINI_API_KEY).
type GeminiNarrator struct {
	cli   *genai.Client
	model string
}

// NewGeminiNarrator dials the Gemini backend. An empty model selects
// gemini-2.0-flash.
func NewGeminiNarrator(ctx context.Context, model string) (*GeminiNarrator, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiNarrator{cli: cli, model: model}, nil
}

// Explain asks the model for a short, audience-targeted explanation of the
// classification.
func (g *GeminiNarrator) Explain(ctx context.Context, entry RankingEntry, audience Audience) (string, error) {
	if err := validateEntry(entry); err != nil {
		return "", err
	}
	if err := audience.Validate(); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"The system classified scenario %q as %s. Explain why it was classified "+
			"that way for a %s listener, in clear and actionable language. "+
			"Details: H_eff=%.2f, degradation rate dH_eff/dt=%.2f. "+
			"Alpha means high effective slack and slow degradation, Beta moderate "+
			"slack, Gamma low slack or fast degradation.",
		entry.Name, entry.Tier, audience, entry.HEff, entry.DHEffDt,
	)

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("explain: empty model response")
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("explain: empty model response")
	}
	return text, nil
}

// TemplateExplanation is the deterministic local narration: a fixed
// per-audience template over the classification output. It needs nothing
// beyond the entry itself, which makes it a safe fallback when the
// model-backed narrator is unreachable.
func TemplateExplanation(entry RankingEntry, audience Audience) (string, error) {
	if err := validateEntry(entry); err != nil {
		return "", err
	}
	if err := audience.Validate(); err != nil {
		return "", err
	}

	header := fmt.Sprintf("Scenario: %s\nClassification: %s\n", entry.Name, entry.Tier)
	switch audience {
	case AudienceTechnical:
		return header + fmt.Sprintf(
			"Effective slack (H_eff): %.2f\nDegradation rate (dH_eff/dt): %.2f\n"+
				"Model: simplified linear decay.",
			entry.HEff, entry.DHEffDt), nil
	case AudienceNonTechnical:
		return header +
			"The classification depends on how much slack the system has and how " +
			"fast it degrades. Alpha means high health, Beta intermediate, Gamma " +
			"elevated risk.", nil
	case AudienceManagerial:
		return header +
			"Business impact: fast degradation raises operational risk and " +
			"maintenance cost. Recommendation: prioritize early mitigation for " +
			"Beta/Gamma scenarios.", nil
	case AudienceEndUser:
		return header +
			"This classification summarizes how stable the system is today and " +
			"its trend. Alpha is usually stable; Gamma needs prompt attention.", nil
	default:
		return "", invalidf("audience", "unknown category %q", string(audience))
	}
}

// ExplainWithFallback tries the narrator and, when it fails (or none is
// configured), falls back to the deterministic template. The returned
// source tells the presentation layer which path produced the text.
// Validation failures on the entry or audience are still errors: a bad
// input is not something to narrate around.
func ExplainWithFallback(ctx context.Context, n Narrator, entry RankingEntry, audience Audience) (string, ExplanationSource, error) {
	if err := validateEntry(entry); err != nil {
		return "", "", err
	}
	if err := audience.Validate(); err != nil {
		return "", "", err
	}

	if n != nil {
		text, err := n.Explain(ctx, entry, audience)
		if err == nil {
			return text, SourceAI, nil
		}
		slog.Warn("narrator failed, using local template", "scenario", entry.Name, "err", err)
	}

	text, err := TemplateExplanation(entry, audience)
	if err != nil {
		return "", "", err
	}
	return text, SourceFallback, nil
}

// validateEntry checks a ranking entry before narration.
func validateEntry(entry RankingEntry) error {
	if strings.TrimSpace(entry.Name) == "" {
		return invalidf("scenario name", "must be a non-empty string")
	}
	if math.IsNaN(entry.HEff) || math.IsInf(entry.HEff, 0) || entry.HEff <= 0 {
		return invalidf("H_eff", "must be a positive finite number, got %v", entry.HEff)
	}
	if math.IsNaN(entry.DHEffDt) || math.IsInf(entry.DHEffDt, 0) || entry.DHEffDt < 0 {
		return invalidf("dH_eff_dt", "must be a finite non-negative number, got %v", entry.DHEffDt)
	}
	switch entry.Tier {
	case TierAlpha, TierBeta, TierGamma:
		return nil
	default:
		return invalidf("tier", "unknown classification %q", string(entry.Tier))
	}
}
