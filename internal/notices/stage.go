package notices

import (
	"strings"

	"github.com/hwatkins/procurement-finder/internal/models"
)

// stagePatterns maps each stage to the substring hints that indicate it.
// Evaluation walks stages in lifecycle order and tests every candidate token
// against each hint list; the first stage with any hit wins. Hints are
// written in normalized form (lowercase, alphanumerics only) and matched by
// containment, not equality: upstream type/status vocabularies are too
// inconsistent for exact matching. The containment is deliberately broad:
// a token like "subcontract" matches the contract hints.
var stagePatterns = []struct {
	Stage models.Stage
	Hints []string
}{
	{models.StagePipeline, []string{"pipeline", "futureopportunity"}},
	{models.StagePlanning, []string{"planning", "preprocurement", "earlyengagement", "priorinformation"}},
	{models.StageTender, []string{"tender", "opportunity", "contractnotice"}},
	{models.StageAward, []string{"award"}},
	{models.StageContract, []string{"contract"}},
	{models.StageTermination, []string{"termination", "terminated", "cessation"}},
}

// DeriveStage classifies a notice into one of the six lifecycle stages.
// Resolution order: an explicit stage on the notice wins outright; Contracts
// Finder notices then get source-specific shortcut rules; generic token
// matching against the stage table runs last, with a Tender fallback for
// Contracts Finder contract-type notices. Returns false when nothing matches.
func DeriveStage(n models.Notice) (models.Stage, bool) {
	if n.ProcurementStage != nil {
		if stage, ok := models.ParseStage(string(*n.ProcurementStage)); ok {
			return stage, true
		}
	}

	if n.Source == models.SourceContractsFinder {
		if stage, ok := contractsFinderShortcut(n); ok {
			return stage, true
		}
	}

	if stage, ok := matchStageTokens(stageTokens(n)); ok {
		return stage, true
	}

	if n.Source == models.SourceContractsFinder && aliasType(strVal(n.NoticeType)) == "contract" {
		return models.StageTender, true
	}

	return "", false
}

// AttachStage derives and sets the stage on a copy of the notice. The stage
// field is nil when nothing is derivable.
func AttachStage(n models.Notice) models.Notice {
	if stage, ok := DeriveStage(n); ok {
		n.ProcurementStage = &stage
	} else {
		n.ProcurementStage = nil
	}
	return n
}

// contractsFinderShortcut applies the Contracts Finder type/status rules
// that pre-empt generic token matching.
func contractsFinderShortcut(n models.Notice) (models.Stage, bool) {
	noticeType := normalizeToken(strVal(n.NoticeType))
	status := normalizeToken(strVal(n.NoticeStatus))

	switch {
	case strings.Contains(noticeType, "pipeline"):
		return models.StagePipeline, true
	case strings.Contains(noticeType, "preprocurement"), strings.Contains(noticeType, "earlyengagement"):
		return models.StagePlanning, true
	case status == "open":
		return models.StageTender, true
	case status == "awarded":
		if n.Start != nil && *n.Start != "" {
			return models.StageContract, true
		}
		return models.StageAward, true
	case status == "closed":
		return models.StageTermination, true
	}
	return "", false
}

// stageTokens builds the candidate token list in priority order: the notice
// type first, then the explicit stage field, then the status, then signals
// inferred from populated fields.
func stageTokens(n models.Notice) []string {
	var tokens []string
	appendToken := func(raw string) {
		if t := normalizeToken(raw); t != "" {
			tokens = append(tokens, t)
		}
	}

	appendToken(strVal(n.NoticeType))
	if n.ProcurementStage != nil {
		appendToken(string(*n.ProcurementStage))
	}
	appendToken(strVal(n.NoticeStatus))

	if n.AwardedDate != nil || n.AwardedValue != nil {
		tokens = append(tokens, "award")
	}
	if n.Start != nil {
		tokens = append(tokens, "contract")
	}
	if n.End != nil {
		tokens = append(tokens, "termination")
	}
	return tokens
}

// matchStageTokens walks the stage table in lifecycle order; the first
// stage with a hint contained in any candidate token wins.
func matchStageTokens(tokens []string) (models.Stage, bool) {
	for _, entry := range stagePatterns {
		for _, hint := range entry.Hints {
			for _, token := range tokens {
				if strings.Contains(token, hint) {
					return entry.Stage, true
				}
			}
		}
	}
	return "", false
}

// normalizeToken lowercases and strips everything but letters and digits so
// "Pre-Procurement" and "preprocurement" compare equal.
func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
