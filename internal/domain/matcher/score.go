package matcher

import "strings"

// Hint tags attached to a pair's explanation when positive evidence is found.
const (
	HintTransferKeyword    = "transfer-keyword"
	HintReferenceIDMatch   = "reference-id-match"
	HintPayIDMatch         = "pay-id-match"
	HintAccountKeyClosure  = "account-key-closure-out-to-in"
	HintAccountKeyClosureR = "account-key-closure-in-to-out"
	HintNameClosure        = "name-closure-out-to-in"
	HintNameClosureR       = "name-closure-in-to-out"
)

// Penalty tags. Penalties are emitted, not silently subtracted, so they stay
// visible in the explanation.
const (
	PenaltyNoTransferHints = "no-transfer-hints"
	PenaltyMerchantLike    = "merchant-like-description"
	PenaltyAmbiguous       = "ambiguous-candidates"
)

// Scoring weight table. The exact values are tunable; the ordering contracts
// pinned by tests are what matter: a larger date gap never raises a score,
// each penalty lowers it, and an exact reference-id or pay-id match scores
// strictly above an otherwise identical pair without one. Hints compound
// asymptotically toward 1.0 (s += w * (1 - s)), so the score stays strictly
// below 1.0 and the strict-ordering contract holds without a hard cap.
const (
	baseScore   = 0.60
	dateGapStep = 0.04
	scoreFloor  = 0.0
)

var hintWeights = map[string]float64{
	HintTransferKeyword:    0.40,
	HintReferenceIDMatch:   0.60,
	HintPayIDMatch:         0.55,
	HintAccountKeyClosure:  0.50,
	HintAccountKeyClosureR: 0.50,
	HintNameClosure:        0.25,
	HintNameClosureR:       0.25,
}

var penaltyWeights = map[string]float64{
	PenaltyNoTransferHints: 0.20,
	PenaltyMerchantLike:    0.15,
	PenaltyAmbiguous:       0.10,
}

// Score fills in the pair's explanation: hint tags, penalty tags and the
// confidence score. The boundary set plays no part here; boundary membership
// is applied after assignment by the boundary classifier.
func Score(p *CandidatePair) {
	expl := ScoreExplanation{
		AmountMinor:  p.AmountMinor,
		DateDiffDays: p.DateDiffDays,
		SameAccount:  p.SameAccount,
	}

	out, in := p.OutEvidence, p.InEvidence

	if len(out.Hints) > 0 || len(in.Hints) > 0 {
		expl.Hints = append(expl.Hints, HintTransferKeyword)
	}
	if out.ReferenceID != "" && out.ReferenceID == in.ReferenceID {
		expl.Hints = append(expl.Hints, HintReferenceIDMatch)
	}
	if out.PayID != "" && out.PayID == in.PayID {
		expl.Hints = append(expl.Hints, HintPayIDMatch)
	}
	if out.CounterpartyAccountKey != "" && out.CounterpartyAccountKey == in.SelfAccountKey {
		expl.Hints = append(expl.Hints, HintAccountKeyClosure)
	}
	if in.CounterpartyAccountKey != "" && in.CounterpartyAccountKey == out.SelfAccountKey {
		expl.Hints = append(expl.Hints, HintAccountKeyClosureR)
	}
	if namesClose(out.CounterpartyName, in.SelfAccountName) {
		expl.Hints = append(expl.Hints, HintNameClosure)
	}
	if namesClose(in.CounterpartyName, out.SelfAccountName) {
		expl.Hints = append(expl.Hints, HintNameClosureR)
	}

	if !out.HasTransferHint() && !in.HasTransferHint() {
		expl.Penalties = append(expl.Penalties, PenaltyNoTransferHints)
	}
	if out.MerchantLike || in.MerchantLike {
		expl.Penalties = append(expl.Penalties, PenaltyMerchantLike)
	}

	expl.Score = computeScore(expl.DateDiffDays, expl.Hints, expl.Penalties)
	p.Explanation = expl
}

// markAmbiguous appends the ambiguity penalty to an already scored pair and
// recomputes its score. Idempotent.
func markAmbiguous(p *CandidatePair) {
	for _, tag := range p.Explanation.Penalties {
		if tag == PenaltyAmbiguous {
			return
		}
	}
	p.Explanation.Penalties = append(p.Explanation.Penalties, PenaltyAmbiguous)
	p.Explanation.Score = computeScore(
		p.Explanation.DateDiffDays, p.Explanation.Hints, p.Explanation.Penalties)
}

// computeScore turns the recorded tags into a confidence in [0, 1). The base
// is reduced linearly by the date gap and each penalty, then each hint lifts
// the remainder toward 1.0.
func computeScore(dateDiffDays int, hints, penalties []string) float64 {
	s := baseScore - dateGapStep*float64(dateDiffDays)
	for _, tag := range penalties {
		s -= penaltyWeights[tag]
	}
	if s < scoreFloor {
		s = scoreFloor
	}
	for _, tag := range hints {
		s += hintWeights[tag] * (1.0 - s)
	}
	if s < 0 {
		s = 0
	}
	return s
}

// namesClose reports whether a counterparty name and a declared account name
// plausibly refer to the same account. Both values are already normalized by
// the evidence extractor.
func namesClose(counterparty, declared string) bool {
	if counterparty == "" || declared == "" {
		return false
	}
	return counterparty == declared ||
		strings.Contains(counterparty, declared) ||
		strings.Contains(declared, counterparty)
}
