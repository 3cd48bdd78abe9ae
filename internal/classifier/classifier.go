// Package classifier scores free-text task titles on the energy and money
// axes. Scoring is deterministic and rule-based: exact learned rules beat
// phrase overrides beat keyword heuristics, and every verdict carries the
// evidence that produced it.
package classifier

import (
	"fmt"
	"math"
	"strings"

	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/rules"
	"github.com/starford/fehu/internal/textnorm"
)

// Classify produces a Suggestion for text. Pure except for reading the rule
// store. Stages run in strict precedence: the first stage that produces a
// verdict returns immediately.
func Classify(text string, store *rules.Store) models.Suggestion {
	normalized := textnorm.Normalize(text)

	// 1. Exact learned rule. Confidence starts at 95 and grows with the
	// observation count, capped at 100.
	if rule, ok := store.Lookup(normalized); ok {
		confidence := 95 + min(rule.Count, 5)
		if confidence > 100 {
			confidence = 100
		}
		return models.Suggestion{
			Confidence:      confidence,
			Matched:         []string{"custom rule"},
			UsedLearnedRule: true,
			EnergyScoreRaw:  sideScore(rule.EnergySide == models.EnergyGives, 5),
			MoneyScoreRaw:   sideScore(rule.MoneySide == models.MoneyMakes, 5),
			SuggestedEnergy: rule.EnergySide,
			SuggestedMoney:  rule.MoneySide,
		}
	}

	// 2. Hard-coded phrase overrides, first containment match in table order.
	for _, ov := range phraseOverrides {
		if strings.Contains(normalized, ov.phrase) {
			return models.Suggestion{
				Confidence:      90,
				Matched:         []string{ov.phrase},
				EnergyScoreRaw:  sideScore(ov.energy == models.EnergyGives, 4),
				MoneyScoreRaw:   sideScore(ov.money == models.MoneyMakes, 4),
				SuggestedEnergy: ov.energy,
				SuggestedMoney:  ov.money,
			}
		}
	}

	tokens := textnorm.Tokens(normalized)

	var energyScore, moneyScore float64
	matched := []string{}

	// 3. Keyword scoring over the token/stem union.
	for _, tok := range tokens {
		if _, ok := energyGivesKeywords[tok]; ok {
			energyScore += 2
			matched = append(matched, fmt.Sprintf("%s (+E)", tok))
		}
		if _, ok := energyTakesKeywords[tok]; ok {
			energyScore -= 2
			matched = append(matched, fmt.Sprintf("%s (-E)", tok))
		}
		if _, ok := moneyMakesKeywords[tok]; ok {
			moneyScore += 2
			matched = append(matched, fmt.Sprintf("%s (+M)", tok))
		}
		if _, ok := moneyTakesKeywords[tok]; ok {
			moneyScore -= 2
			matched = append(matched, fmt.Sprintf("%s (-M)", tok))
		}
	}

	// 4. Fuzzy nudge from learned rules: every rule key containing a token as
	// a substring nudges both axes by ±0.5. No dedup across overlapping rules.
	for _, tok := range tokens {
		for _, key := range store.Keys() {
			if !strings.Contains(key, tok) {
				continue
			}
			rule, _ := store.Lookup(key)
			energyScore += sideScore(rule.EnergySide == models.EnergyGives, 0.5)
			moneyScore += sideScore(rule.MoneySide == models.MoneyMakes, 0.5)
		}
	}

	// 5. Confidence: linear in total magnitude, capped at 85 so keyword-only
	// verdicts never reach learned-rule confidence. Zero evidence forces zero.
	totalMagnitude := math.Abs(energyScore) + math.Abs(moneyScore)
	confidence := int(math.Round(math.Min(totalMagnitude/8*100, 85)))
	if len(matched) == 0 {
		confidence = 0
	}

	// 6. Verdict: a tie at exactly zero favors the positive side.
	return models.Suggestion{
		Confidence:      confidence,
		Matched:         matched,
		EnergyScoreRaw:  energyScore,
		MoneyScoreRaw:   moneyScore,
		SuggestedEnergy: energyVerdict(energyScore),
		SuggestedMoney:  moneyVerdict(moneyScore),
	}
}

func energyVerdict(score float64) models.EnergySide {
	if score >= 0 {
		return models.EnergyGives
	}
	return models.EnergyTakes
}

func moneyVerdict(score float64) models.MoneySide {
	if score >= 0 {
		return models.MoneyMakes
	}
	return models.MoneyTakes
}

func sideScore(positive bool, magnitude float64) float64 {
	if positive {
		return magnitude
	}
	return -magnitude
}
