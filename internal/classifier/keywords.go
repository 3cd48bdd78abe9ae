package classifier

import "github.com/starford/fehu/internal/models"

// Static keyword tables. Each hit moves the matching axis by ±2.
var (
	moneyTakesKeywords = wordSet(
		"rent", "bill", "tax", "subscription", "fee", "pay", "purchase", "buy",
		"expense", "insurance", "debt", "interest", "groceries", "fuel", "repair",
		"membership", "cost", "spend", "invoice",
	)

	moneyMakesKeywords = wordSet(
		"business", "sales", "sell", "revenue", "profit", "client", "invoice",
		"freelance", "marketing", "close", "lead", "pitch", "ship", "launch",
		"productize", "pricing", "raise prices", "income", "salary", "deal",
	)

	energyGivesKeywords = wordSet(
		"gym", "workout", "run", "walk", "sleep", "meditate", "family", "friends",
		"journaling", "reading", "sunlight", "rest", "plan", "organize", "meal prep",
		"create", "write", "design", "learn", "play",
	)

	energyTakesKeywords = wordSet(
		"taxes", "paperwork", "admin", "commute", "meeting", "conflict", "argument",
		"chores", "cleaning", "errands", "waiting", "complaint", "support", "fix",
		"debug", "traffic", "laundry", "dishes",
	)
)

// phraseOverride maps a phrase to a fixed verdict. Overrides are checked by
// substring containment in declaration order; the first hit wins, so more
// specific phrases must precede shorter ones they contain.
type phraseOverride struct {
	phrase string
	energy models.EnergySide
	money  models.MoneySide
}

var phraseOverrides = []phraseOverride{
	{"file taxes", models.EnergyTakes, models.MoneyTakes},
	{"tax filing", models.EnergyTakes, models.MoneyTakes},
	{"hire va", models.EnergyGives, models.MoneyTakes}, // outsourcing gives energy back
	{"hire assistant", models.EnergyGives, models.MoneyTakes},
	{"launch mvp", models.EnergyTakes, models.MoneyMakes}, // hard work but makes money
	{"go to gym", models.EnergyGives, models.MoneyTakes},
	{"gym", models.EnergyGives, models.MoneyTakes},
	{"business", models.EnergyGives, models.MoneyMakes},
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
