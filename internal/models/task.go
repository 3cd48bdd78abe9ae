// Package models defines the domain types for Fehu.
package models

// EnergySide says whether a task replenishes or drains the user.
type EnergySide string

// MoneySide says whether a task earns or costs money.
type MoneySide string

const (
	EnergyGives EnergySide = "gives"
	EnergyTakes EnergySide = "takes"

	MoneyMakes MoneySide = "makes"
	MoneyTakes MoneySide = "takes"
)

// Quadrant is one of the four matrix cells. It is derived from the
// (EnergySide, MoneySide) pair and never stored on its own.
type Quadrant string

const (
	QuadrantProtect    Quadrant = "PROTECT"    // gives energy, takes money
	QuadrantPrioritize Quadrant = "PRIORITIZE" // gives energy, makes money
	QuadrantDelete     Quadrant = "DELETE"     // takes energy, takes money
	QuadrantDelegate   Quadrant = "DELEGATE"   // takes energy, makes money
)

// QuadrantOf maps an energy/money pair to its quadrant.
func QuadrantOf(e EnergySide, m MoneySide) Quadrant {
	if e == EnergyGives {
		if m == MoneyMakes {
			return QuadrantPrioritize
		}
		return QuadrantProtect
	}
	if m == MoneyMakes {
		return QuadrantDelegate
	}
	return QuadrantDelete
}

// Source records how a task got its classification.
type Source string

const (
	SourceSuggested Source = "suggested" // keyword/phrase classifier verdict
	SourceManual    Source = "manual"    // user overrode the suggestion
	SourceLearned   Source = "learned"   // an exact learned rule fired
)

// Suggestion is the classifier's verdict for one input text. It is produced
// fresh on every classification call; a copy may be attached to a Task as an
// audit trail of why the task landed where it did.
type Suggestion struct {
	Confidence      int        `json:"confidence"`
	Matched         []string   `json:"matched"`
	UsedLearnedRule bool       `json:"usedLearnedRule"`
	EnergyScoreRaw  float64    `json:"energyScoreRaw"`
	MoneyScoreRaw   float64    `json:"moneyScoreRaw"`
	SuggestedEnergy EnergySide `json:"suggestedEnergy"`
	SuggestedMoney  MoneySide  `json:"suggestedMoney"`
}

// Task is one entry in the ledger. CreatedAt/UpdatedAt are Unix milliseconds;
// EnergyScore/MoneyScore are the raw classifier scores frozen at
// classification time.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`

	EnergySide EnergySide `json:"energySide"`
	MoneySide  MoneySide  `json:"moneySide"`

	EnergyScore float64 `json:"energyScore"`
	MoneyScore  float64 `json:"moneyScore"`

	Source     Source      `json:"source"`
	Suggestion *Suggestion `json:"suggestion,omitempty"`
}

// Quadrant returns the cell the task currently sits in.
func (t *Task) Quadrant() Quadrant {
	return QuadrantOf(t.EnergySide, t.MoneySide)
}

// CustomRule is a user-confirmed classification for an exact normalized
// title. Count is the number of times the user has confirmed it.
type CustomRule struct {
	EnergySide EnergySide `json:"energySide"`
	MoneySide  MoneySide  `json:"moneySide"`
	Count      int        `json:"count"`
}
