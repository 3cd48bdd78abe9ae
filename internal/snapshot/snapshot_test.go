package snapshot

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
)

func TestEncode_StampsVersion(t *testing.T) {
	data, err := Encode(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if v, ok := doc["version"].(float64); !ok || int(v) != 1 {
		t.Errorf("version = %v, want 1", doc["version"])
	}
	if _, ok := doc["tasks"].([]any); !ok {
		t.Errorf("tasks should encode as an array even when empty, got %T", doc["tasks"])
	}
}

func TestRoundtrip(t *testing.T) {
	tasks := []models.Task{{
		ID: "t1", Title: "file taxes", CreatedAt: 100, UpdatedAt: 200,
		EnergySide: models.EnergyTakes, MoneySide: models.MoneyTakes,
		EnergyScore: -4, MoneyScore: -4, Source: models.SourceSuggested,
	}}
	rulesMap := map[string]models.CustomRule{
		"file taxes": {EnergySide: models.EnergyTakes, MoneySide: models.MoneyTakes, Count: 3},
	}

	data, err := Encode(tasks, rulesMap)
	if err != nil {
		t.Fatal(err)
	}
	st, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Tasks) != 1 || st.Tasks[0].ID != "t1" {
		t.Errorf("tasks = %+v", st.Tasks)
	}
	if st.Tasks[0].EnergySide != models.EnergyTakes {
		t.Errorf("energySide = %s", st.Tasks[0].EnergySide)
	}
	if st.CustomRules["file taxes"].Count != 3 {
		t.Errorf("rules = %+v", st.CustomRules)
	}
	if st.Version != FormatVersion {
		t.Errorf("version = %d", st.Version)
	}
}

func TestDecode_MissingRulesDefaultEmpty(t *testing.T) {
	st, err := Decode([]byte(`{"tasks":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	if st.CustomRules == nil || len(st.CustomRules) != 0 {
		t.Errorf("customRules = %v, want empty map", st.CustomRules)
	}
}

func TestDecode_FailsClosed(t *testing.T) {
	bad := []string{
		`not json at all`,
		`{}`,
		`{"tasks": null}`,
		`{"tasks": "nope"}`,
		`{"tasks": {"a": 1}}`,
		`{"tasks": 5}`,
		`[]`,
	}
	for _, doc := range bad {
		st, err := Decode([]byte(doc))
		if err == nil {
			t.Errorf("Decode(%q) succeeded, want failure", doc)
			continue
		}
		if !errors.Is(err, apperr.ErrBadSnapshot) {
			t.Errorf("Decode(%q) error = %v, want ErrBadSnapshot", doc, err)
		}
		if st != nil {
			t.Errorf("Decode(%q) returned state on failure", doc)
		}
	}
}
