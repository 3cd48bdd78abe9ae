package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/testutil"
)

// testEnv sets up a temp store, service, and router for testing.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string) http.Handler {
	t.Helper()
	svc := testutil.TestService(t)
	return NewRouter(svc, authToken != "", authToken, nil)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetTask(t *testing.T) {
	router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/tasks", map[string]string{
		"title": "go to gym",
		"notes": "leg day",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created TaskResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Quadrant != models.QuadrantProtect {
		t.Errorf("quadrant = %s, want PROTECT", created.Quadrant)
	}
	if created.Source != models.SourceSuggested {
		t.Errorf("source = %s", created.Source)
	}

	w = doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got TaskResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Title != "go to gym" || got.Notes != "leg day" {
		t.Errorf("task = %+v", got)
	}
}

func TestCreateTask_OverrideLearns(t *testing.T) {
	router := testEnv(t, "")

	// Classifier suggests gives for "Yoga"; overriding to takes must learn.
	w := doJSON(t, router, http.MethodPost, "/tasks", map[string]string{
		"title":  "Yoga",
		"energy": "takes",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var created TaskResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Source != models.SourceManual {
		t.Errorf("source = %s, want manual", created.Source)
	}

	w = doJSON(t, router, http.MethodPost, "/classify", map[string]string{"text": "yoga"})
	if w.Code != http.StatusOK {
		t.Fatalf("classify status = %d", w.Code)
	}
	var s models.Suggestion
	_ = json.Unmarshal(w.Body.Bytes(), &s)
	if !s.UsedLearnedRule || s.SuggestedEnergy != models.EnergyTakes {
		t.Errorf("suggestion = %+v, want learned takes", s)
	}
}

func TestCreateTask_Invalid(t *testing.T) {
	router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/tasks", map[string]string{"title": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank title status = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/tasks", map[string]string{
		"title": "x", "energy": "sideways",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad energy status = %d, want 400", w.Code)
	}
}

func TestUpdateTask(t *testing.T) {
	router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/tasks", map[string]string{"title": "go to gym"})
	var created TaskResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(t, router, http.MethodPatch, "/tasks/"+created.ID, map[string]string{
		"energy": "takes",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	var updated TaskResponse
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Source != models.SourceManual {
		t.Errorf("source = %s, want manual", updated.Source)
	}
	if updated.Quadrant != models.QuadrantDelete {
		t.Errorf("quadrant = %s, want DELETE", updated.Quadrant)
	}

	w = doJSON(t, router, http.MethodPatch, "/tasks/missing", map[string]string{"notes": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
}

func TestDeleteTask_MissIsNoContent(t *testing.T) {
	router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/tasks", map[string]string{"title": "go to gym"})
	var created TaskResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(t, router, http.MethodDelete, "/tasks/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	// A second delete is a harmless miss, not an error.
	w = doJSON(t, router, http.MethodDelete, "/tasks/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("repeat delete status = %d, want 204", w.Code)
	}
}

func TestListTasks_Filters(t *testing.T) {
	router := testEnv(t, "")
	for _, title := range []string{"go to gym", "close the deal", "file taxes"} {
		w := doJSON(t, router, http.MethodPost, "/tasks", map[string]string{"title": title})
		if w.Code != http.StatusCreated {
			t.Fatalf("create %q = %d", title, w.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/tasks?quadrant=PROTECT", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list TaskListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 || list.Tasks[0].Title != "go to gym" {
		t.Errorf("list = %+v", list)
	}

	w = doJSON(t, router, http.MethodGet, "/tasks?q=deal", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 || list.Tasks[0].Title != "close the deal" {
		t.Errorf("search = %+v", list)
	}

	w = doJSON(t, router, http.MethodGet, "/tasks?quadrant=SIDEWAYS", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad quadrant status = %d, want 400", w.Code)
	}
}

func TestRulesEndpoints(t *testing.T) {
	router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/rules", map[string]string{
		"title": "File Taxes", "energy": "takes", "money": "takes",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("learn status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/rules", nil)
	var list RuleListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 {
		t.Fatalf("rules = %+v", list)
	}
	if rule, ok := list.Rules["file taxes"]; !ok || rule.Count != 1 {
		t.Errorf("rule = %+v, ok = %v", rule, ok)
	}

	w = doJSON(t, router, http.MethodDelete, "/rules", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/rules", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 0 {
		t.Errorf("rules after reset = %+v", list)
	}
}

func TestExportImport(t *testing.T) {
	router := testEnv(t, "")
	doJSON(t, router, http.MethodPost, "/tasks", map[string]string{"title": "go to gym"})

	w := doJSON(t, router, http.MethodGet, "/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	exported := w.Body.Bytes()

	// Import into a fresh environment.
	other := testEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/import", bytes.NewReader(exported))
	rec := httptest.NewRecorder()
	other.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("import status = %d, body = %s", rec.Code, rec.Body.String())
	}

	w = doJSON(t, other, http.MethodGet, "/tasks", nil)
	var list TaskListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 {
		t.Errorf("imported tasks = %d, want 1", list.Total)
	}
}

func TestImport_BadDocument(t *testing.T) {
	router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/import", bytes.NewReader([]byte(`{"nope":1}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("import status = %d, want 400", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w.Code)
	}
}
