package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dictee/internal/audio"
	"dictee/internal/catalog"
	"dictee/internal/i18n"
	"dictee/internal/logger"
	"dictee/internal/models"
	"dictee/internal/repository"
	"dictee/internal/security"
	"dictee/internal/service"
)

type testServer struct {
	handler http.Handler
	cookie  *http.Cookie
	kv      *repository.MemoryKV
}

func newTestServer(t *testing.T, rate int) *testServer {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"metadata.yaml":          "periods:\n  - id: s42\n    label: Semaine 42\n    start: 2026-10-12\n    language: fr\n  - id: empty\n    start: 2026-09-01\n",
		"s42/manifest.json":      `{"words":[{"id":"w1","text":"bateau","sentence":"Le bateau flotte.","audioWord":"audio/bateau.mp3"},{"id":"w2","text":"maison"},{"id":"w3","text":"école"}]}`,
		"empty/words_of_week.txt": "\n",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		os.MkdirAll(filepath.Dir(p), 0o755)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	log := logger.NewNop()
	kv := repository.NewMemoryKV()
	catalogService := catalog.NewService(catalog.DirFetcher{Root: dir}, "metadata.yaml", i18n.French, log)
	games := service.NewRegistry(func(deviceID string) *service.Game {
		repo := repository.NewProgressRepository(kv, repository.DeviceProgressKey(deviceID, "dictee_progress"), log)
		rng := service.NewRandomSource(1)
		return service.NewGame(service.GameOptions{
			Mastery:  service.NewMasteryEngine(repo, 3),
			Selector: service.NewSelector(repo, rng),
			Random:   rng,
			Locale:   i18n.French,
			Delays:   map[models.GameMode]time.Duration{},
			Logger:   log,
		})
	})

	rt := &Router{
		Middleware:  NewMiddleware(security.NewRateLimiter(rate, time.Minute), log),
		Game:        NewGameHandler(games, catalogService, log),
		Catalog:     NewCatalogHandler(catalogService, games, log),
		Progress:    NewProgressHandler(games, log),
		Audio:       NewAudioHandler(audio.NewService(nil, "/content", "/static/audio", log), catalogService, log),
		Locale:      NewLocaleHandler(i18n.French),
		ContentPath: dir,
	}
	return &testServer{handler: rt.Handler(), kv: kv}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == DeviceCookieName {
			s.cookie = c
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestDeviceCookieIssuedOnce(t *testing.T) {
	s := newTestServer(t, 100)

	s.do(t, "GET", "/api/game", nil)
	if s.cookie == nil {
		t.Fatal("expected a device cookie")
	}
	first := s.cookie.Value

	rec := s.do(t, "GET", "/api/game", nil)
	if len(rec.Result().Cookies()) != 0 {
		t.Error("a valid cookie should not be reissued")
	}
	if s.cookie.Value != first {
		t.Error("device id changed")
	}
}

func TestPeriodsAndWords(t *testing.T) {
	s := newTestServer(t, 100)

	periods := decode[periodsResponse](t, s.do(t, "GET", "/api/periods", nil))
	if periods.Active != "s42" || len(periods.Periods) != 2 {
		t.Fatalf("periods = %+v", periods)
	}

	rec := s.do(t, "GET", "/api/words", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list := decode[wordListResponse](t, rec)
	if list.Total != 3 || list.Mastered != 0 || list.Words[0].Text != "bateau" {
		t.Errorf("word list = %+v", list)
	}
	if list.Stats != "3 mots, 0 maîtrisés" {
		t.Errorf("stats = %q", list.Stats)
	}

	if rec := s.do(t, "GET", "/api/words?period=nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown period status = %d", rec.Code)
	}
	if rec := s.do(t, "POST", "/api/words/refresh?period=s42", nil); rec.Code != http.StatusOK {
		t.Errorf("refresh status = %d", rec.Code)
	}
}

func TestGameRoundTrip(t *testing.T) {
	s := newTestServer(t, 1000)

	rec := s.do(t, "POST", "/api/game/start", startRequest{Mode: "dictee-fantome"})
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}
	snap := decode[service.Snapshot](t, rec)
	if snap.State != service.StateInSession || snap.Total != 3 {
		t.Fatalf("snapshot = %+v", snap)
	}

	texts := map[string]string{"w1": "bateau", "w2": "maison", "w3": "école"}
	for i := 0; i < 3; i++ {
		snap = decode[service.Snapshot](t, s.do(t, "GET", "/api/game", nil))
		id := snap.Challenge.WordID
		rec := s.do(t, "POST", "/api/game/answer", service.Submission{WordID: id, Text: texts[id]})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer status = %d: %s", rec.Code, rec.Body.String())
		}
		if v := decode[service.Verdict](t, rec); !v.Correct {
			t.Errorf("verdict for %s = %+v", id, v)
		}
	}

	snap = decode[service.Snapshot](t, s.do(t, "GET", "/api/game", nil))
	if snap.State != service.StateSessionComplete || snap.Summary == nil || !snap.Summary.Perfect {
		t.Fatalf("final snapshot = %+v", snap)
	}

	progress := decode[models.ProgressMap](t, s.do(t, "GET", "/api/progress", nil))
	if len(progress) != 3 || progress["w1"].TotalCorrect != 1 {
		t.Errorf("progress = %+v", progress)
	}

	if rec := s.do(t, "DELETE", "/api/progress", nil); rec.Code != http.StatusNoContent {
		t.Errorf("clear status = %d", rec.Code)
	}
	if progress := decode[models.ProgressMap](t, s.do(t, "GET", "/api/progress", nil)); len(progress) != 0 {
		t.Errorf("progress after clear = %+v", progress)
	}
}

func TestGameErrors(t *testing.T) {
	s := newTestServer(t, 1000)

	tests := []struct {
		name     string
		method   string
		path     string
		body     interface{}
		expected int
	}{
		{"unknown mode", "POST", "/api/game/start", startRequest{Mode: "quiz"}, http.StatusBadRequest},
		{"empty catalog", "POST", "/api/game/start", startRequest{Mode: "exploration", Period: "empty"}, http.StatusUnprocessableEntity},
		{"unknown period", "POST", "/api/game/start", startRequest{Mode: "exploration", Period: "nope"}, http.StatusNotFound},
		{"answer at menu", "POST", "/api/game/answer", service.Submission{WordID: "w1"}, http.StatusConflict},
		{"continue at menu", "POST", "/api/game/continue", continueRequest{WordID: "w1"}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := s.do(t, tt.method, tt.path, tt.body); rec.Code != tt.expected {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.expected, rec.Body.String())
			}
		})
	}

	req := httptest.NewRequest("POST", "/api/game/start", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", rec.Code)
	}
}

func TestBrowseAndMenu(t *testing.T) {
	s := newTestServer(t, 1000)

	snap := decode[service.Snapshot](t, s.do(t, "POST", "/api/game/browse", nil))
	if snap.State != service.StateCatalogBrowse {
		t.Errorf("state = %s", snap.State)
	}
	snap = decode[service.Snapshot](t, s.do(t, "POST", "/api/game/menu", nil))
	if snap.State != service.StateMenu {
		t.Errorf("state = %s", snap.State)
	}
}

func TestAudio(t *testing.T) {
	s := newTestServer(t, 1000)

	rec := s.do(t, "GET", "/api/audio/w1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	src := decode[audio.Source](t, rec)
	if src.URL != "/content/s42/audio/bateau.mp3" || src.Voice != "fr-FR" {
		t.Errorf("source = %+v", src)
	}

	src = decode[audio.Source](t, s.do(t, "GET", "/api/audio/w2", nil))
	if src.URL != "" || src.Text != "maison" {
		t.Errorf("word without recording should fall back to device speech: %+v", src)
	}

	if rec := s.do(t, "GET", "/api/audio/w2?kind=sentence", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing sentence status = %d", rec.Code)
	}
	if rec := s.do(t, "GET", "/api/audio/zzz", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown word status = %d", rec.Code)
	}
}

func TestLocale(t *testing.T) {
	s := newTestServer(t, 1000)

	fr := decode[localeResponse](t, s.do(t, "GET", "/api/locale", nil))
	if fr.Locale != i18n.French || len(fr.AccentKeys) == 0 || fr.Strings.AppTitle == "" {
		t.Errorf("default locale = %+v", fr)
	}

	en := decode[localeResponse](t, s.do(t, "GET", "/api/locale?lang=en-GB", nil))
	if en.Locale != i18n.English || en.Voice != "en-US" {
		t.Errorf("english locale = %+v", en)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		if rec := s.do(t, "GET", "/api/locale", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, rec.Code)
		}
	}
	if rec := s.do(t, "GET", "/api/locale", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}
