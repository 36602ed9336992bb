package main

import (
	"context"
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
)

func newBuilder(t *testing.T, content string, status int) *builder {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Write([]byte("ID3"))
	}))
	t.Cleanup(server.Close)

	log := logger.NewNop()
	return &builder{
		loader: catalog.NewLoader(catalog.DirFetcher{Root: content}, log),
		tts:    audio.NewTTSService(filepath.Join(content, "s42", audioSubdir), server.URL),
		locale: i18n.French,
		log:    log,
		now:    func() time.Time { return time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC) },
	}
}

func audioName(kind, id string) string {
	return audio.SanitizeFilename(audio.FilePrefix(kind, id)) + ".mp3"
}

func TestBuildFromWordList(t *testing.T) {
	content := t.TempDir()
	os.MkdirAll(filepath.Join(content, "s42"), 0o755)
	os.WriteFile(filepath.Join(content, "s42", "words_of_week.txt"), []byte("bateau\nmaison\n"), 0o644)

	b := newBuilder(t, content, http.StatusOK)
	manifest, err := b.build(context.Background(), "s42")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if manifest.GeneratedAt != "2026-10-12T08:00:00Z" || len(manifest.Words) != 2 {
		t.Fatalf("manifest = %+v", manifest)
	}
	if manifest.Words[0].AudioWord != "audio/"+audioName("word", "bateau") {
		t.Errorf("AudioWord = %q", manifest.Words[0].AudioWord)
	}
	if _, err := os.Stat(filepath.Join(content, "s42", "audio", audioName("word", "maison"))); err != nil {
		t.Errorf("audio file missing: %v", err)
	}

	path := filepath.Join(content, "s42", "manifest.json")
	if err := writeManifest(path, manifest); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var decoded models.WordManifest
	if err := json.Unmarshal(data, &decoded); err != nil || len(decoded.Words) != 2 {
		t.Errorf("written manifest = %s, %v", data, err)
	}
}

func TestBuildKeepsExistingReferences(t *testing.T) {
	content := t.TempDir()
	os.MkdirAll(filepath.Join(content, "s42"), 0o755)
	os.WriteFile(filepath.Join(content, "s42", "manifest.json"),
		[]byte(`{"words":[{"id":"w1","text":"bateau","audioWord":"https://cdn.example.com/b.mp3","sentence":"Le bateau flotte."}]}`), 0o644)

	b := newBuilder(t, content, http.StatusOK)
	manifest, err := b.build(context.Background(), "s42")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	w := manifest.Words[0]
	if w.AudioWord != "https://cdn.example.com/b.mp3" {
		t.Errorf("existing reference replaced: %q", w.AudioWord)
	}
	if w.AudioSentence != "audio/"+audioName("sentence", "w1") {
		t.Errorf("AudioSentence = %q", w.AudioSentence)
	}
}

func TestBuildSynthesisFailureLeavesNoReference(t *testing.T) {
	content := t.TempDir()
	os.MkdirAll(filepath.Join(content, "s42"), 0o755)
	os.WriteFile(filepath.Join(content, "s42", "words_of_week.txt"), []byte("bateau\n"), 0o644)

	b := newBuilder(t, content, http.StatusTooManyRequests)
	manifest, err := b.build(context.Background(), "s42")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if manifest.Words[0].AudioWord != "" {
		t.Errorf("AudioWord = %q, want none", manifest.Words[0].AudioWord)
	}
}

func TestBuildEmptyCatalog(t *testing.T) {
	content := t.TempDir()
	os.MkdirAll(filepath.Join(content, "s42"), 0o755)
	os.WriteFile(filepath.Join(content, "s42", "words_of_week.txt"), []byte("\n"), 0o644)

	if _, err := newBuilder(t, content, http.StatusOK).build(context.Background(), "s42"); err == nil {
		t.Error("expected an error for an empty catalog")
	}
}

func TestPrune(t *testing.T) {
	content := t.TempDir()
	dir := filepath.Join(content, "s42", audioSubdir)
	os.MkdirAll(dir, 0o755)
	for _, name := range []string{"word_w1.mp3", "word_old.mp3"} {
		os.WriteFile(filepath.Join(dir, name), []byte("ID3"), 0o644)
	}

	b := newBuilder(t, content, http.StatusOK)
	removed, err := b.prune(models.WordManifest{Words: []models.Word{{ID: "w1", AudioWord: "audio/word_w1.mp3"}}})
	if err != nil || removed != 1 {
		t.Fatalf("prune = %d, %v", removed, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "word_old.mp3")); !os.IsNotExist(err) {
		t.Error("stale file should be deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "word_w1.mp3")); err != nil {
		t.Error("referenced file should be kept")
	}
}
