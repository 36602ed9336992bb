package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dictee/internal/audio"
	"dictee/internal/catalog"
	"dictee/internal/config"
	"dictee/internal/i18n"
	"dictee/internal/logger"
	"dictee/internal/models"
)

const audioSubdir = "audio"

func main() {
	cfg := config.Load()

	catalogDir := flag.String("catalog", ".", "Catalog directory, relative to CONTENT_PATH")
	lang := flag.String("lang", cfg.DefaultLanguage, "Language of the words")
	prune := flag.Bool("prune", false, "Delete audio files no longer referenced by the manifest")
	flag.Parse()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	root := filepath.Join(cfg.ContentPath, filepath.FromSlash(*catalogDir))
	b := &builder{
		loader: catalog.NewLoader(catalog.DirFetcher{Root: cfg.ContentPath}, log),
		tts:    audio.NewTTSService(filepath.Join(root, audioSubdir), cfg.TTSEndpoint),
		locale: i18n.ParseLocale(*lang),
		log:    log,
	}

	manifest, err := b.build(context.Background(), *catalogDir)
	if err != nil {
		log.Fatal("Failed to build assets", "catalog", root, "error", err)
	}
	if err := writeManifest(filepath.Join(root, "manifest.json"), manifest); err != nil {
		log.Fatal("Failed to write manifest", "error", err)
	}
	log.Info("Manifest written", "catalog", root, "words", len(manifest.Words))

	if *prune {
		removed, err := b.prune(manifest)
		if err != nil {
			log.Fatal("Failed to prune audio", "error", err)
		}
		log.Info("Pruned audio files", "removed", removed)
	}
}

type builder struct {
	loader *catalog.Loader
	tts    *audio.TTSService
	locale i18n.Locale
	log    *logger.Logger
	now    func() time.Time
}

// build loads the catalog and synthesizes any recording it is missing.
// Words whose synthesis fails keep no reference; the client speaks them.
func (b *builder) build(ctx context.Context, catalogDir string) (models.WordManifest, error) {
	words, err := b.loader.Load(ctx, catalogDir)
	if err != nil {
		return models.WordManifest{}, err
	}
	if len(words) == 0 {
		return models.WordManifest{}, fmt.Errorf("catalog %s has no words", catalogDir)
	}

	for i := range words {
		w := &words[i]
		if w.AudioWord == "" {
			w.AudioWord = b.synthesize(ctx, w.Text, audio.FilePrefix("word", w.ID))
		}
		if w.Sentence != "" && w.AudioSentence == "" {
			w.AudioSentence = b.synthesize(ctx, w.Sentence, audio.FilePrefix("sentence", w.ID))
		}
	}

	now := time.Now
	if b.now != nil {
		now = b.now
	}
	return models.WordManifest{GeneratedAt: now().UTC().Format(time.RFC3339), Words: words}, nil
}

func (b *builder) synthesize(ctx context.Context, text, prefix string) string {
	filename, err := b.tts.GenerateAudioFile(ctx, text, prefix, b.locale)
	if err != nil {
		b.log.Warn("Speech synthesis failed", "text", text, "error", err)
		return ""
	}
	b.log.Debug("Audio ready", "file", filename)
	return audioSubdir + "/" + filename
}

// prune deletes generated audio files that no manifest word refers to
func (b *builder) prune(manifest models.WordManifest) (int, error) {
	referenced := make(map[string]bool)
	for _, w := range manifest.Words {
		referenced[filepath.Base(w.AudioWord)] = true
		referenced[filepath.Base(w.AudioSentence)] = true
	}

	files, err := b.tts.GetAllAudioFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		if referenced[f] {
			continue
		}
		if err := b.tts.DeleteAudioFile(f); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func writeManifest(path string, manifest models.WordManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return os.Rename(tmp, path)
}
