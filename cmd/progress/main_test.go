package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"dictee/internal/logger"
	"dictee/internal/repository"
)

func newRepo() *repository.ProgressRepository {
	return repository.NewProgressRepository(repository.NewMemoryKV(), "device:test:dictee_progress", logger.NewNop())
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newRepo()
	blob := `{"maison":{"wordId":"maison","correctStreak":3,"totalAttempts":4,"totalCorrect":3,"lastPracticed":1760000000000,"mastered":true}}`
	if _, err := importProgress(ctx, src, strings.NewReader(blob), false); err != nil {
		t.Fatalf("import: %v", err)
	}

	var buf bytes.Buffer
	n, err := exportProgress(ctx, src, &buf)
	if err != nil || n != 1 {
		t.Fatalf("export = %d, %v", n, err)
	}

	dst := newRepo()
	if _, err := importProgress(ctx, dst, &buf, false); err != nil {
		t.Fatalf("reimport: %v", err)
	}
	progress, _ := dst.Load(ctx)
	if p := progress["maison"]; !p.Mastered || p.CorrectStreak != 3 {
		t.Errorf("progress = %+v", p)
	}
}

func TestImportMergeKeepsNewest(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	existing := `{"a":{"correctStreak":2,"lastPracticed":2000},"b":{"correctStreak":1,"lastPracticed":1000}}`
	if _, err := importProgress(ctx, repo, strings.NewReader(existing), false); err != nil {
		t.Fatal(err)
	}

	incoming := `{"a":{"correctStreak":0,"lastPracticed":1500},"b":{"correctStreak":2,"lastPracticed":3000},"c":{"correctStreak":1,"lastPracticed":500}}`
	n, err := importProgress(ctx, repo, strings.NewReader(incoming), true)
	if err != nil || n != 3 {
		t.Fatalf("merge = %d, %v", n, err)
	}

	progress, _ := repo.Load(ctx)
	if progress["a"].CorrectStreak != 2 {
		t.Errorf("older import overwrote a: %+v", progress["a"])
	}
	if progress["b"].CorrectStreak != 2 || !progress["b"].LastPracticed.Equal(time.UnixMilli(3000)) {
		t.Errorf("newer import not applied to b: %+v", progress["b"])
	}
	if progress["c"].WordID != "c" {
		t.Errorf("missing word id not filled: %+v", progress["c"])
	}
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	if _, err := importProgress(context.Background(), newRepo(), strings.NewReader("not json"), false); err == nil {
		t.Error("expected a decode error")
	}
}
