package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestShouldTrigger(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		if ShouldTrigger(fsnotify.Event{Name: "", Op: fsnotify.Write}, "") {
			t.Fatalf("expected false for empty event name")
		}
	})

	t.Run("unsupported op", func(t *testing.T) {
		if ShouldTrigger(fsnotify.Event{Name: "/tmp/filter_0.conf", Op: fsnotify.Chmod}, "") {
			t.Fatalf("expected false for chmod")
		}
	})

	t.Run("dot file ignored", func(t *testing.T) {
		if ShouldTrigger(fsnotify.Event{Name: "/tmp/.filter_0.conf", Op: fsnotify.Write}, "") {
			t.Fatalf("expected false for dotfile")
		}
	})

	t.Run("other extension ignored", func(t *testing.T) {
		if ShouldTrigger(fsnotify.Event{Name: "/tmp/filter_0.conf.swp", Op: fsnotify.Write}, "") {
			t.Fatalf("expected false for swap file")
		}
	})

	t.Run("conf write", func(t *testing.T) {
		if !ShouldTrigger(fsnotify.Event{Name: "/tmp/filter_0.conf", Op: fsnotify.Write}, "") {
			t.Fatalf("expected true for conf write")
		}
	})

	t.Run("single file match", func(t *testing.T) {
		if !ShouldTrigger(fsnotify.Event{Name: "/tmp/pipeline.conf", Op: fsnotify.Rename}, "pipeline.conf") {
			t.Fatalf("expected true for watched file")
		}
		if ShouldTrigger(fsnotify.Event{Name: "/tmp/other.conf", Op: fsnotify.Write}, "pipeline.conf") {
			t.Fatalf("expected false for sibling file")
		}
	})
}

func TestEvaluate_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pipeline.conf")
	if err := os.WriteFile(p, []byte("input {"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ev := Evaluate(p)
	if ev.Dir || len(ev.Result.Errors) != 1 {
		t.Fatalf("unexpected evaluation %+v", ev)
	}
}

func TestEvaluate_MissingFile(t *testing.T) {
	ev := Evaluate(filepath.Join(t.TempDir(), "missing.conf"))
	if len(ev.Result.Errors) != 1 || !strings.HasPrefix(ev.Result.Errors[0].Message, "Failed to load config file") {
		t.Fatalf("unexpected evaluation %+v", ev)
	}
}

func TestEvaluate_DirectoryJoinsInMemory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"filter_0.conf": `filter { id => "dup" }`,
		"filter_1.conf": `filter { id => "dup" }`,
		"input_0.conf":  `input { stdin {} }`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	ev := Evaluate(dir)
	if !ev.Dir {
		t.Fatalf("expected directory evaluation")
	}
	if strings.Join(ev.Files, ",") != "input_0.conf,filter_0.conf,filter_1.conf" {
		t.Fatalf("files=%v", ev.Files)
	}
	if len(ev.Result.Errors) != 1 || ev.Result.Errors[0].Line != 3 {
		t.Fatalf("errors=%+v", ev.Result.Errors)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 3 {
		t.Fatalf("evaluate must not write files, got %d entries", len(entries))
	}
}

func TestRun_ReevaluatesOnChange(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pipeline.conf")
	if err := os.WriteFile(p, []byte("input {}"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	evals := make(chan Evaluation, 8)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			Path:       p,
			Debounce:   20 * time.Millisecond,
			OnEvaluate: func(ev Evaluation) { evals <- ev },
		})
	}()

	first := waitEvaluation(t, evals)
	if first.Result.HasIssues() {
		t.Fatalf("initial evaluation should be clean: %+v", first.Result)
	}

	if err := os.WriteFile(p, []byte("input {"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	second := waitEvaluation(t, evals)
	if len(second.Result.Errors) != 1 {
		t.Fatalf("expected brace error after change: %+v", second.Result)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func waitEvaluation(t *testing.T, ch <-chan Evaluation) Evaluation {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for evaluation")
	}
	return Evaluation{}
}

func TestRun_RejectsMissingPath(t *testing.T) {
	err := Run(context.Background(), Options{Path: filepath.Join(t.TempDir(), "nope"), OnEvaluate: func(Evaluation) {}})
	if err == nil {
		t.Fatalf("expected error for missing path")
	}
}
