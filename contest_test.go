package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestContestLoad(t *testing.T) {
	dir := t.TempDir()
	writeContest(t, dir, "quiz-night", []*Question{multipleQuestion(0), buzzerQuestion(0)})

	contests := newContestDir(dir)

	questions, err := contests.load("quiz-night")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("question count = %d, want 2", len(questions))
	}
	if questions[1].Type != QuestionBuzzer {
		t.Errorf("question type = %s, want buzzer", questions[1].Type)
	}
}

func TestContestLoadNotFound(t *testing.T) {
	contests := newContestDir(t.TempDir())

	if _, err := contests.load("missing"); !errors.Is(err, errContestNotFound) {
		t.Errorf("err = %v, want errContestNotFound", err)
	}
}

func TestContestLoadRejectsPathTraversal(t *testing.T) {
	contests := newContestDir(t.TempDir())

	for _, id := range []string{"", "../secrets", "a/b", `a\b`} {
		if _, err := contests.load(id); !errors.Is(err, errContestNotFound) {
			t.Errorf("load(%q) err = %v, want errContestNotFound", id, err)
		}
	}
}

func TestContestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	contests := newContestDir(dir)
	if _, err := contests.load("broken"); err == nil {
		t.Error("corrupt contest should fail to load")
	}
}

func TestContestLoadEmptyQuestions(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "empty.json"), []byte(`{"questions":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	contests := newContestDir(dir)
	if _, err := contests.load("empty"); err == nil {
		t.Error("a contest without questions should fail to load")
	}
}

func TestContestList(t *testing.T) {
	dir := t.TempDir()
	writeContest(t, dir, "alpha", []*Question{multipleQuestion(0)})
	writeContest(t, dir, "beta", []*Question{multipleQuestion(0), multipleQuestion(0)})

	// Non-contest noise should be skipped, not break the listing.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	contests := newContestDir(dir)

	catalog, err := contests.list()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("catalog size = %d, want 2: %+v", len(catalog), catalog)
	}

	byID := map[string]ContestInfo{}
	for _, c := range catalog {
		byID[c.ID] = c
	}
	if byID["beta"].QuestionCount != 2 {
		t.Errorf("beta question count = %d, want 2", byID["beta"].QuestionCount)
	}
}

func TestContestListNameFallsBackToID(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "unnamed.json"),
		[]byte(`{"questions":[{"id":1,"type":"multiple","question":"?","answers":[]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	contests := newContestDir(dir)
	catalog, err := contests.list()
	if err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 1 || catalog[0].Name != "unnamed" {
		t.Errorf("catalog = %+v, want name fallback to id", catalog)
	}
}

func TestContestListMissingDir(t *testing.T) {
	contests := newContestDir(filepath.Join(t.TempDir(), "nope"))

	if _, err := contests.list(); err == nil {
		t.Error("listing a missing directory should fail")
	}
}
