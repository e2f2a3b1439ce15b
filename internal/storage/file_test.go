package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "logs", "journal.jsonl")
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}

	ev1 := Event{Timestamp: time.Unix(1, 0).UTC(), SessionID: "s", UserMessage: "I won", Sentiment: "POSITIVE", SavedTo: SavedAchievement}
	ev2 := Event{Timestamp: time.Unix(2, 0).UTC(), SessionID: "s", UserMessage: "meh", Sentiment: "NEUTRAL"}
	if err := rec.AppendInteraction(ev1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := rec.AppendInteraction(ev2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	events, err := rec.LoadInteractions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2, got %d", len(events))
	}
	if events[0].UserMessage != "I won" || events[1].Sentiment != "NEUTRAL" {
		t.Fatalf("order mismatch: %+v", events)
	}
	if events[0].SavedTo != SavedAchievement {
		t.Fatalf("saved_to lost: %+v", events[0])
	}

	st, err := os.Stat(p)
	if err != nil || st.Size() == 0 {
		t.Fatalf("file not written")
	}
}

func TestFileRecorder_SkipsMalformedLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "journal.jsonl")
	content := "{\"user_message\":\"a\"}\nnot json\n\n{\"user_message\":\"b\"}\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	events, err := rec.LoadInteractions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 || events[1].UserMessage != "b" {
		t.Fatalf("unexpected events: %+v", events)
	}
}
