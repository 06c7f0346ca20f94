package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatActivity(t *testing.T) {
	line := FormatActivity(ActivityEvent{
		Type:       EventPointsAwarded,
		Username:   "employee",
		Points:     100,
		Total:      110,
		Level:      2,
		Reason:     "idea approved",
		OccurredAt: "2024-05-01T10:00:00Z",
	})
	want := `[2024-05-01T10:00:00Z] points.awarded | user=employee | points=+100 total=110 level=2 | reason="idea approved"` + "\n"
	if line != want {
		t.Fatalf("got  %q\nwant %q", line, want)
	}
}

func TestAppendActivity(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	for _, ev := range []ActivityEvent{
		{Type: EventIdeaSubmitted, Username: "employee", IdeaID: 1, IdeaTitle: "Bike racks", OccurredAt: "t1"},
		{Type: EventIdeaStatusChanged, Username: "admin", IdeaID: 1, Status: "Approved", OccurredAt: "t2"},
	} {
		body, _ := json.Marshal(ev)
		if err := AppendActivity(dir, body); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	raw, err := os.ReadFile(filepath.Join(dir, ActivityLogName))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2: %q", len(lines), raw)
	}
	if !strings.Contains(lines[0], `title="Bike racks"`) || !strings.Contains(lines[1], `status="Approved"`) {
		t.Fatalf("unexpected log: %q", raw)
	}
	if err := AppendActivity(dir, []byte("{not json")); err == nil {
		t.Fatal("malformed body accepted")
	}
}
