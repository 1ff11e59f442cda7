package export

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gigboard/gigboard/internal/model"
)

func TestExportJSONL_Empty(t *testing.T) {
	ms := newMockStore()
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.TaskCount != 0 || h.ActivityCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_WithTasksAndActivity(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()

	// Add tasks out of ID order to verify sorting.
	ms.tasks["tsk-zzz"] = &model.Task{ID: "tsk-zzz", OwnerID: "usr-1", Title: "Second", Visibility: model.VisibilityDevelopers, CreatedAt: now}
	ms.tasks["tsk-aaa"] = &model.Task{ID: "tsk-aaa", OwnerID: "usr-1", Title: "First", Visibility: model.VisibilityDevelopers, CreatedAt: now}

	// Add relational data for tsk-aaa.
	ms.applications["tsk-aaa"] = []*model.Application{
		{ID: "app-1", TaskID: "tsk-aaa", AccountID: "usr-2", CreatedAt: now},
	}
	ms.participations["tsk-aaa"] = []*model.Participation{
		{ID: "prt-1", TaskID: "tsk-aaa", AccountID: "usr-2", Accepted: true, CreatedAt: now},
	}

	// Add an activity record.
	ms.activities = append(ms.activities, &model.Activity{
		ID:    1,
		Actor: model.EntityRef{Kind: model.KindAccount, ID: "usr-1"},
		Verb:  "created",
		Object: model.EntityRef{Kind: model.KindTask, ID: "tsk-aaa"},
	})

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 tasks + 1 activity = 4 lines
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	// Verify header.
	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.TaskCount != 2 || h.ActivityCount != 1 {
		t.Fatalf("header counts: task=%d activity=%d", h.TaskCount, h.ActivityCount)
	}

	// Verify tasks are sorted by ID (tsk-aaa before tsk-zzz).
	var rec1, rec2 record
	if err := json.Unmarshal([]byte(lines[1]), &rec1); err != nil {
		t.Fatalf("unmarshal line 1: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &rec2); err != nil {
		t.Fatalf("unmarshal line 2: %v", err)
	}
	if rec1.Type != "task" || rec2.Type != "task" {
		t.Fatalf("expected task types, got %q and %q", rec1.Type, rec2.Type)
	}

	data1, _ := json.Marshal(rec1.Data)
	data2, _ := json.Marshal(rec2.Data)
	var t1, t2 taskSnapshot
	if err := json.Unmarshal(data1, &t1); err != nil {
		t.Fatalf("unmarshal t1: %v", err)
	}
	if err := json.Unmarshal(data2, &t2); err != nil {
		t.Fatalf("unmarshal t2: %v", err)
	}

	if t1.ID != "tsk-aaa" || t2.ID != "tsk-zzz" {
		t.Fatalf("tasks not sorted: got %q, %q", t1.ID, t2.ID)
	}

	// Verify tsk-aaa has embedded relations.
	if len(t1.Applications) != 1 {
		t.Fatalf("expected 1 application for tsk-aaa, got %d", len(t1.Applications))
	}
	if len(t1.Participations) != 1 {
		t.Fatalf("expected 1 participation for tsk-aaa, got %d", len(t1.Participations))
	}

	// Verify activity line.
	var rec3 record
	if err := json.Unmarshal([]byte(lines[3]), &rec3); err != nil {
		t.Fatalf("unmarshal line 3: %v", err)
	}
	if rec3.Type != "activity" {
		t.Fatalf("expected activity type, got %q", rec3.Type)
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
