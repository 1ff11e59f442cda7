package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/gigboard/gigboard/internal/model"
)

func dev(id string, skills ...string) *model.Account {
	return &model.Account{
		ID:       id,
		Username: id,
		Email:    id + "@example.com",
		Type:     model.TypeDeveloper,
		Skills:   skills,
	}
}

func TestMatchCount(t *testing.T) {
	for _, tc := range []struct {
		required []string
		have     []string
		want     int
	}{
		{nil, []string{"go"}, 0},
		{[]string{"go"}, nil, 0},
		{[]string{"go", "postgres"}, []string{"go", "postgres", "react"}, 2},
		{[]string{"go", "postgres"}, []string{"react"}, 0},
		{[]string{"go"}, []string{"go"}, 1},
	} {
		if got := matchCount(tc.required, tc.have); got != tc.want {
			t.Errorf("matchCount(%v, %v) = %d, want %d", tc.required, tc.have, got, tc.want)
		}
	}
}

func TestRank_SkillTierBeatsCompletedCount(t *testing.T) {
	// Completed-task count only breaks ties within an equal skill tier:
	// the zero-match candidate ranks last despite the most completions at
	// lower tiers being irrelevant.
	candidates := []Candidate{
		{Account: dev("usr-a"), SkillMatches: 2, TasksCompleted: 5},
		{Account: dev("usr-b"), SkillMatches: 1, TasksCompleted: 10},
		{Account: dev("usr-c"), SkillMatches: 0, TasksCompleted: 1},
	}

	ranked := Rank(candidates)
	want := []string{"usr-a", "usr-b", "usr-c"}
	for i, id := range want {
		if ranked[i].Account.ID != id {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].Account.ID, id)
		}
	}
}

func TestRank_CompletedBreaksTies(t *testing.T) {
	candidates := []Candidate{
		{Account: dev("usr-a"), SkillMatches: 1, TasksCompleted: 2},
		{Account: dev("usr-b"), SkillMatches: 1, TasksCompleted: 9},
	}

	ranked := Rank(candidates)
	if ranked[0].Account.ID != "usr-b" || ranked[1].Account.ID != "usr-a" {
		t.Errorf("ranked = [%s %s], want [usr-b usr-a]", ranked[0].Account.ID, ranked[1].Account.ID)
	}
}

func TestRank_StableOnFullTie(t *testing.T) {
	// Equal scores on both keys must preserve pool order.
	var candidates []Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, Candidate{
			Account:        dev(fmt.Sprintf("usr-%02d", i)),
			SkillMatches:   3,
			TasksCompleted: 7,
		})
	}

	ranked := Rank(candidates)
	for i, c := range ranked {
		want := fmt.Sprintf("usr-%02d", i)
		if c.Account.ID != want {
			t.Errorf("ranked[%d] = %s, want %s (stable order violated)", i, c.Account.ID, want)
		}
	}
}

func TestSelectRecipients_VisibilityGuard(t *testing.T) {
	s := newMockStore()
	for i := 0; i < 5; i++ {
		s.addAccount(dev(fmt.Sprintf("usr-%d", i), "go"))
	}

	for _, vis := range []model.Visibility{model.VisibilityCustom, model.VisibilityOnlyMe} {
		task := &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Visibility: vis, Skills: []string{"go"}}
		got, err := SelectRecipients(context.Background(), s, task)
		if err != nil {
			t.Fatalf("SelectRecipients(%s) error: %v", vis, err)
		}
		if len(got) != 0 {
			t.Errorf("SelectRecipients(%s) = %d recipients, want 0", vis, len(got))
		}
	}
}

func TestSelectRecipients_CapsAtFifteen(t *testing.T) {
	s := newMockStore()
	for i := 0; i < 40; i++ {
		s.addAccount(dev(fmt.Sprintf("usr-%02d", i), "go"))
	}

	task := &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Visibility: model.VisibilityDevelopers, Skills: []string{"go"}}
	got, err := SelectRecipients(context.Background(), s, task)
	if err != nil {
		t.Fatalf("SelectRecipients() error: %v", err)
	}
	if len(got) != maxCandidates {
		t.Errorf("SelectRecipients() = %d recipients, want %d", len(got), maxCandidates)
	}
}

func TestSelectRecipients_MyTeamRestrictsToConnections(t *testing.T) {
	s := newMockStore()
	s.addAccount(dev("usr-in", "go"))
	s.addAccount(dev("usr-out", "go"))
	s.connected["usr-owner"] = []string{"usr-in"}

	task := &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Visibility: model.VisibilityMyTeam, Skills: []string{"go"}}
	got, err := SelectRecipients(context.Background(), s, task)
	if err != nil {
		t.Fatalf("SelectRecipients() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "usr-in" {
		t.Errorf("SelectRecipients() = %v, want only usr-in", got)
	}
}

func TestSelectRecipients_NoRequiredSkillsFallsThroughToCompleted(t *testing.T) {
	s := newMockStore()
	s.addAccount(dev("usr-a"))
	s.addAccount(dev("usr-b"))
	s.completed["usr-b"] = 4

	task := &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Visibility: model.VisibilityDevelopers}
	got, err := SelectRecipients(context.Background(), s, task)
	if err != nil {
		t.Fatalf("SelectRecipients() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "usr-b" {
		t.Errorf("SelectRecipients() order = %v, want usr-b first", ids(got))
	}
}

func TestSelectRecipients_EmptyPool(t *testing.T) {
	s := newMockStore()
	task := &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Visibility: model.VisibilityDevelopers, Skills: []string{"go"}}
	got, err := SelectRecipients(context.Background(), s, task)
	if err != nil {
		t.Fatalf("SelectRecipients() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SelectRecipients() = %v, want empty", ids(got))
	}
}

func ids(accounts []*model.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.ID
	}
	return out
}
