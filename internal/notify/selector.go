// Package notify selects notification recipients and dispatches the
// outbound emails triggered by marketplace events.
package notify

import (
	"context"
	"fmt"
	"sort"

	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// maxCandidates caps how many developers are targeted per new task.
const maxCandidates = 15

// Candidate pairs a developer account with the two ranking signals.
// Candidates are recomputed fresh per notification event, never stored.
type Candidate struct {
	Account        *model.Account
	SkillMatches   int
	TasksCompleted int
}

// SelectRecipients returns the ranked, capped list of developers to notify
// about a new task. Tasks with custom or only-me visibility produce an empty
// list: staff recipients are handled separately and are always notified.
func SelectRecipients(ctx context.Context, s store.Store, task *model.Task) ([]*model.Account, error) {
	switch task.Visibility {
	case model.VisibilityDevelopers, model.VisibilityMyTeam:
	default:
		return nil, nil
	}

	filter := model.AccountFilter{Type: model.TypeDeveloper}
	if task.Visibility == model.VisibilityMyTeam {
		filter.ConnectedTo = task.OwnerID
	}
	pool, err := s.ListAccounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list candidate pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, nil
	}

	ids := make([]string, len(pool))
	for i, a := range pool {
		ids[i] = a.ID
	}
	completed, err := s.CountCompletedTasks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count completed tasks: %w", err)
	}

	candidates := make([]Candidate, len(pool))
	for i, a := range pool {
		candidates[i] = Candidate{
			Account:        a,
			SkillMatches:   matchCount(task.Skills, a.Skills),
			TasksCompleted: completed[a.ID],
		}
	}

	ranked := Rank(candidates)
	if len(ranked) > maxCandidates {
		ranked = ranked[:maxCandidates]
	}

	accounts := make([]*model.Account, len(ranked))
	for i, c := range ranked {
		accounts[i] = c.Account
	}
	return accounts, nil
}

// Rank orders candidates by skill-match count descending, breaking ties by
// completed-task count descending. The sort is stable: equally-ranked
// candidates keep their pool order.
func Rank(candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].SkillMatches != ranked[j].SkillMatches {
			return ranked[i].SkillMatches > ranked[j].SkillMatches
		}
		return ranked[i].TasksCompleted > ranked[j].TasksCompleted
	})
	return ranked
}

// matchCount counts how many required skills appear in the candidate set.
func matchCount(required, have []string) int {
	if len(required) == 0 || len(have) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	n := 0
	for _, s := range required {
		if _, ok := set[s]; ok {
			n++
		}
	}
	return n
}
