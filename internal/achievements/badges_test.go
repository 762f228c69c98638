package achievements

import (
	"context"
	"testing"

	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/store"
)

func names(badges []Badge) []string {
	out := make([]string, len(badges))
	for i, b := range badges {
		out[i] = b.Name
	}
	return out
}

func hasBadge(badges []Badge, id string) bool {
	for _, b := range badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

func TestCatalog(t *testing.T) {
	cat := Catalog()
	if len(cat) != 10 {
		t.Fatalf("catalog has %d badges, want 10", len(cat))
	}
	ids, nameSet := map[string]bool{}, map[string]bool{}
	for _, b := range cat {
		if ids[b.ID] || nameSet[b.Name] {
			t.Errorf("duplicate badge %s / %s", b.ID, b.Name)
		}
		ids[b.ID], nameSet[b.Name] = true, true
		if b.Icon == "" || b.Description == "" {
			t.Errorf("badge %s incomplete", b.ID)
		}
	}
}

func TestSyncRate(t *testing.T) {
	all := names(Catalog())
	tests := []struct {
		name     string
		unlocked []string
		want     int
	}{
		{"none", nil, 0},
		{"one", all[:1], 10},
		{"three", all[:3], 30},
		{"all", all, 100},
		{"duplicates counted once", []string{all[0], all[0], all[0]}, 10},
		{"unknown ignored", []string{"Not A Badge", all[1]}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SyncRate(tt.unlocked); got != tt.want {
				t.Errorf("SyncRate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	loops := []string{"countdown", "sum-to-ten", "max-of-array"}

	tests := []struct {
		name    string
		p       Progress
		want    []string
		notWant []string
	}{
		{"nothing yet", Progress{}, nil, []string{FirstSteps, Calibrated}},
		{"first pass", Progress{Completed: []string{"hello-world"}, Streak: 1, LastPassed: true}, []string{FirstSteps}, []string{LoopMaster}},
		{"calibrated recruit", Progress{Calibrated: true, Rank: "RECRUIT"}, []string{Calibrated}, []string{Scripter, Architect}},
		{"calibrated architect", Progress{Calibrated: true, Rank: "ARCHITECT"}, []string{Calibrated, Scripter, Architect}, nil},
		{"rank without calibration", Progress{Rank: "ENGINEER"}, nil, []string{Scripter}},
		{"streak", Progress{Streak: OnFireStreak}, []string{OnFire}, nil},
		{"short streak", Progress{Streak: OnFireStreak - 1}, nil, []string{OnFire}},
		{"loop master", Progress{Completed: loops}, []string{LoopMaster}, nil},
		{"repeated loop ids", Progress{Completed: []string{"countdown", "countdown", "countdown"}}, nil, []string{LoopMaster}},
		{"decision maker", Progress{Completed: []string{"even-or-odd", "grade-letter"}}, []string{DecisionMaker}, nil},
		{"completionist", Progress{Completed: challenges.IDs()}, []string{Completionist, LoopMaster, DecisionMaker}, nil},
		{"clean", Progress{LastPassed: true, LastClean: true}, []string{CleanCoder}, nil},
		{"clean requires pass", Progress{LastClean: true}, nil, []string{CleanCoder}},
		{"comeback", Progress{LastPassed: true, LastFailedBefore: true}, []string{Comeback}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.p)
			for _, id := range tt.want {
				if !hasBadge(got, id) {
					t.Errorf("missing %s in %v", id, names(got))
				}
			}
			for _, id := range tt.notWant {
				if hasBadge(got, id) {
					t.Errorf("unexpected %s in %v", id, names(got))
				}
			}
		})
	}
}

func TestEvaluate_SkipsUnlocked(t *testing.T) {
	p := Progress{Completed: []string{"hello-world"}, Unlocked: []string{"First Steps"}}
	if got := Evaluate(p); hasBadge(got, FirstSteps) {
		t.Error("already-unlocked badge returned again")
	}
}

type fakeRecorder struct {
	events []store.BadgeEventData
	err    error
}

func (f *fakeRecorder) AppendBadge(_ context.Context, data store.BadgeEventData) error {
	f.events = append(f.events, data)
	return f.err
}

func TestService_Award(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewService(rec)
	ctx := context.Background()

	got := svc.Award(ctx, "p1", Progress{Completed: []string{"hello-world"}, LastPassed: true, LastClean: true})
	if len(got) != 2 {
		t.Fatalf("Award returned %v", names(got))
	}
	if len(rec.events) != 2 || rec.events[0].ProfileID != "p1" || rec.events[0].BadgeID != FirstSteps {
		t.Errorf("recorded %+v", rec.events)
	}
	if got := svc.Session("p1"); len(got) != 2 {
		t.Errorf("Session = %d", len(got))
	}
	if got := svc.Session("p2"); len(got) != 0 {
		t.Errorf("Session(p2) = %d", len(got))
	}

	// A repeat unlock, e.g. from a racing caller, is kept once.
	svc.Award(ctx, "p1", Progress{Completed: []string{"hello-world"}, LastPassed: true, LastClean: true})
	if got := svc.Session("p1"); len(got) != 2 {
		t.Errorf("Session after repeat = %d", len(got))
	}

	svc.ResetSession()
	if len(svc.Session("p1")) != 0 {
		t.Error("ResetSession did not clear")
	}
}

func TestService_AwardSurvivesRecorderErrors(t *testing.T) {
	svc := NewService(&fakeRecorder{err: store.ErrConflict})
	if got := svc.Award(context.Background(), "p", Progress{Calibrated: true}); len(got) != 1 {
		t.Errorf("Award = %v", names(got))
	}
	if got := NewService(nil).Award(context.Background(), "p", Progress{Calibrated: true}); len(got) != 1 {
		t.Errorf("Award with nil recorder = %v", names(got))
	}
}
