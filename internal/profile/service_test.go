package profile

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syncrate/internal/achievements"
	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/diagnostics"
	"github.com/abhisek/syncrate/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := NewService(st.ProfileRepo(), st.EventRepo())
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, st
}

func mustChallenge(t *testing.T, id string) challenges.Challenge {
	t.Helper()
	ch, err := challenges.Get(id)
	require.NoError(t, err)
	return ch
}

func pass(ch challenges.Challenge) challenges.Outcome {
	return challenges.Outcome{Passed: true, XP: ch.XP}
}

func fail() challenges.Outcome {
	return challenges.Outcome{Feedback: &diagnostics.Result{Title: "Missing Loop Structure", Severity: diagnostics.SeverityModerate}}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"  Ada  ", "Ada", false},
		{"Ada   Lovelace", "Ada Lovelace", false},
		{"A", "", true},
		{"   ", "", true},
		{strings.Repeat("x", MaxNameLen), strings.Repeat("x", MaxNameLen), false},
		{strings.Repeat("x", MaxNameLen+1), "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeName(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidName, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole(" Admin "))
	assert.Equal(t, RoleStudent, ParseRole("student"))
	assert.Equal(t, RoleStudent, ParseRole("superuser"))
}

func TestSignInCreatesThenReuses(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, created, err := svc.SignIn(ctx, "Ada", RoleStudent)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "UNCALIBRATED", p.RankLabel())
	assert.Equal(t, "UNCALIBRATED", p.RankDetail())

	again, created, err := svc.SignIn(ctx, "ada", RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, "Ada", again.Name)
	assert.True(t, again.IsAdmin())

	_, _, err = svc.SignIn(ctx, "x", RoleStudent)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestCreateDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Grace", RoleStudent)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "GRACE", RoleStudent)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestFindByIDOrName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "Linus", RoleStudent)
	require.NoError(t, err)

	byID, err := svc.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Linus", byID.Name)

	byName, err := svc.Find(ctx, "linus")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	_, err = svc.Find(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordAssessment(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "Ada", RoleStudent)
	require.NoError(t, err)

	res := calibration.AssessmentResult{
		Rank:           "SCRIPTER",
		Level:          "Intermediate",
		Scores:         map[calibration.Category]int{calibration.CategoryLogic: 80, calibration.CategorySyntax: 60},
		Percent:        70,
		TotalCorrect:   7,
		TotalQuestions: 10,
	}
	u, err := svc.RecordAssessment(ctx, p.ID, res)
	require.NoError(t, err)

	assert.True(t, u.Profile.Calibrated)
	assert.Equal(t, "SCRIPTER", u.Profile.RankLabel())
	assert.Equal(t, "SCRIPTER · Intermediate", u.Profile.RankDetail())
	assert.Equal(t, 80, u.Profile.Scores[calibration.CategoryLogic])

	var ids []string
	for _, b := range u.NewBadges {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{achievements.Calibrated, achievements.Scripter}, ids)
	assert.Equal(t, achievements.SyncRate(u.Profile.Badges), u.Profile.SyncRate)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Profile.Badges, stored.Badges)

	names, err := st.EventRepo().BadgeNames(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Calibrated", "Scripter"}, names)
}

func TestRecordSubmissionXPOnlyOnFirstClear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "Ada", RoleStudent)
	require.NoError(t, err)
	hello := mustChallenge(t, "hello-world")

	u, err := svc.RecordSubmission(ctx, p.ID, hello, pass(hello))
	require.NoError(t, err)
	assert.True(t, u.FirstClear)
	assert.Equal(t, hello.XP, u.XPAwarded)
	assert.Equal(t, hello.XP, u.Profile.XP)
	assert.Equal(t, []string{"hello-world"}, u.Profile.Completed)

	u, err = svc.RecordSubmission(ctx, p.ID, hello, pass(hello))
	require.NoError(t, err)
	assert.False(t, u.FirstClear)
	assert.Zero(t, u.XPAwarded)
	assert.Equal(t, hello.XP, u.Profile.XP)
	assert.Equal(t, 2, u.Profile.Streak)
}

func TestRecordSubmissionStreaks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "Ada", RoleStudent)
	require.NoError(t, err)
	hello := mustChallenge(t, "hello-world")

	for range 3 {
		_, err = svc.RecordSubmission(ctx, p.ID, hello, pass(hello))
		require.NoError(t, err)
	}
	u, err := svc.RecordSubmission(ctx, p.ID, hello, fail())
	require.NoError(t, err)
	assert.Zero(t, u.Profile.Streak)
	assert.Equal(t, 3, u.Profile.BestStreak)
}

func TestRecordSubmissionBadges(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "Ada", RoleStudent)
	require.NoError(t, err)
	countdown := mustChallenge(t, "countdown")

	u, err := svc.RecordSubmission(ctx, p.ID, countdown, fail())
	require.NoError(t, err)
	assert.Empty(t, u.NewBadges)

	u, err = svc.RecordSubmission(ctx, p.ID, countdown, pass(countdown))
	require.NoError(t, err)

	var ids []string
	for _, b := range u.NewBadges {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{achievements.FirstSteps, achievements.CleanCoder, achievements.Comeback}, ids)
	assert.Equal(t, achievements.SyncRate(u.Profile.Badges), u.Profile.SyncRate)
	assert.Len(t, svc.Badges().Session(p.ID), 3)

	u, err = svc.RecordSubmission(ctx, p.ID, countdown, pass(countdown))
	require.NoError(t, err)
	assert.Empty(t, u.NewBadges)
}

// slowProfiles widens the window between reading and saving a profile so
// that unserialized updates would overwrite each other.
type slowProfiles struct {
	store.ProfileRepo
}

func (r slowProfiles) Get(ctx context.Context, id string) (*store.ProfileRecord, error) {
	time.Sleep(20 * time.Millisecond)
	return r.ProfileRepo.Get(ctx, id)
}

func TestRecordSubmissionConcurrent(t *testing.T) {
	base, st := newTestService(t)
	svc := NewService(slowProfiles{st.ProfileRepo()}, st.EventRepo())
	svc.now = base.now
	ctx := context.Background()

	p, err := svc.Create(ctx, "Ada", RoleStudent)
	require.NoError(t, err)

	catalog := challenges.Catalog()
	wantXP := 0
	var wg sync.WaitGroup
	for _, ch := range catalog {
		wantXP += ch.XP
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordSubmission(ctx, p.ID, ch, pass(ch))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Completed, len(catalog))
	assert.Equal(t, wantXP, got.XP)
	assert.Equal(t, len(catalog), got.Streak)

	seen := map[string]bool{}
	for _, u := range svc.Badges().Session(p.ID) {
		assert.False(t, seen[u.Badge.ID], "badge %s unlocked twice", u.Badge.ID)
		seen[u.Badge.ID] = true
	}
	assert.Len(t, got.Badges, len(seen))
}

func TestResetKeepsIdentity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "Ada", RoleAdmin)
	require.NoError(t, err)
	hello := mustChallenge(t, "hello-world")
	_, err = svc.RecordSubmission(ctx, p.ID, hello, pass(hello))
	require.NoError(t, err)

	r, err := svc.Reset(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, r.ID)
	assert.Equal(t, RoleAdmin, r.Role)
	assert.Zero(t, r.XP)
	assert.Empty(t, r.Completed)
	assert.Empty(t, r.Badges)
	assert.False(t, r.Calibrated)

	// Badges can be earned again after a reset.
	u, err := svc.RecordSubmission(ctx, p.ID, hello, pass(hello))
	require.NoError(t, err)
	assert.NotEmpty(t, u.NewBadges)
	assert.Equal(t, hello.XP, u.Profile.XP)
}

func TestListAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, "Ada", RoleStudent)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Grace", RoleStudent)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Grace", all[0].Name)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrNotFound)
}
