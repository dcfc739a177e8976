package report

import (
	"testing"
	"time"

	"github.com/park285/stellar-mind-go/internal/progress/catalog"
	"github.com/park285/stellar-mind-go/internal/progress/model"
)

type staticSource struct {
	profile *model.PlayerProfile
}

func (s staticSource) Profile() *model.PlayerProfile { return s.profile }

func sampleProfile(t *testing.T) *model.PlayerProfile {
	t.Helper()
	cat := catalog.MustDefault()
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	p := model.NewDefaultProfile("Lyra", cat.Games(), 0, start.Add(14*24*time.Hour))
	p.CurrentCycle = 3
	if err := p.Games[3].RecordStageResult(1, model.Outcome{Score: 8, TimeTaken: 12.5, Incorrect: 2, Bonus: 1}); err != nil {
		t.Fatal(err)
	}
	delete(p.Games[3].Stages, 2)

	archivedCable := model.NewGameRecord(model.KindCable, 3)
	for i := range 3 {
		if err := archivedCable.RecordStageResult(i, model.Outcome{Score: 5}); err != nil {
			t.Fatal(err)
		}
	}

	p.CycleHistory = []model.CycleSnapshot{
		{CycleNumber: 2, TotalScore: 15, StartedAt: start.Add(7 * 24 * time.Hour), EndedAt: start.Add(14 * 24 * time.Hour),
			Games: map[int]*model.GameRecord{1: archivedCable}},
		{CycleNumber: 1, TotalScore: 0, StartedAt: start, EndedAt: start.Add(7 * 24 * time.Hour),
			Games: map[int]*model.GameRecord{0: model.NewGameRecord(model.KindBase, 3)}},
	}
	return p
}

func TestReporter_GetCycles(t *testing.T) {
	p := sampleProfile(t)
	r := NewReporter(staticSource{profile: p}, catalog.MustDefault())

	cycles := r.GetCycles()
	if len(cycles) != 3 {
		t.Fatalf("expected 3 cycles, got %d", len(cycles))
	}
	for i, want := range []int{1, 2, 3} {
		if cycles[i].CycleNumber != want {
			t.Errorf("cycles[%d] = %d, want %d", i, cycles[i].CycleNumber, want)
		}
	}
	if cycles[0].InProgress || cycles[0].EndedAt == nil {
		t.Error("archived cycle must carry an end date")
	}
	if !cycles[2].InProgress || cycles[2].EndedAt != nil {
		t.Error("last view must be the in-progress cycle")
	}

	cable := cycles[1].Games[0]
	if cable.Name != "Cable Connection" || !cable.Completed || cable.Stages[2].Score != 5 {
		t.Errorf("unexpected archived cable view: %+v", cable)
	}
	if cable.Stages[0].Incorrect != nil {
		t.Error("non-asteroid stages must not expose asteroid fields")
	}
}

func TestReporter_StageViews(t *testing.T) {
	r := NewReporter(staticSource{profile: sampleProfile(t)}, catalog.MustDefault())

	current, ok := r.GetCycle(3)
	if !ok {
		t.Fatal("cycle 3 not found")
	}
	if len(current.Games) != 4 {
		t.Fatalf("expected 4 games, got %d", len(current.Games))
	}

	asteroid := current.Games[3]
	if asteroid.Kind != string(model.KindAsteroid) || asteroid.Completed {
		t.Errorf("unexpected asteroid game view: %+v", asteroid)
	}
	if len(asteroid.Stages) != 3 {
		t.Fatalf("expected all stage slots listed, got %d", len(asteroid.Stages))
	}

	played := asteroid.Stages[1]
	if !played.Present || !played.Completed || played.Status != "completed" {
		t.Errorf("unexpected played stage: %+v", played)
	}
	if played.Incorrect == nil || *played.Incorrect != 2 || played.Bonus == nil || *played.Bonus != 1 {
		t.Errorf("unexpected asteroid fields: %+v", played)
	}

	gap := asteroid.Stages[2]
	if gap.Present || gap.Status != "not_started" {
		t.Errorf("missing stage must be reported as absent: %+v", gap)
	}

	if _, ok := r.GetCycle(9); ok {
		t.Error("unknown cycle must not be found")
	}
}

func TestReporter_DoesNotMutate(t *testing.T) {
	p := sampleProfile(t)
	r := NewReporter(staticSource{profile: p}, catalog.MustDefault())

	_ = r.GetCycles()

	if p.CycleHistory[0].CycleNumber != 2 {
		t.Error("history order of the profile must not change")
	}
	if _, ok := p.Games[3].Stage(2); ok {
		t.Error("gaps must not be filled by the report")
	}
}

func TestReporter_NoProfile(t *testing.T) {
	r := NewReporter(staticSource{}, catalog.MustDefault())
	if cycles := r.GetCycles(); cycles != nil {
		t.Errorf("expected nil, got %+v", cycles)
	}
}
