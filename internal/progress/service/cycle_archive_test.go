package service

import (
	"context"
	"testing"
	"time"

	"github.com/park285/stellar-mind-go/internal/common/testhelper"
	"github.com/park285/stellar-mind-go/internal/progress/catalog"
	"github.com/park285/stellar-mind-go/internal/progress/codec"
	"github.com/park285/stellar-mind-go/internal/progress/model"
)

func TestCycleArchive_ScenarioB(t *testing.T) {
	backend := newMemBackend()
	s := loadedStore(t, backend)
	archive := NewCycleArchive(s, nil, testhelper.DiscardLogger())

	for stage := range 3 {
		if err := s.RecordStageResult(1, stage, model.Outcome{Score: 10, TimeTaken: 3}); err != nil {
			t.Fatalf("record stage %d: %v", stage, err)
		}
	}
	if !s.Profile().Games[1].CheckCompletion() {
		t.Fatal("expected game 1 completed")
	}
	cycleBefore := s.Profile().CurrentCycle

	archived, err := archive.AdvanceCycle(context.Background())
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if !archived {
		t.Fatal("expected snapshot archived")
	}

	p := s.Profile()
	if len(p.CycleHistory) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(p.CycleHistory))
	}
	if p.CurrentCycle != cycleBefore+1 {
		t.Errorf("expected cycle %d, got %d", cycleBefore+1, p.CurrentCycle)
	}

	live := p.Games[1]
	if live.Kind != model.KindCable || len(live.Stages) != 3 || live.IsCompleted() {
		t.Errorf("expected fresh cable game, got %+v", live)
	}
	for i := range 3 {
		if r, _ := live.Stage(i); r != model.DefaultStage(model.KindCable) {
			t.Errorf("stage %d not reset: %+v", i, r)
		}
	}

	snap := p.CycleHistory[0]
	if snap.CycleNumber != cycleBefore || snap.TotalScore != 30 {
		t.Errorf("unexpected snapshot header: %+v", snap)
	}
	if !snap.Games[1].IsCompleted() {
		t.Error("snapshot must keep the completed game")
	}
	if !snap.StartedAt.Equal(testNow) || !snap.EndedAt.Equal(testNow) {
		t.Errorf("unexpected snapshot dates: %v %v", snap.StartedAt, snap.EndedAt)
	}

	if p.TotalScore != 0 || p.HasActivityThisCycle || !p.LastPlayed.IsNone() {
		t.Errorf("live state not reset: score=%d activity=%v resume=%+v", p.TotalScore, p.HasActivityThisCycle, p.LastPlayed)
	}

	if err := s.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	stored, _ := backend.get(testKey)
	result, err := codec.DecodeProfile([]byte(stored), s.Catalog().Games(), "")
	if err != nil {
		t.Fatalf("decode persisted profile: %v", err)
	}
	if len(result.Profile.CycleHistory) != 1 || result.Profile.CurrentCycle != cycleBefore+1 {
		t.Error("advance must be persisted")
	}
}

func TestCycleArchive_NoSnapshotWithoutActivity(t *testing.T) {
	s := loadedStore(t, newMemBackend())
	archive := NewCycleArchive(s, nil, testhelper.DiscardLogger())

	archived, err := archive.AdvanceCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if archived {
		t.Error("inactive cycle must not be archived")
	}
	p := s.Profile()
	if len(p.CycleHistory) != 0 {
		t.Errorf("expected empty history, got %d", len(p.CycleHistory))
	}
	if p.CurrentCycle != 2 {
		t.Errorf("cycle must still advance, got %d", p.CurrentCycle)
	}
}

func TestCycleArchive_SnapshotIsIndependent(t *testing.T) {
	s := loadedStore(t, newMemBackend())
	archive := NewCycleArchive(s, nil, testhelper.DiscardLogger())

	if err := s.RecordStageResult(0, 0, model.Outcome{Score: 5, Mistakes: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := archive.AdvanceCycle(context.Background()); err != nil {
		t.Fatal(err)
	}

	snap := s.Profile().CycleHistory[0]
	before, _ := snap.Games[0].Stage(0)

	if err := s.RecordStageResult(0, 0, model.Outcome{Score: 99, Mistakes: 7}); err != nil {
		t.Fatal(err)
	}
	s.Profile().Games[0].Stages[1] = model.NewStage(model.KindBase, model.Outcome{Score: 42})

	after, _ := snap.Games[0].Stage(0)
	if after != before {
		t.Errorf("snapshot changed: before %+v after %+v", before, after)
	}
	if after.Shared().Score != 5 {
		t.Errorf("expected archived score 5, got %d", after.Shared().Score)
	}
	if r, _ := snap.Games[0].Stage(1); r.Shared().Completed {
		t.Error("snapshot stage 1 must not see live writes")
	}
	if snap.Games[0] == s.Profile().Games[0] {
		t.Error("snapshot must not share the live GameRecord")
	}
}

func TestCycleArchive_UsesClock(t *testing.T) {
	clock := testNow
	s := NewProgressStore(
		catalog.MustDefault(),
		newMemBackend(),
		nil,
		StoreOptions{Key: testKey, StartingScore: 100, Now: func() time.Time { return clock }},
		nil,
		testhelper.DiscardLogger(),
	)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Profile().TotalScore != 100 {
		t.Fatalf("expected starting score 100, got %d", s.Profile().TotalScore)
	}
	if err := s.RecordStageResult(2, 0, model.Outcome{Score: 1}); err != nil {
		t.Fatal(err)
	}

	clock = testNow.Add(72 * time.Hour)
	if _, err := NewCycleArchive(s, nil, nil).AdvanceCycle(context.Background()); err != nil {
		t.Fatal(err)
	}

	p := s.Profile()
	if !p.CycleHistory[0].EndedAt.Equal(clock) || !p.CurrentCycleStart.Equal(clock) {
		t.Errorf("unexpected dates: end=%v start=%v", p.CycleHistory[0].EndedAt, p.CurrentCycleStart)
	}
	if p.CycleHistory[0].TotalScore != 101 || p.TotalScore != 100 {
		t.Errorf("unexpected scores: archived=%d live=%d", p.CycleHistory[0].TotalScore, p.TotalScore)
	}
}
