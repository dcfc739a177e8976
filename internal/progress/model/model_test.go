package model

import (
	"testing"
	"time"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"asteroid", KindAsteroid, false},
		{"  CABLE ", KindCable, false},
		{"equipment", KindEquipment, false},
		{"base", KindBase, false},
		{"", "", true},
		{"puzzle", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewStage_MatchesKind(t *testing.T) {
	outcome := Outcome{Score: 10, TimeTaken: 12.5, Mistakes: 1, Difficulty: 2, Incorrect: 2, Bonus: 1}

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			r := NewStage(kind, outcome)
			if r.Kind() != kind {
				t.Fatalf("kind = %v, want %v", r.Kind(), kind)
			}
			if !r.Shared().Completed || r.Shared().TimeTaken != 12.5 {
				t.Errorf("unexpected shared fields: %+v", r.Shared())
			}
			incorrect, bonus, ok := AsteroidFields(r)
			if ok != (kind == KindAsteroid) {
				t.Fatalf("AsteroidFields ok = %v for %v", ok, kind)
			}
			if ok && (incorrect != 2 || bonus != 1) {
				t.Errorf("unexpected asteroid fields: %d %d", incorrect, bonus)
			}
		})
	}
}

func TestRekind(t *testing.T) {
	src := AsteroidStage{StageBase: StageBase{Completed: true, Score: 7}, Incorrect: 3}

	if got := Rekind(src, KindAsteroid); got != StageRecord(src) {
		t.Errorf("same kind must be unchanged: %+v", got)
	}

	got := Rekind(src, KindCable)
	want := CableStage{StageBase: StageBase{Completed: true, Score: 7}}
	if got != StageRecord(want) {
		t.Errorf("Rekind = %+v, want %+v", got, want)
	}
}

func TestGameRecord_Completion(t *testing.T) {
	g := NewGameRecord(KindCable, 3)
	if len(g.Stages) != 3 {
		t.Fatalf("expected 3 default stages, got %d", len(g.Stages))
	}

	for _, idx := range []int{0, 1} {
		if err := g.RecordStageResult(idx, Outcome{TimeTaken: 5}); err != nil {
			t.Fatalf("record stage %d: %v", idx, err)
		}
	}
	if g.IsCompleted() || g.CheckCompletion() {
		t.Fatal("expected incomplete after stages 0 and 1")
	}

	if err := g.RecordStageResult(2, Outcome{TimeTaken: 5}); err != nil {
		t.Fatalf("record stage 2: %v", err)
	}
	if !g.IsCompleted() {
		t.Fatal("expected completed after stage 2")
	}
	for range 3 {
		if !g.CheckCompletion() {
			t.Fatal("CheckCompletion must be idempotent")
		}
	}
}

func TestGameRecord_RecordStageResultOutOfRange(t *testing.T) {
	g := NewGameRecord(KindEquipment, 3)
	before := len(g.Stages)

	for _, idx := range []int{-1, 3, 99} {
		err := g.RecordStageResult(idx, Outcome{Score: 1})
		if !cerrors.IsInvariantViolation(err) {
			t.Errorf("index %d: expected invariant violation, got %v", idx, err)
		}
	}
	if len(g.Stages) != before {
		t.Errorf("record must be unchanged, got %d stages", len(g.Stages))
	}
}

func TestGameRecord_CheckCompletionWithGap(t *testing.T) {
	g := NewEmptyGameRecord(KindBase, 3)
	g.Stages[0] = NewStage(KindBase, Outcome{})
	g.Stages[2] = NewStage(KindBase, Outcome{})
	if g.CheckCompletion() {
		t.Error("missing stage 1 must keep game incomplete")
	}
}

func TestGameRecord_Status(t *testing.T) {
	g := NewGameRecord(KindAsteroid, 3)
	if g.Status(0) != StageNotStarted {
		t.Errorf("expected not_started, got %v", g.Status(0))
	}
	g.MarkOpened()
	if g.Status(0) != StageInProgress {
		t.Errorf("expected in_progress, got %v", g.Status(0))
	}
	_ = g.RecordStageResult(0, Outcome{})
	if g.Status(0) != StageCompleted {
		t.Errorf("expected completed, got %v", g.Status(0))
	}
	if idx, ok := g.FirstIncomplete(); !ok || idx != 1 {
		t.Errorf("FirstIncomplete = %d,%v", idx, ok)
	}
}

func TestNewDefaultProfile(t *testing.T) {
	specs := []GameSpec{
		{Index: 0, Kind: KindBase, StageCount: 3},
		{Index: 3, Kind: KindAsteroid, StageCount: 3},
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	p := NewDefaultProfile("  ", specs, 100, now)
	if p.PlayerName != DefaultPlayerName {
		t.Errorf("expected default name, got %q", p.PlayerName)
	}
	if p.TotalScore != 100 || p.CurrentCycle != 1 || !p.CurrentCycleStart.Equal(now) {
		t.Errorf("unexpected profile: %+v", p)
	}
	if !p.LastPlayed.IsNone() || p.HasActivityThisCycle {
		t.Error("fresh profile must have no resume point and no activity")
	}
	if p.Games[3].Kind != KindAsteroid || len(p.Games[3].Stages) != 3 {
		t.Errorf("unexpected game 3: %+v", p.Games[3])
	}

	// e + U+0301 은 NFC에서 U+00E9 하나로 합쳐진다.
	if got := NormalizePlayerName("Ame\u0301lie "); got != "Am\u00e9lie" {
		t.Errorf("expected NFC name, got %q", got)
	}
}

func TestResumeTarget(t *testing.T) {
	specs := []GameSpec{{Index: 1, Kind: KindCable, StageCount: 3}}
	p := NewDefaultProfile("p", specs, 0, time.Now())

	if _, ok := p.ResumeTarget(); ok {
		t.Fatal("fresh profile has no resume target")
	}

	_ = p.Games[1].RecordStageResult(0, Outcome{})
	p.LastPlayed = ResumePoint{Game: 1, Stage: 0}
	got, ok := p.ResumeTarget()
	if !ok || got != (ResumePoint{Game: 1, Stage: 1}) {
		t.Errorf("ResumeTarget = %+v,%v", got, ok)
	}

	_ = p.Games[1].RecordStageResult(1, Outcome{})
	_ = p.Games[1].RecordStageResult(2, Outcome{})
	if _, ok := p.ResumeTarget(); ok {
		t.Error("completed game has no resume target")
	}
}
