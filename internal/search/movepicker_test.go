package search

import (
	"testing"

	"github.com/tttak/shogicore/internal/shogi"
	"github.com/tttak/shogicore/internal/shogi/shogitest"
)

func TestMovePickerNoDuplicateAcrossStages(t *testing.T) {
	pos := shogitest.NewPosition(6)
	gen := shogitest.Generator{}

	caps := gen.GenerateCaptures(pos, nil)
	if len(caps) == 0 {
		t.Fatal("fixture must generate at least one capture")
	}
	ttMove := caps[0]
	killers := [2]shogi.Move{caps[0], shogi.None}

	mp := NewMainMovePicker(pos, gen, NewHistory(), ttMove, 4, 0, [6]*PieceToHistory{}, killers, shogi.None)

	seen := map[shogi.Move]int{}
	for i := 0; i < 10000; i++ {
		m := mp.Next()
		if m == shogi.None {
			break
		}
		seen[m]++
		if seen[m] > 1 {
			t.Fatalf("move %v returned more than once by the picker", m)
		}
	}
}

func TestMovePickerReturnsTTMoveFirst(t *testing.T) {
	pos := shogitest.NewPosition(4)
	gen := shogitest.Generator{}
	caps := gen.GenerateCaptures(pos, nil)
	ttMove := caps[0]

	mp := NewMainMovePicker(pos, gen, NewHistory(), ttMove, 4, 0, [6]*PieceToHistory{}, [2]shogi.Move{}, shogi.None)
	if got := mp.Next(); got != ttMove {
		t.Fatalf("first move from picker = %v, want TT move %v", got, ttMove)
	}
}

func TestMovePickerEvasionStageUsedWhenInCheck(t *testing.T) {
	pos := shogitest.NewPosition(4)
	gen := shogitest.Generator{}
	pos.DoMove(gen.GenerateQuiets(pos, nil)[0]) // may or may not land in check, depending on fixture hashing
	mp := NewMainMovePicker(pos, gen, NewHistory(), shogi.None, 4, 1, [6]*PieceToHistory{}, [2]shogi.Move{}, shogi.None)
	if pos.InCheck() && mp.stg != stageEvasion {
		t.Fatalf("in-check position must start in the evasion stage, got %v", mp.stg)
	}
	if !pos.InCheck() && mp.stg != stageMainSearch {
		t.Fatalf("non-check position must start in the main-search stage, got %v", mp.stg)
	}
}

func TestPartialInsertionSortOrdersAboveThreshold(t *testing.T) {
	list := []scoredMove{{score: 1}, {score: 50}, {score: -10}, {score: 30}, {score: 5}}
	partialInsertionSort(list, 0)

	var lastAboveThreshold = 1 << 30
	for _, sm := range list {
		if sm.score < 0 {
			continue
		}
		if sm.score > lastAboveThreshold {
			t.Fatalf("entries scoring >= threshold must come out non-increasing: %+v", list)
		}
		lastAboveThreshold = sm.score
	}
}

func TestSelectBestPicksMaxAndSwapsIntoPlace(t *testing.T) {
	list := []scoredMove{{score: 3}, {score: 9}, {score: 1}}
	best, ok := selectBest(list, 0)
	if !ok || best.score != 9 {
		t.Fatalf("selectBest = %+v, ok=%v, want score 9", best, ok)
	}
	if list[0].score != 9 {
		t.Fatalf("selectBest must swap the winner into list[from], got %+v", list)
	}
}
