package model

import (
	"errors"
	"testing"
)

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()

	state := State{
		Params:    Params{"density": {1, 2, 3}, "color": {0.5, 0.5, 0.5}},
		WarpAlpha: 1.5,
		Step:      1200,
	}
	if err := Save(state, dir); err != nil {
		t.Fatal(err)
	}

	restored, err := Restore(NewState(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Step != 1200 || restored.WarpAlpha != 1.5 {
		t.Fatalf("expected step 1200 / warp alpha 1.5; got %d / %g", restored.Step, restored.WarpAlpha)
	}
	if len(restored.Params["density"]) != 3 {
		t.Fatalf("density tensor lost in round trip")
	}
}

func TestRestorePicksLatestCheckpoint(t *testing.T) {
	dir := t.TempDir()

	for _, step := range []uint64{100, 900, 250} {
		state := State{Params: Params{"step": {float64(step)}}, Step: step}
		if err := Save(state, dir); err != nil {
			t.Fatal(err)
		}
	}

	restored, err := Restore(NewState(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Step != 900 {
		t.Fatalf("expected the highest-numbered checkpoint (900); got %d", restored.Step)
	}
}

func TestRestoreWithoutCheckpoint(t *testing.T) {
	_, err := Restore(NewState(), t.TempDir())
	if !errors.Is(err, ErrNoCheckpoint) {
		t.Fatalf("expected ErrNoCheckpoint; got %v", err)
	}
}

func TestReplicate(t *testing.T) {
	state := State{Params: Params{"density": {1, 2, 3}}}

	replicas := Replicate(state, 3)
	if len(replicas) != 3 {
		t.Fatalf("expected 3 replicas; got %d", len(replicas))
	}

	// Replicas are independent copies: mutating one must not leak.
	replicas[0]["density"][0] = 99
	if state.Params["density"][0] != 1 || replicas[1]["density"][0] != 1 {
		t.Fatalf("replica mutation leaked into shared state")
	}
}
