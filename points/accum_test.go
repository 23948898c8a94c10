package points

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAccumulatorAppendOrder(t *testing.T) {
	p1 := []mgl32.Vec3{{1, 1, 1}, {2, 2, 2}}
	c1 := []mgl32.Vec3{{0.1, 0, 0}, {0.2, 0, 0}}
	p2 := []mgl32.Vec3{{3, 3, 3}}
	c2 := []mgl32.Vec3{{0.3, 0, 0}}

	acc := NewAccumulator()
	if err := acc.Append(p1, c1); err != nil {
		t.Fatal(err)
	}
	if err := acc.Append(p2, c2); err != nil {
		t.Fatal(err)
	}
	if acc.Chunks() != 2 {
		t.Fatalf("expected 2 chunks; got %d", acc.Chunks())
	}

	pc := acc.Finalize()
	if pc.Len() != 3 {
		t.Fatalf("expected 3 points; got %d", pc.Len())
	}

	expVerts := append(append([]mgl32.Vec3{}, p1...), p2...)
	expRGB := append(append([]mgl32.Vec3{}, c1...), c2...)
	for i := range expVerts {
		if pc.Verts[i] != expVerts[i] || pc.RGB[i] != expRGB[i] {
			t.Fatalf("point %d out of append order", i)
		}
	}
}

func TestAccumulatorRejectsMismatchedChunks(t *testing.T) {
	acc := NewAccumulator()
	err := acc.Append(make([]mgl32.Vec3, 3), make([]mgl32.Vec3, 2))
	if !errors.Is(err, ErrChunkMismatch) {
		t.Fatalf("expected ErrChunkMismatch; got %v", err)
	}
}
