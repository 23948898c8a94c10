package pointcloud

import (
	"archive/zip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"nerfscan/log"
)

// Entry names inside the container archive.
const (
	vertsEntry = "verts"
	rgbEntry   = "rgb"
)

var ErrCorruptArtifact = errors.New("pointcloud: corrupt point cloud artifact")

var logger = log.New("pointcloud")

// Write serializes the point cloud as a tagged-array container: a zip
// archive with one gob-encoded entry per array.
func Write(path string, pc *PointCloud) error {
	logger.Noticef("writing %d points to %s", pc.Len(), path)
	start := time.Now()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	cw, err := zw.Create(vertsEntry)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(cw).Encode(pc.Verts); err != nil {
		return err
	}

	cw, err = zw.Create(rgbEntry)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(cw).Encode(pc.RGB); err != nil {
		return err
	}

	if err = zw.Close(); err != nil {
		return err
	}

	logger.Infof("wrote point cloud in %d ms", time.Since(start).Nanoseconds()/1000000)
	return nil
}

// Read deserializes a point cloud container written by Write.
func Read(path string) (*PointCloud, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
	}
	defer zr.Close()

	pc := &PointCloud{}
	seen := map[string]bool{}
	for _, entry := range zr.File {
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
		}

		var target *[]mgl32.Vec3
		switch entry.Name {
		case vertsEntry:
			target = &pc.Verts
		case rgbEntry:
			target = &pc.RGB
		default:
			rc.Close()
			continue
		}

		err = gob.NewDecoder(rc).Decode(target)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: decoding %q: %v", ErrCorruptArtifact, entry.Name, err)
		}
		seen[entry.Name] = true
	}

	if !seen[vertsEntry] || !seen[rgbEntry] {
		return nil, fmt.Errorf("%w: missing verts/rgb entries", ErrCorruptArtifact)
	}
	if len(pc.Verts) != len(pc.RGB) {
		return nil, fmt.Errorf("%w: %d verts but %d colors", ErrCorruptArtifact, len(pc.Verts), len(pc.RGB))
	}

	return pc, nil
}
