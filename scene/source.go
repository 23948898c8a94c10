package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"nerfscan/log"
)

// Default camera path rendered by the sampling pipeline, relative to the
// dataset root.
const DefaultCameraPath = "camera-paths/orbit-mild"

var logger = log.New("scene")

// A Source exposes the contents of a captured dataset: the scene depth
// bounds plus discovery and loading of the cameras along a camera path.
type Source struct {
	Near   float64    `json:"near"`
	Far    float64    `json:"far"`
	Scale  float64    `json:"scale"`
	Center [3]float64 `json:"center"`

	dir string
}

// LoadSource reads the scene metadata from <dataDir>/scene.json.
func LoadSource(dataDir string) (*Source, error) {
	metaPath := filepath.Join(dataDir, "scene.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("scene: reading metadata: %w", err)
	}

	src := &Source{dir: dataDir}
	if err = json.Unmarshal(data, src); err != nil {
		return nil, fmt.Errorf("scene: parsing %s: %w", metaPath, err)
	}
	if src.Near <= 0 || src.Far <= src.Near {
		return nil, fmt.Errorf("scene: invalid depth bounds [%g, %g] in %s", src.Near, src.Far, metaPath)
	}

	logger.Infof("loaded scene metadata from %s (near %g, far %g)", metaPath, src.Near, src.Far)
	return src, nil
}

// Scene depth bounds.
func (s *Source) Bounds() (near, far float64) {
	return s.Near, s.Far
}

// GlobCameras returns the lexically sorted camera descriptors under dir.
func (s *Source) GlobCameras(dir string) ([]string, error) {
	descriptors, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(descriptors)
	return descriptors, nil
}

// LoadCamera loads a single camera from its descriptor.
func (s *Source) LoadCamera(descriptor string) (*Camera, error) {
	return LoadCamera(descriptor)
}

// Cameras loads every camera along the default camera path in path order.
func (s *Source) Cameras() ([]*Camera, error) {
	camDir := filepath.Join(s.dir, DefaultCameraPath)
	descriptors, err := s.GlobCameras(camDir)
	if err != nil {
		return nil, err
	}
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("scene: no cameras found under %s", camDir)
	}

	logger.Noticef("loading %d cameras from %s", len(descriptors), camDir)
	cameras := make([]*Camera, len(descriptors))
	for i, desc := range descriptors {
		if cameras[i], err = s.LoadCamera(desc); err != nil {
			return nil, fmt.Errorf("scene: loading camera %s: %w", desc, err)
		}
	}
	return cameras, nil
}
