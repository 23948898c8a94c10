package model

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nerfscan/log"
)

// Version tag embedded in every checkpoint file.
const checkpointVersion = "ckpt.v1"

var (
	ErrNoCheckpoint  = errors.New("model: no checkpoint found")
	ErrBadCheckpoint = errors.New("model: malformed checkpoint")
)

var logger = log.New("model")

// On-disk checkpoint layout.
type checkpointFile struct {
	Version   string
	Step      uint64
	WarpAlpha float64
	Params    Params
}

// Restore loads the highest-numbered checkpoint_<step> file under dir into
// state. The on-disk checkpoint is only ever read, never modified.
func Restore(state State, dir string) (State, error) {
	path, err := latestCheckpoint(dir)
	if err != nil {
		return state, err
	}
	logger.Noticef("restoring checkpoint from %s", path)

	f, err := os.Open(path)
	if err != nil {
		return state, err
	}
	defer f.Close()

	var ckpt checkpointFile
	if err = gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return state, fmt.Errorf("%w: %v", ErrBadCheckpoint, err)
	}
	if ckpt.Version != checkpointVersion {
		return state, fmt.Errorf("%w: unsupported version %q", ErrBadCheckpoint, ckpt.Version)
	}

	state.Params = ckpt.Params
	state.WarpAlpha = ckpt.WarpAlpha
	state.Step = ckpt.Step
	return state, nil
}

// Save writes state as checkpoint_<step> under dir. The sampling pipeline
// never calls this; it exists for the training side and for test fixtures.
func Save(state State, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(dir, fmt.Sprintf("checkpoint_%d", state.Step))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(checkpointFile{
		Version:   checkpointVersion,
		Step:      state.Step,
		WarpAlpha: state.WarpAlpha,
		Params:    state.Params,
	})
}

// Pick the checkpoint with the highest step suffix.
func latestCheckpoint(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "checkpoint_*"))
	if err != nil {
		return "", err
	}

	best := ""
	var bestStep uint64
	for _, path := range matches {
		suffix := strings.TrimPrefix(filepath.Base(path), "checkpoint_")
		step, err := strconv.ParseUint(suffix, 10, 64)
		if err != nil {
			continue
		}
		if best == "" || step > bestStep {
			best, bestStep = path, step
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w under %s", ErrNoCheckpoint, dir)
	}
	return best, nil
}
