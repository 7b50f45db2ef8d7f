package types

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Job is one create-video request. Intermediates live under WorkDir; only
// the file at OutputPath is meant to outlive the request.
type Job struct {
	ID         string
	WorkDir    string
	OutputPath string
}

// NewJob allocates a fresh id and creates its work directory under tempDir.
func NewJob(tempDir string) (*Job, error) {
	id := uuid.NewString()
	workDir := filepath.Join(tempDir, id)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}

	return &Job{
		ID:         id,
		WorkDir:    workDir,
		OutputPath: filepath.Join(tempDir, OutputName(id)),
	}, nil
}

const outputSuffix = "_final.mp4"

// OutputName is the download name of a job's rendered video.
func OutputName(id string) string {
	return id + outputSuffix
}

// IsOutputName reports whether name is a rendered video name of the form
// "<uuid>_final.mp4".
func IsOutputName(name string) bool {
	id, ok := strings.CutSuffix(name, outputSuffix)
	if !ok {
		return false
	}
	return uuid.Validate(id) == nil
}

// OutputName returns the base name of the rendered video.
func (j *Job) OutputName() string {
	return filepath.Base(j.OutputPath)
}

// Path returns a path inside the job's work directory.
func (j *Job) Path(name string) string {
	return filepath.Join(j.WorkDir, name)
}

// Cleanup removes every intermediate file of the job.
func (j *Job) Cleanup() error {
	return os.RemoveAll(j.WorkDir)
}

// Discard removes intermediates and any partial output.
func (j *Job) Discard() error {
	if err := os.Remove(j.OutputPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return j.Cleanup()
}

// SweepJobs removes job work directories, stored uploads and partial
// downloads left in tempDir by a process that stopped mid-request. Finished
// renders are kept.
// It must only run while no job is active.
func SweepJobs(tempDir string) (int, error) {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		stale := (e.IsDir() && uuid.Validate(name) == nil) ||
			(!e.IsDir() && (strings.HasSuffix(name, ".part") || isUploadName(name)))
		if !stale {
			continue
		}
		if err := os.RemoveAll(filepath.Join(tempDir, name)); err != nil {
			return removed, fmt.Errorf("remove %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// isUploadName matches the "<uuid>_<original name>" files the upload
// endpoint stores while extracting.
func isUploadName(name string) bool {
	id, _, ok := strings.Cut(name, "_")
	return ok && uuid.Validate(id) == nil && !IsOutputName(name)
}
