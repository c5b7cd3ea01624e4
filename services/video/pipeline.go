// Package video runs uploaded videos through the processing pipeline:
// transcode, HLS manifest, thumbnail and duration probe. The steps are stubs
// that wait a configurable delay and return deterministic CDN locations.
package video

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"learnhub/models/platform"
)

const (
	StepTranscode = "transcode"
	StepManifest  = "manifest"
	StepThumbnail = "thumbnail"
	StepDuration  = "duration"

	// DefaultDurationSec is what the duration probe reports
	DefaultDurationSec = 600
)

var ErrInvalidSource = errors.New("source url must be an absolute http(s) url")

// Outputs collects what the steps produce
type Outputs struct {
	TranscodedURL string `json:"transcoded_url,omitempty"`
	ManifestURL   string `json:"manifest_url,omitempty"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	DurationSec   int    `json:"duration_sec,omitempty"`
}

// Step is one stage of the pipeline
type Step interface {
	Name() string
	Run(ctx context.Context, job *platform.VideoJob, out *Outputs) error
}

// StepFunc adapts a function into a Step
type StepFunc struct {
	StepName string
	Fn       func(ctx context.Context, job *platform.VideoJob, out *Outputs) error
}

func (s StepFunc) Name() string { return s.StepName }

func (s StepFunc) Run(ctx context.Context, job *platform.VideoJob, out *Outputs) error {
	return s.Fn(ctx, job, out)
}

// Pipeline is an ordered list of steps
type Pipeline struct {
	Steps []Step
}

// NewPipeline returns the standard four step pipeline
func NewPipeline(cdnBaseURL string, stepDelay time.Duration) *Pipeline {
	base := strings.TrimRight(cdnBaseURL, "/")
	asset := func(job *platform.VideoJob, file string) string {
		return fmt.Sprintf("%s/%s/%s", base, job.UploadKey, file)
	}

	return &Pipeline{Steps: []Step{
		StepFunc{StepTranscode, func(ctx context.Context, job *platform.VideoJob, out *Outputs) error {
			if err := validateSource(job.SourceURL); err != nil {
				return err
			}
			if err := wait(ctx, stepDelay); err != nil {
				return err
			}
			out.TranscodedURL = asset(job, "720p.mp4")
			return nil
		}},
		StepFunc{StepManifest, func(ctx context.Context, job *platform.VideoJob, out *Outputs) error {
			if err := wait(ctx, stepDelay); err != nil {
				return err
			}
			out.ManifestURL = asset(job, "master.m3u8")
			return nil
		}},
		StepFunc{StepThumbnail, func(ctx context.Context, job *platform.VideoJob, out *Outputs) error {
			if err := wait(ctx, stepDelay); err != nil {
				return err
			}
			out.ThumbnailURL = asset(job, "thumbnail.jpg")
			return nil
		}},
		StepFunc{StepDuration, func(ctx context.Context, job *platform.VideoJob, out *Outputs) error {
			if err := wait(ctx, stepDelay); err != nil {
				return err
			}
			out.DurationSec = DefaultDurationSec
			return nil
		}},
	}}
}

// Run executes the steps in order, reporting each step name before it runs.
// It stops at the first failure and returns the failing step's name.
func (p *Pipeline) Run(ctx context.Context, job *platform.VideoJob, onStep func(name string)) (Outputs, string, error) {
	var out Outputs
	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return out, step.Name(), err
		}
		if onStep != nil {
			onStep(step.Name())
		}
		if err := step.Run(ctx, job, &out); err != nil {
			return out, step.Name(), err
		}
	}
	return out, "", nil
}

func validateSource(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidSource
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
