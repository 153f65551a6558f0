// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gputest provides [Recorder], a [gpu.Backend] that records
// all calls in memory, for testing code that renders without a GPU.
package gputest

import (
	"fmt"
	"slices"

	"github.com/vkhuman/human3d/gpu"
)

// Upload records one UploadBuffer call.
type Upload struct {
	Buffer gpu.Buffer
	Usage  gpu.BufferUsages
	Data   []byte
}

// Recorder is a [gpu.Backend] recording every call.
// Its Fail fields inject errors: a non-nil FailX error is returned
// (wrapped in [gpu.ErrBackend]) from the next X calls, where
// FailUploadAt selects a specific upload, counting from 1.
//
// Recorder enforces the [gpu.Backend] contract: frames must be balanced,
// draws must happen inside a frame and reference live buffers, and
// each buffer can only be released once.
type Recorder struct {

	// Uploads has every successful upload, in order.
	Uploads []Upload

	// Released has every released buffer, in order.
	Released []gpu.Buffer

	// Draws has every draw of all frames, in order.
	Draws []gpu.Draw

	// FrameDraws has the number of draws in each ended frame.
	FrameDraws []int

	// Begins and Ends count the Begin and End calls that succeeded.
	Begins, Ends int

	// error injection
	FailUpload   error
	FailUploadAt int
	FailRelease  error
	FailBegin    error
	FailDraw     error
	FailEnd      error

	uploadCalls int
	inFrame     bool
	frameDraws  int
	live        map[gpu.Buffer]bool
	last        gpu.Buffer
}

// New returns a new empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

func fail(op string, err error) error {
	return fmt.Errorf("%w: gputest.%s: %w", gpu.ErrBackend, op, err)
}

func (rc *Recorder) UploadBuffer(data []byte, usage gpu.BufferUsages) (gpu.Buffer, error) {
	rc.uploadCalls++
	if rc.FailUpload != nil && (rc.FailUploadAt == 0 || rc.FailUploadAt == rc.uploadCalls) {
		return 0, fail("UploadBuffer", rc.FailUpload)
	}
	if len(data) == 0 {
		return 0, fail("UploadBuffer", fmt.Errorf("empty %v buffer", usage))
	}
	if rc.live == nil {
		rc.live = make(map[gpu.Buffer]bool)
	}
	rc.last++
	rc.live[rc.last] = true
	rc.Uploads = append(rc.Uploads, Upload{Buffer: rc.last, Usage: usage, Data: slices.Clone(data)})
	return rc.last, nil
}

func (rc *Recorder) ReleaseBuffer(b gpu.Buffer) error {
	if rc.FailRelease != nil {
		return fail("ReleaseBuffer", rc.FailRelease)
	}
	if !rc.live[b] {
		return fail("ReleaseBuffer", fmt.Errorf("buffer %d is not live", b))
	}
	delete(rc.live, b)
	rc.Released = append(rc.Released, b)
	return nil
}

func (rc *Recorder) Begin() error {
	if rc.FailBegin != nil {
		return fail("Begin", rc.FailBegin)
	}
	if rc.inFrame {
		return fail("Begin", fmt.Errorf("frame already begun"))
	}
	rc.inFrame = true
	rc.frameDraws = 0
	rc.Begins++
	return nil
}

func (rc *Recorder) SubmitDraw(dr gpu.Draw) error {
	if rc.FailDraw != nil {
		return fail("SubmitDraw", rc.FailDraw)
	}
	if !rc.inFrame {
		return fail("SubmitDraw", fmt.Errorf("no frame begun"))
	}
	if !rc.live[dr.Vertex] {
		return fail("SubmitDraw", fmt.Errorf("vertex buffer %d is not live", dr.Vertex))
	}
	if dr.IsIndexed() && !rc.live[dr.Index] {
		return fail("SubmitDraw", fmt.Errorf("index buffer %d is not live", dr.Index))
	}
	rc.Draws = append(rc.Draws, dr)
	rc.frameDraws++
	return nil
}

func (rc *Recorder) End() error {
	if !rc.inFrame {
		return fail("End", fmt.Errorf("no frame begun"))
	}
	rc.inFrame = false
	rc.FrameDraws = append(rc.FrameDraws, rc.frameDraws)
	if rc.FailEnd != nil {
		return fail("End", rc.FailEnd)
	}
	rc.Ends++
	return nil
}

// InFrame returns whether a frame has begun and not ended.
func (rc *Recorder) InFrame() bool {
	return rc.inFrame
}

// Live returns the number of buffers uploaded and not yet released.
func (rc *Recorder) Live() int {
	return len(rc.live)
}

// IsLive returns whether the given buffer is uploaded and not released.
func (rc *Recorder) IsLive(b gpu.Buffer) bool {
	return rc.live[b]
}

// UploadsOf returns the number of successful uploads with the given usage.
func (rc *Recorder) UploadsOf(usage gpu.BufferUsages) int {
	n := 0
	for _, up := range rc.Uploads {
		if up.Usage == usage {
			n++
		}
	}
	return n
}

// LastFrameDraws returns the draws of the last ended frame.
func (rc *Recorder) LastFrameDraws() []gpu.Draw {
	if len(rc.FrameDraws) == 0 {
		return nil
	}
	n := rc.FrameDraws[len(rc.FrameDraws)-1]
	return rc.Draws[len(rc.Draws)-n:]
}
