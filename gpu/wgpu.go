// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/vkhuman/human3d/base/errors"
)

//go:embed mesh.wgsl
var meshShader string

// uniformAlign is the offset alignment of per draw uniform slots,
// which is the WebGPU default minUniformBufferOffsetAlignment.
const uniformAlign = 256

// Options are the settings of a [WGPU] backend.
type Options struct {

	// Width and Height of the surface in pixels.
	Width, Height int

	// ClearColor is the RGBA background color, 0 to 1.
	ClearColor [4]float32

	// MaxDraws is the maximum number of draws per frame.
	MaxDraws int
}

// WGPU is a [Backend] drawing to a WebGPU surface, with one
// pipeline for packed mesh vertices and a depth buffer.
// Per draw [PushConstants] go into slots of one uniform buffer,
// selected with dynamic offsets.
type WGPU struct {
	Options

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration

	depth     *wgpu.Texture
	depthView *wgpu.TextureView

	shader     *wgpu.ShaderModule
	bindLayout *wgpu.BindGroupLayout
	layout     *wgpu.PipelineLayout
	pipeline   *wgpu.RenderPipeline
	uniforms   *wgpu.Buffer
	bindGroup  *wgpu.BindGroup

	buffers map[Buffer]*wgpu.Buffer
	lastBuf Buffer

	// current frame, nil between frames
	frame *wgpuFrame
}

// wgpuFrame is the state of the frame being recorded.
type wgpuFrame struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	cmd     *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder

	// staging has the uniform slot data for this frame
	staging []byte
	draws   int
}

// NewWGPU returns a new [WGPU] backend rendering to the surface
// with the given descriptor, which is typically obtained from a window.
// On error, everything created so far is released.
func NewWGPU(sd *wgpu.SurfaceDescriptor, opts Options) (*WGPU, error) {
	if opts.MaxDraws <= 0 {
		opts.MaxDraws = 1024
	}
	w := &WGPU{Options: opts, buffers: make(map[Buffer]*wgpu.Buffer)}
	if err := w.init(sd); err != nil {
		w.Release()
		return nil, err
	}
	return w, nil
}

func backendError(op string, err error) error {
	return fmt.Errorf("%w: gpu.WGPU.%s: %w", ErrBackend, op, err)
}

func (w *WGPU) init(sd *wgpu.SurfaceDescriptor) error {
	var err error
	w.instance = wgpu.CreateInstance(nil)
	w.surface = w.instance.CreateSurface(sd)
	w.adapter, err = w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: w.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return backendError("RequestAdapter", err)
	}
	w.device, err = w.adapter.RequestDevice(nil)
	if err != nil {
		return backendError("RequestDevice", err)
	}
	w.queue = w.device.GetQueue()

	caps := w.surface.GetCapabilities(w.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return backendError("init", errors.New("surface is not supported by the adapter"))
	}
	w.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(w.Width),
		Height:      uint32(w.Height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	if err := w.configure(); err != nil {
		return err
	}
	if err := w.initPipeline(); err != nil {
		return err
	}
	slog.Info("WebGPU backend ready", "format", w.config.Format, "width", w.Width, "height", w.Height)
	return nil
}

// configure configures the surface for the current size
// and makes a matching depth texture.
func (w *WGPU) configure() error {
	w.config.Width = uint32(max(w.Width, 1))
	w.config.Height = uint32(max(w.Height, 1))
	w.surface.Configure(w.adapter, w.device, w.config)

	w.releaseDepth()
	t, err := w.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth",
		Size: wgpu.Extent3D{
			Width:              w.config.Width,
			Height:             w.config.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return backendError("configure", err)
	}
	w.depth = t
	w.depthView, err = t.CreateView(nil)
	if err != nil {
		return backendError("configure", err)
	}
	return nil
}

func (w *WGPU) initPipeline() error {
	var err error
	w.shader, err = w.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "mesh",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: meshShader},
	})
	if err != nil {
		return backendError("CreateShaderModule", err)
	}
	w.bindLayout, err = w.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "push",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   PushConstantsSize,
			},
		}},
	})
	if err != nil {
		return backendError("CreateBindGroupLayout", err)
	}
	w.layout, err = w.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "mesh",
		BindGroupLayouts: []*wgpu.BindGroupLayout{w.bindLayout},
	})
	if err != nil {
		return backendError("CreatePipelineLayout", err)
	}
	w.pipeline, err = w.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "mesh",
		Layout: w.layout,
		Vertex: wgpu.VertexState{
			Module:     w.shader,
			EntryPoint: "vs_main",
			Buffers:    VertexLayout(),
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth32Float,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     w.shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    w.config.Format,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return backendError("CreateRenderPipeline", err)
	}
	w.uniforms, err = w.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "push",
		Size:  uint64(w.MaxDraws * uniformAlign),
		Usage: UniformBuffer.WGPU(),
	})
	if err != nil {
		return backendError("CreateBuffer", err)
	}
	w.bindGroup, err = w.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "push",
		Layout: w.bindLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  w.uniforms,
			Offset:  0,
			Size:    PushConstantsSize, // note: size of one slot
		}},
	})
	if err != nil {
		return backendError("CreateBindGroup", err)
	}
	return nil
}

// SetSize updates the surface and depth buffer for a new window size.
// It does nothing if the size is unchanged or empty.
func (w *WGPU) SetSize(width, height int) error {
	if width <= 0 || height <= 0 || (width == w.Width && height == w.Height) {
		return nil
	}
	w.Width, w.Height = width, height
	return w.configure()
}

// UploadBuffer creates a GPU buffer initialized with the given data.
func (w *WGPU) UploadBuffer(data []byte, usage BufferUsages) (Buffer, error) {
	if len(data) == 0 {
		return 0, backendError("UploadBuffer", errors.New("no data"))
	}
	w.lastBuf++
	id := w.lastBuf
	buf, err := w.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    fmt.Sprintf("%v %d", usage, id),
		Contents: data,
		Usage:    usage.WGPU(),
	})
	if err != nil {
		return 0, backendError("UploadBuffer", err)
	}
	w.buffers[id] = buf
	if Debug {
		slog.Debug("gpu buffer uploaded", "buffer", id, "usage", usage, "bytes", len(data))
	}
	return id, nil
}

// ReleaseBuffer frees the given buffer.
func (w *WGPU) ReleaseBuffer(b Buffer) error {
	buf, ok := w.buffers[b]
	if !ok {
		return backendError("ReleaseBuffer", fmt.Errorf("unknown buffer %d", b))
	}
	delete(w.buffers, b)
	buf.Release()
	return nil
}

// Begin acquires the next surface texture and starts the render pass.
func (w *WGPU) Begin() error {
	if w.frame != nil {
		return backendError("Begin", errors.New("frame already begun"))
	}
	tex, err := w.surface.GetCurrentTexture()
	if err != nil {
		// surface is likely outdated after a resize: reconfigure and retry once
		slog.Debug("reconfiguring surface", "err", err)
		if err := w.configure(); err != nil {
			return err
		}
		tex, err = w.surface.GetCurrentTexture()
		if err != nil {
			return backendError("Begin", err)
		}
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return backendError("Begin", err)
	}
	cmd, err := w.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		tex.Release()
		return backendError("Begin", err)
	}
	cc := w.ClearColor
	pass := cmd.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(cc[0]), G: float64(cc[1]), B: float64(cc[2]), A: float64(cc[3])},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            w.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	pass.SetPipeline(w.pipeline)
	w.frame = &wgpuFrame{texture: tex, view: view, cmd: cmd, pass: pass}
	return nil
}

// SubmitDraw records a draw into the current render pass.
func (w *WGPU) SubmitDraw(dr Draw) error {
	fr := w.frame
	if fr == nil {
		return backendError("SubmitDraw", errors.New("no frame begun"))
	}
	if fr.draws >= w.MaxDraws {
		return backendError("SubmitDraw", fmt.Errorf("more than %d draws in one frame", w.MaxDraws))
	}
	vb, ok := w.buffers[dr.Vertex]
	if !ok {
		return backendError("SubmitDraw", fmt.Errorf("unknown vertex buffer %d", dr.Vertex))
	}
	offset := fr.draws * uniformAlign
	fr.staging = append(fr.staging[:offset], make([]byte, uniformAlign)...)
	copy(fr.staging[offset:], dr.Push.Bytes())
	fr.draws++

	fr.pass.SetBindGroup(0, w.bindGroup, []uint32{uint32(offset)})
	fr.pass.SetVertexBuffer(0, vb, 0, wgpu.WholeSize)
	if dr.IsIndexed() {
		ib, ok := w.buffers[dr.Index]
		if !ok {
			return backendError("SubmitDraw", fmt.Errorf("unknown index buffer %d", dr.Index))
		}
		fr.pass.SetIndexBuffer(ib, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		fr.pass.DrawIndexed(uint32(dr.IndexCount), 1, 0, 0, 0)
		return nil
	}
	fr.pass.Draw(uint32(dr.VertexCount), 1, 0, 0)
	return nil
}

// End ends the render pass, writes the uniform slots, submits
// the commands and presents the surface texture.
func (w *WGPU) End() error {
	fr := w.frame
	if fr == nil {
		return backendError("End", errors.New("no frame begun"))
	}
	w.frame = nil
	defer func() {
		fr.view.Release()
		fr.texture.Release()
	}()
	fr.pass.End()
	fr.pass.Release() // must happen before Finish
	if len(fr.staging) > 0 {
		if err := w.queue.WriteBuffer(w.uniforms, 0, fr.staging); err != nil {
			fr.cmd.Release()
			return backendError("End", err)
		}
	}
	cmdBuffer, err := fr.cmd.Finish(nil)
	if err != nil {
		fr.cmd.Release()
		return backendError("End", err)
	}
	w.queue.Submit(cmdBuffer)
	cmdBuffer.Release()
	fr.cmd.Release()
	w.surface.Present()
	return nil
}

func (w *WGPU) releaseDepth() {
	if w.depthView != nil {
		w.depthView.Release()
		w.depthView = nil
	}
	if w.depth != nil {
		w.depth.Release()
		w.depth = nil
	}
}

// Release frees all GPU resources. Buffers still held are freed too,
// with a warning, since their owner should have released them first.
func (w *WGPU) Release() {
	if n := len(w.buffers); n > 0 {
		slog.Warn("gpu.WGPU.Release: buffers still in use", "count", n)
		for id, buf := range w.buffers {
			buf.Release()
			delete(w.buffers, id)
		}
	}
	if w.bindGroup != nil {
		w.bindGroup.Release()
		w.bindGroup = nil
	}
	if w.uniforms != nil {
		w.uniforms.Release()
		w.uniforms = nil
	}
	if w.pipeline != nil {
		w.pipeline.Release()
		w.pipeline = nil
	}
	if w.layout != nil {
		w.layout.Release()
		w.layout = nil
	}
	if w.bindLayout != nil {
		w.bindLayout.Release()
		w.bindLayout = nil
	}
	if w.shader != nil {
		w.shader.Release()
		w.shader = nil
	}
	w.releaseDepth()
	if w.queue != nil {
		w.queue.Release()
		w.queue = nil
	}
	if w.device != nil {
		w.device.Release()
		w.device = nil
	}
	if w.adapter != nil {
		w.adapter.Release()
		w.adapter = nil
	}
	if w.surface != nil {
		w.surface.Release()
		w.surface = nil
	}
	if w.instance != nil {
		w.instance.Release()
		w.instance = nil
	}
}
