//go:build opencl

package main

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

const projectKernelSource = `__kernel void project_plane(
    const int screen_w,
    const int screen_h,
    const float far_lx, const float far_ly,
    const float near_lx, const float near_ly,
    const float far_rx, const float far_ry,
    const float near_rx, const float near_ry,
    const int tex_w,
    const int tex_h,
    const int edge_exclusive,
    __global const uchar4* tex,
    __global uchar4* out)
{
    int idx = get_global_id(0);
    int half_h = screen_h / 2;
    int x = idx % screen_w;
    int y = idx / screen_w;
    if (x < 1 || y < 1 || y >= half_h) {
        return;
    }
    float depth = (float)y / ((float)screen_h / 2.0f);
    float start_x = (far_lx - near_lx) / depth + near_lx;
    float start_y = (far_ly - near_ly) / depth + near_ly;
    float end_x = (far_rx - near_rx) / depth + near_rx;
    float end_y = (far_ry - near_ry) / depth + near_ry;
    float t = (float)x / (float)screen_w;
    float fx = floor(((end_x - start_x) * t + start_x) * (float)tex_w);
    float fy = floor(((end_y - start_y) * t + start_y) * (float)tex_h);
    uchar4 c = (uchar4)(0, 0, 0, 255);
    int inside = !(isnan(fx) || isnan(fy)) && fx >= 0.0f && fy >= 0.0f;
    if (edge_exclusive) {
        inside = inside && fx < (float)tex_w && fy < (float)tex_h;
    } else {
        inside = inside && fx <= (float)tex_w && fy <= (float)tex_h;
    }
    if (inside) {
        int ti = (int)fy * tex_w + (int)fx;
        if (ti < tex_w * tex_h) {
            c = tex[ti];
        }
    }
    out[idx] = c;
}`

// openCLProjector runs the plane projection as an OpenCL kernel and emits
// the result into the sink in the same order as cpuProjector.
type openCLProjector struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	outBuf     *cl.MemObject
	outSize    int
	out        []byte
	textures   map[*TextureBuffer]*cl.MemObject
	edge       edgeBound
	deviceName string
}

func newOpenCLProjector(edge edgeBound) (*openCLProjector, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	var device *cl.Device
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				device = devices[0]
				break
			}
		}
		if device != nil {
			break
		}
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	program, err := context.CreateProgramWithSource([]string{projectKernelSource})
	if err != nil {
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		program.Release()
		queue.Release()
		context.Release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	kernel, err := program.CreateKernel("project_plane")
	if err != nil {
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	return &openCLProjector{
		context:    context,
		queue:      queue,
		program:    program,
		kernel:     kernel,
		textures:   make(map[*TextureBuffer]*cl.MemObject),
		edge:       edge,
		deviceName: device.Name(),
	}, nil
}

// textureBuffer uploads tex on first use and caches the device copy.
func (p *openCLProjector) textureBuffer(tex *TextureBuffer) (*cl.MemObject, error) {
	if buf, ok := p.textures[tex]; ok {
		return buf, nil
	}
	raw := make([]byte, len(tex.texels)*4)
	for i, c := range tex.texels {
		raw[i*4] = c.R
		raw[i*4+1] = c.G
		raw[i*4+2] = c.B
		raw[i*4+3] = c.A
	}
	buf, err := p.context.CreateEmptyBuffer(cl.MemReadOnly, len(raw))
	if err != nil {
		return nil, fmt.Errorf("allocating texture buffer: %w", err)
	}
	if _, err := p.queue.EnqueueWriteBuffer(buf, true, 0, len(raw), unsafe.Pointer(&raw[0]), nil); err != nil {
		buf.Release()
		return nil, fmt.Errorf("writing texture buffer: %w", err)
	}
	p.textures[tex] = buf
	return buf, nil
}

func (p *openCLProjector) ensureOutput(size int) error {
	if p.outBuf != nil && p.outSize == size {
		return nil
	}
	if p.outBuf != nil {
		p.outBuf.Release()
		p.outBuf = nil
	}
	buf, err := p.context.CreateEmptyBuffer(cl.MemWriteOnly, size*4)
	if err != nil {
		return fmt.Errorf("allocating output buffer: %w", err)
	}
	p.outBuf = buf
	p.outSize = size
	p.out = make([]byte, size*4)
	return nil
}

func (p *openCLProjector) RenderPlane(pl *Plane, cam Camera, fov float64, screenW, screenH int, sink pixelSink) error {
	tex := pl.Texture()
	if tex == nil {
		return fmt.Errorf("rendering %s plane: texture released", pl.Orientation())
	}
	texBuf, err := p.textureBuffer(tex)
	if err != nil {
		return err
	}
	size := screenW * (screenH / 2)
	if err := p.ensureOutput(size); err != nil {
		return err
	}
	rays := castViewRays(cam, pl.Near(), pl.Far(), fov)
	exclusive := int32(0)
	if p.edge == edgeExclusive {
		exclusive = 1
	}
	if err := p.kernel.SetArgs(
		int32(screenW),
		int32(screenH),
		float32(rays.farLeft.X), float32(rays.farLeft.Y),
		float32(rays.nearLeft.X), float32(rays.nearLeft.Y),
		float32(rays.farRight.X), float32(rays.farRight.Y),
		float32(rays.nearRight.X), float32(rays.nearRight.Y),
		int32(tex.width),
		int32(tex.height),
		exclusive,
		texBuf,
		p.outBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := p.queue.EnqueueNDRangeKernel(p.kernel, nil, []int{size}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := p.queue.EnqueueReadBuffer(p.outBuf, true, 0, len(p.out), unsafe.Pointer(&p.out[0]), nil); err != nil {
		return fmt.Errorf("reading output buffer: %w", err)
	}
	for y := 1; y < screenH/2; y++ {
		dy := screenRow(y, screenH, pl.Orientation())
		row := p.out[y*screenW*4 : (y+1)*screenW*4]
		for x := 1; x < screenW; x++ {
			sink.Set(x, dy, color.RGBA{row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]})
		}
	}
	return nil
}

func (p *openCLProjector) Close() {
	for tex, buf := range p.textures {
		buf.Release()
		delete(p.textures, tex)
	}
	if p.outBuf != nil {
		p.outBuf.Release()
		p.outBuf = nil
	}
	if p.kernel != nil {
		p.kernel.Release()
		p.kernel = nil
	}
	if p.program != nil {
		p.program.Release()
		p.program = nil
	}
	if p.queue != nil {
		p.queue.Release()
		p.queue = nil
	}
	if p.context != nil {
		p.context.Release()
		p.context = nil
	}
}

func (p *openCLProjector) DeviceName() string {
	return p.deviceName
}
