package compute

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkgroupSize is the edge length of the square block of invocations in one workgroup
const WorkgroupSize = 8

// ErrInvalidDispatch is returned (wrapped) for dispatches that cannot run
var ErrInvalidDispatch = errors.New("invalid dispatch")

// DeviceError reports a failure of a device operation
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("compute device %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Kernel is the program run once per invocation. Invocations must only read
// shared inputs and write to locations owned by (x, y).
type Kernel interface {
	Invoke(x, y uint32)
}

// Dispatch describes one grid of workgroups running a kernel
type Dispatch struct {
	GroupsX uint32
	GroupsY uint32
	Kernel  Kernel
}

// GroupsFor returns the workgroup counts needed to cover a width x height grid
func GroupsFor(width, height uint32) (uint32, uint32) {
	return (width + WorkgroupSize - 1) / WorkgroupSize, (height + WorkgroupSize - 1) / WorkgroupSize
}

// Device accepts dispatches. Submit never blocks on the work itself.
type Device interface {
	Submit(d Dispatch) *Submission
}

// Submission tracks one in-flight dispatch
type Submission struct {
	done chan struct{}
	err  error
}

func newSubmission() *Submission {
	return &Submission{done: make(chan struct{})}
}

func (s *Submission) complete(err error) {
	s.err = err
	close(s.done)
}

// Done is closed once the dispatch has finished
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Err returns the device error of a finished dispatch, nil while it is running
func (s *Submission) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the dispatch finishes or ctx is done. A dispatch is never
// cancelled; giving up only stops this caller from waiting.
func (s *Submission) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CPUDevice executes workgroups on goroutines, at most Parallelism at a time
type CPUDevice struct {
	parallelism int
}

// NewCPUDevice creates a device; parallelism <= 0 uses the CPU count
func NewCPUDevice(parallelism int) *CPUDevice {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	return &CPUDevice{parallelism: parallelism}
}

// Parallelism returns the number of workgroups that may run at once
func (d *CPUDevice) Parallelism() int {
	return d.parallelism
}

// Submit starts the dispatch in the background and returns immediately
func (d *CPUDevice) Submit(dispatch Dispatch) *Submission {
	sub := newSubmission()

	if dispatch.Kernel == nil || dispatch.GroupsX == 0 || dispatch.GroupsY == 0 {
		sub.complete(&DeviceError{
			Op:  "submit",
			Err: fmt.Errorf("%w: %dx%d groups, kernel set: %t", ErrInvalidDispatch, dispatch.GroupsX, dispatch.GroupsY, dispatch.Kernel != nil),
		})
		return sub
	}

	go func() {
		var g errgroup.Group
		g.SetLimit(d.parallelism)

		for gy := uint32(0); gy < dispatch.GroupsY; gy++ {
			for gx := uint32(0); gx < dispatch.GroupsX; gx++ {
				g.Go(func() error {
					return runWorkgroup(dispatch.Kernel, gx, gy)
				})
			}
		}

		sub.complete(g.Wait())
	}()

	return sub
}

// runWorkgroup invokes the kernel for every (x, y) in one workgroup
func runWorkgroup(kernel Kernel, gx, gy uint32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DeviceError{
				Op:  "invoke",
				Err: fmt.Errorf("panic in workgroup (%d,%d): %v", gx, gy, r),
			}
		}
	}()

	for ly := uint32(0); ly < WorkgroupSize; ly++ {
		for lx := uint32(0); lx < WorkgroupSize; lx++ {
			kernel.Invoke(gx*WorkgroupSize+lx, gy*WorkgroupSize+ly)
		}
	}
	return nil
}
