package hidraw

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// pollTimeout bounds a single poll(2) call so PollWaiter.Wait always
// returns within an implementation-defined short interval, matching the
// ReadInput contract every HidDevice must honor.
const pollTimeout = 100 * time.Millisecond

// PollWaiter waits for a raw file descriptor to become readable using
// poll(2). Payloads here are fixed to a raw report buffer rather than a
// generic event type, so there is exactly one poll target per device.
type PollWaiter struct {
	fd int
}

// NewPollWaiter wraps an already-open, non-blocking file descriptor.
func NewPollWaiter(fd int) *PollWaiter {
	return &PollWaiter{fd: fd}
}

// Wait blocks until the descriptor is readable, a timeout elapses, or an
// error occurs. timedOut is true only on a clean expiry; err is non-nil
// only for a poll(2) failure that should be treated as a transport error.
func (w *PollWaiter) Wait() (ready bool, timedOut bool, err error) {
	fds := []unix.PollFd{{Fd: int32(w.fd), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, int(pollTimeout/time.Millisecond))
	if err != nil {
		if err == unix.EINTR {
			return false, false, nil
		}
		return false, false, fmt.Errorf("hidraw: poll: %w", err)
	}
	if n == 0 {
		return false, true, nil
	}
	if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return false, false, fmt.Errorf("hidraw: poll: fd closed or errored")
	}
	return fds[0].Revents&unix.POLLIN != 0, false, nil
}
