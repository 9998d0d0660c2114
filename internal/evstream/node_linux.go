package evstream

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// evdev ioctl
const EVIOCGRAB = 0x40044590

// node is the raw event device the source reads from.
type node interface {
	Read(p []byte) (int, error)
	SetNonblock(nonblocking bool) error
	Grab(grab bool) error
	Close() error
}

type fdNode struct {
	fd   int
	path string
}

func openNode(path string) (node, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &fdNode{fd: fd, path: path}, nil
}

func (n *fdNode) Read(p []byte) (int, error) {
	for {
		c, err := unix.Read(n.fd, p)
		if err == unix.EINTR {
			continue
		}
		return c, err
	}
}

func (n *fdNode) SetNonblock(nonblocking bool) error {
	return unix.SetNonblock(n.fd, nonblocking)
}

func (n *fdNode) Grab(grab bool) error {
	v := 0
	if grab {
		v = 1
	}
	if err := unix.IoctlSetInt(n.fd, EVIOCGRAB, v); err != nil {
		return fmt.Errorf("EVIOCGRAB %s: %w", n.path, err)
	}
	return nil
}

func (n *fdNode) Close() error {
	return unix.Close(n.fd)
}
