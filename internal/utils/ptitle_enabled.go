//go:build !amd64

package utils

import (
	"sync"

	"github.com/erikdubbelboer/gspt"
)

var (
	titleMu   sync.Mutex
	lastTitle string
)

// SetProcTitle rewrites the title shown by ps. Repeated titles are skipped.
func SetProcTitle(title string) {
	titleMu.Lock()
	defer titleMu.Unlock()
	if title == lastTitle {
		return
	}
	lastTitle = title
	gspt.SetProcTitle(title)
}
