//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package camera

import "fmt"

func openPlatformFeed() (Feed, error) {
	return nil, fmt.Errorf("%w: no camera backend on this platform", ErrUnavailable)
}
