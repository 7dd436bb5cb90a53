//go:build !darwin && !windows

package window

import "errors"

func nativeWindows() ([]WindowInfo, bool) {
	return nil, false
}

func activateNative(int) error {
	return errors.New("no native window activation")
}
