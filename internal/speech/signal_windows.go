//go:build windows

package speech

import "os"

func suspendProcess(*os.Process) error {
	return ErrPauseUnsupported
}

func continueProcess(*os.Process) error {
	return ErrPauseUnsupported
}
