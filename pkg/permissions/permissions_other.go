//go:build !darwin

package permissions

// Check 非 macOS 系统不需要额外授权
func Check() *Status {
	return newStatus(true, true)
}

func Request(status *Status) *Status {
	return status
}

func OpenSettings(*Status) {}
