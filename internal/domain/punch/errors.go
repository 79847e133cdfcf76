package punch

import "errors"

var (
	ErrTerminalUnavailable = errors.New("biometric terminal is unreachable")
	ErrSyncInProgress      = errors.New("a sync for this device is already running")
	ErrDeviceNotFound      = errors.New("device not found")
	ErrInvalidPushKey      = errors.New("invalid device push key")
)
