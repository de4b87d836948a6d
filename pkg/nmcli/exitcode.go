package nmcli

import "fmt"

// ExitCode is an nmcli process exit status.
type ExitCode int

// Exit statuses documented by nmcli(1).
const (
	ExitSuccess            ExitCode = 0
	ExitUnknown            ExitCode = 1
	ExitInvalidInput       ExitCode = 2
	ExitTimeout            ExitCode = 3
	ExitActivationFailed   ExitCode = 4
	ExitDeactivationFailed ExitCode = 5
	ExitDisconnectFailed   ExitCode = 6
	ExitDeletionFailed     ExitCode = 7
	ExitNotRunning         ExitCode = 8
	ExitVersionMismatch    ExitCode = 9
	ExitNotFound           ExitCode = 10
)

var exitCodeText = map[ExitCode]string{
	ExitSuccess:            "success",
	ExitUnknown:            "unknown or unspecified error",
	ExitInvalidInput:       "invalid user input, wrong nmcli invocation",
	ExitTimeout:            "timeout expired",
	ExitActivationFailed:   "connection activation failed",
	ExitDeactivationFailed: "connection deactivation failed",
	ExitDisconnectFailed:   "disconnecting device failed",
	ExitDeletionFailed:     "connection deletion failed",
	ExitNotRunning:         "NetworkManager is not running",
	ExitVersionMismatch:    "nmcli and NetworkManager versions mismatch",
	ExitNotFound:           "connection, device, or access point does not exist",
}

func (c ExitCode) String() string {
	if s, ok := exitCodeText[c]; ok {
		return s
	}
	return fmt.Sprintf("exit code %d", int(c))
}
