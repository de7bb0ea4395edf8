package common

import "strings"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// ParseLeaveStatus treats a missing status as pending, like the list screens do.
func ParseLeaveStatus(s string) LeaveStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LeavePending
	}
	return LeaveStatus(s)
}

type OTPMethod string

const (
	OTPByEmail OTPMethod = "email"
	OTPByPhone OTPMethod = "phone"
)
