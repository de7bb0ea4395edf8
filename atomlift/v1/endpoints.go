package v1

import "fmt"

// Backend paths, relative to the base URL. Trailing slashes are required by the backend.
const (
	PathLogin       = "/auth/api/mobile/login/"
	PathGenerateOTP = "/auth/api/mobile/generate-otp/"
	PathVerifyOTP   = "/auth/api/mobile/verify-otp/"
	PathResendOTP   = "/auth/api/mobile/resend-otp/"
	PathUserDetails = "/auth/api/mobile/user-details/"
	PathLogout      = "/auth/api/mobile/logout/"

	PathAssignedComplaints    = "/complaints/api/complaints/assigned/"
	PathUpdateComplaintStatus = "/complaints/api/complaints/update-status/"
	PathComplaintCustomers    = "/complaints/api/complaints/customers/"
	PathComplaintTypes        = "/complaints/api/complaints/types/"
	PathComplaintPriorities   = "/complaints/api/complaints/priorities/"
	PathComplaintExecutives   = "/complaints/api/complaints/executives/"
	PathCreateComplaint       = "/complaints/create/"

	PathAMCList                 = "/amc/api/amc/list/"
	PathAMCCreate               = "/amc/api/amc/create/"
	PathAMCTypes                = "/amc/api/amc/types/list/"
	PathAMCTypeCreate           = "/amc/api/amc/types/create/"
	PathRoutineServicesEmployee = "/amc/api/amc/routine-services/employee/"

	PathCustomerList   = "/customer/api/customer/list/"
	PathCustomerCreate = "/customer/api/customer/create/"

	PathLeaveCreate = "/employeeleave/api/leave/create/"
	PathLeaveList   = "/employeeleave/api/leave/list/"
	PathLeaveBase   = "/employeeleave/api/leave/"
	PathLeaveTypes  = "/employeeleave/api/leave/types/"
	PathLeaveCounts = "/employeeleave/api/leave/counts/"

	PathMaterialRequestList   = "/material_request/api/list/"
	PathMaterialRequestCreate = "/material_request/api/create/"
	PathItemsList             = "/items/api/items/"

	PathTravelList   = "/travelling/api/list/"
	PathTravelCreate = "/travelling/api/create/"

	PathAttendanceCheckIn     = "/attendance/api/attendance/check-in/"
	PathAttendanceWorkCheckIn = "/attendance/api/attendance/work-check-in/"
	PathAttendanceCheckOut    = "/attendance/api/attendance/check-out/"
	PathAttendanceList        = "/attendance/api/attendance/list/"
	PathAttendanceToday       = "/attendance/api/attendance/today/"
	PathAttendanceBase        = "/attendance/api/attendance/"
)

func complaintStatusPath(reference string) string {
	return PathUpdateComplaintStatus + reference + "/"
}

func leaveDetailPath(id int64) string {
	return fmt.Sprintf("%s%d/", PathLeaveBase, id)
}

func leaveUpdatePath(id int64) string {
	return fmt.Sprintf("%s%d/update/", PathLeaveBase, id)
}

func leaveDeletePath(id int64) string {
	return fmt.Sprintf("%s%d/delete/", PathLeaveBase, id)
}

func attendanceDetailPath(id int64) string {
	return fmt.Sprintf("%s%d/", PathAttendanceBase, id)
}
