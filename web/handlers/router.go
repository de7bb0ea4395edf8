package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/web/middlewares"
)

// NewStubServer routes every backend path the client calls to b.
func NewStubServer(b *Backend, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLog(log))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.POST(v1.PathLogin, b.Login)
	r.POST(v1.PathGenerateOTP, b.GenerateOTP)
	r.POST(v1.PathResendOTP, b.ResendOTP)
	r.POST(v1.PathVerifyOTP, b.VerifyOTP)

	protected := r.Group("")
	protected.Use(middlewares.Authentication(b.LookupToken))
	{
		protected.GET(v1.PathUserDetails, b.UserDetails)
		protected.POST(v1.PathLogout, b.Logout)

		protected.GET(v1.PathAttendanceToday, b.Today)
		protected.POST(v1.PathAttendanceCheckIn, b.CheckIn)
		protected.POST(v1.PathAttendanceWorkCheckIn, b.WorkCheckIn)
		protected.POST(v1.PathAttendanceCheckOut, b.CheckOut)
		protected.GET(v1.PathAttendanceList, b.AttendanceList)
		protected.GET(v1.PathAttendanceBase+":id/", b.AttendanceDetail)

		protected.POST(v1.PathLeaveCreate, b.LeaveCreate)
		protected.GET(v1.PathLeaveList, b.LeaveList)
		protected.GET(v1.PathLeaveTypes, b.LeaveTypes)
		protected.GET(v1.PathLeaveCounts, b.LeaveCounts)
		protected.GET(v1.PathLeaveBase+":id/", b.LeaveGet)
		protected.PUT(v1.PathLeaveBase+":id/update/", b.LeaveUpdate)
		protected.DELETE(v1.PathLeaveBase+":id/delete/", b.LeaveDelete)

		protected.GET(v1.PathAssignedComplaints, b.AssignedComplaints)
		protected.POST(v1.PathUpdateComplaintStatus+":ref/", b.UpdateComplaintStatus)
		protected.GET(v1.PathComplaintCustomers, b.ComplaintCustomers)
		protected.GET(v1.PathComplaintTypes, b.ComplaintTypes)
		protected.GET(v1.PathComplaintPriorities, b.ComplaintPriorities)
		protected.GET(v1.PathComplaintExecutives, b.ComplaintExecutives)
		protected.POST(v1.PathCreateComplaint, b.CreateComplaint)

		protected.GET(v1.PathAMCList, b.AMCList)
		protected.POST(v1.PathAMCCreate, b.AMCCreate)
		protected.GET(v1.PathAMCTypes, b.AMCTypes)
		protected.POST(v1.PathAMCTypeCreate, b.AMCTypeCreate)
		protected.GET(v1.PathRoutineServicesEmployee, b.RoutineServices)

		protected.GET(v1.PathCustomerList, b.CustomerList)
		protected.POST(v1.PathCustomerCreate, b.CustomerCreate)

		protected.GET(v1.PathItemsList, b.Items)
		protected.GET(v1.PathMaterialRequestList, b.MaterialList)
		protected.POST(v1.PathMaterialRequestCreate, b.MaterialCreate)
		protected.GET(v1.PathTravelList, b.TravelList)
		protected.POST(v1.PathTravelCreate, b.TravelCreate)
	}
	return r
}
