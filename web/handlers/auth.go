package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"technuob.com/atomlift/web/common"
	"technuob.com/atomlift/web/middlewares"
)

type loginPayload struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password" binding:"required"`
}

type otpPayload struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	OTPCode     string `json:"otp_code"`
}

func (p otpPayload) contact() (string, string) {
	if p.Email != "" {
		return p.Email, "email"
	}
	return p.PhoneNumber, "phone"
}

func currentUser(c *gin.Context) *User {
	return c.MustGet(middlewares.UserKey).(*User)
}

func (this *Backend) Login(c *gin.Context) {
	var p loginPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	if p.Email == "" && p.PhoneNumber == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Email or phone number is required"))
		return
	}

	this.mu.Lock()
	defer this.mu.Unlock()
	u := this.findUser(strings.TrimSpace(p.Email), p.PhoneNumber)
	if u == nil || u.Password != p.Password {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid credentials"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.Record(), "token": this.issueToken(u), "message": "Login successful"})
}

func (this *Backend) GenerateOTP(c *gin.Context) {
	this.sendOTP(c, "OTP sent successfully")
}

func (this *Backend) ResendOTP(c *gin.Context) {
	this.sendOTP(c, "OTP resent successfully")
}

func (this *Backend) sendOTP(c *gin.Context, message string) {
	var p otpPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	contact, kind := p.contact()

	this.mu.Lock()
	defer this.mu.Unlock()
	if this.findUser(p.Email, p.PhoneNumber) == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("No user found with this "+kind))
		return
	}
	this.otps[contact] = StubOTP
	c.JSON(http.StatusOK, gin.H{
		"message":            message,
		"otp_type":           kind,
		"contact_info":       contact,
		"expires_in_minutes": 5,
	})
}

func (this *Backend) VerifyOTP(c *gin.Context) {
	var p otpPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	contact, _ := p.contact()

	this.mu.Lock()
	defer this.mu.Unlock()
	code, ok := this.otps[contact]
	if !ok || code != p.OTPCode {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid or expired OTP"))
		return
	}
	u := this.findUser(p.Email, p.PhoneNumber)
	if u == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("User not found"))
		return
	}
	delete(this.otps, contact)
	c.JSON(http.StatusOK, gin.H{"user": u.Record(), "token": this.issueToken(u)})
}

func (this *Backend) UserDetails(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_detail": currentUser(c).Record()})
}

func (this *Backend) Logout(c *gin.Context) {
	token := strings.TrimSpace(strings.SplitN(c.GetHeader("Authorization")+" ", " ", 2)[1])
	this.mu.Lock()
	delete(this.tokens, token)
	this.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
