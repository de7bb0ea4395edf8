package v1

import (
	"context"
	"encoding/json"

	"technuob.com/atomlift/atomlift/v1/common"
)

// LoginRequest carries exactly one of Email or PhoneNumber.
type LoginRequest struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Password    string `json:"password"`
}

type LoginResponse struct {
	User    common.UserRecord `json:"user"`
	Token   string            `json:"token"`
	Message string            `json:"message,omitempty"`
}

type OTPRequest struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	OTPCode     string `json:"otp_code,omitempty"`
}

type GenerateOTPResponse struct {
	Message          string `json:"message"`
	OTPType          string `json:"otp_type"`
	ContactInfo      string `json:"contact_info"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

type AuthEndpoint struct {
	transport *Transport
}

// Login posts credentials. It does not store anything; persisting the session is the caller's job.
func (this *AuthEndpoint) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	resp, err := this.transport.PostPublic(ctx, PathLogin, req, "Login failed")
	if err != nil {
		return nil, err
	}
	result, err := decode[LoginResponse](resp, "Login failed")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func otpBody(contact string, method common.OTPMethod, code string) OTPRequest {
	body := OTPRequest{OTPCode: code}
	if method == common.OTPByEmail {
		body.Email = contact
	} else {
		body.PhoneNumber = contact
	}
	return body
}

func (this *AuthEndpoint) GenerateOTP(ctx context.Context, contact string, method common.OTPMethod) (*GenerateOTPResponse, error) {
	resp, err := this.transport.PostPublic(ctx, PathGenerateOTP, otpBody(contact, method, ""), "Failed to send OTP")
	if err != nil {
		return nil, err
	}
	result, err := decode[GenerateOTPResponse](resp, "Failed to send OTP")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (this *AuthEndpoint) ResendOTP(ctx context.Context, contact string, method common.OTPMethod) (*GenerateOTPResponse, error) {
	resp, err := this.transport.PostPublic(ctx, PathResendOTP, otpBody(contact, method, ""), "Failed to resend OTP")
	if err != nil {
		return nil, err
	}
	result, err := decode[GenerateOTPResponse](resp, "Failed to resend OTP")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyOTP answers with the same {user, token} pair as Login.
func (this *AuthEndpoint) VerifyOTP(ctx context.Context, otp, contact string, method common.OTPMethod) (*LoginResponse, error) {
	resp, err := this.transport.PostPublic(ctx, PathVerifyOTP, otpBody(contact, method, otp), "OTP verification failed")
	if err != nil {
		return nil, err
	}
	result, err := decode[LoginResponse](resp, "OTP verification failed")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UserDetails accepts {"user_detail": {...}}, {"user": {...}} or the user object itself.
func (this *AuthEndpoint) UserDetails(ctx context.Context) (common.UserRecord, error) {
	const fallback = "Failed to fetch user details"
	resp, err := this.transport.Get(ctx, PathUserDetails, nil, fallback)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.Data, &envelope); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fallback, Err: err}
	}
	for _, key := range []string{"user_detail", "user"} {
		if raw, ok := envelope[key]; ok {
			var user common.UserRecord
			if err := json.Unmarshal(raw, &user); err == nil && user != nil {
				return user, nil
			}
		}
	}
	if _, ok := envelope["id"]; ok {
		var user common.UserRecord
		if err := json.Unmarshal(resp.Data, &user); err == nil {
			return user, nil
		}
	}
	return nil, &APIError{StatusCode: resp.StatusCode, Message: "Unexpected user details response format"}
}

// Logout tells the backend to drop the token. Callers treat a failure here as best-effort.
func (this *AuthEndpoint) Logout(ctx context.Context) error {
	_, err := this.transport.Post(ctx, PathLogout, nil, "Logout failed")
	return err
}
