package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/validation"
)

func cmdLogin(ctx context.Context, a *app, args []string) error {
	const line = "[-password pw] <email|phone>"
	fs := newFlags("login")
	password := fs.String("password", os.Getenv("ATOMLIFT_PASSWORD"), "password (or ATOMLIFT_PASSWORD)")
	if err := parse(fs, args, line); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usage(line)
	}

	form := validation.LoginForm{Identifier: fs.Arg(0), Password: *password}
	if err := form.Validate(); err != nil {
		return err
	}
	if _, err := a.session.Login(ctx, form.Identifier, form.Password); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.Profile().DisplayName())
	return nil
}

// otpMethod picks email or phone delivery from the shape of contact.
func otpMethod(contact string) (string, common.OTPMethod) {
	id := validation.ClassifyIdentifier(contact)
	if id.IsPhone() {
		return id.Phone, common.OTPByPhone
	}
	return id.Email, common.OTPByEmail
}

func cmdOTP(ctx context.Context, a *app, args []string) error {
	return dispatch(ctx, a, args, map[string]command{
		"request": otpRequest,
		"resend":  otpResend,
		"verify":  otpVerify,
	})
}

func otpRequest(ctx context.Context, a *app, args []string) error {
	return sendOTP(ctx, a, args, a.session.RequestOTP)
}

func otpResend(ctx context.Context, a *app, args []string) error {
	return sendOTP(ctx, a, args, a.session.ResendOTP)
}

func sendOTP(ctx context.Context, a *app, args []string, send func(context.Context, string, common.OTPMethod) (*v1.GenerateOTPResponse, error)) error {
	if len(args) != 1 {
		return usage("request|resend <email|phone>")
	}
	contact, method := otpMethod(args[0])
	if method == common.OTPByPhone {
		if msg := validation.GetMobileNumberError(contact); msg != "" {
			return errors.New(msg)
		}
	} else if msg := validation.GetEmailError(contact); msg != "" {
		return errors.New(msg)
	}

	resp, err := send(ctx, contact, method)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (valid for %d minutes)\n", resp.Message, resp.ExpiresInMinutes)
	return nil
}

func otpVerify(ctx context.Context, a *app, args []string) error {
	const line = "verify -code <otp> <email|phone>"
	fs := newFlags("verify")
	code := fs.String("code", "", "the code that was sent")
	if err := parse(fs, args, line); err != nil {
		return err
	}
	if fs.NArg() != 1 || *code == "" {
		return usage(line)
	}

	contact, method := otpMethod(fs.Arg(0))
	if _, err := a.session.VerifyOTP(ctx, *code, contact, method); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.Profile().DisplayName())
	return nil
}

func cmdLogout(ctx context.Context, a *app, args []string) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// cmdWhoami prints the stored profile, refreshed from the backend when it answers.
func cmdWhoami(ctx context.Context, a *app, args []string) error {
	if !a.session.IsLoggedIn() {
		return v1.ErrAuthRequired
	}
	if _, err := a.session.RefreshProfile(ctx); err != nil {
		a.log.Warn().Err(err).Msg("showing stored profile")
	}

	p := a.session.Profile()
	w := newTable(a.out)
	row(w, "Name", p.DisplayName())
	row(w, "Email", p.Email)
	row(w, "Mobile", p.Mobile)
	row(w, "User ID", p.ID)
	return w.Flush()
}
