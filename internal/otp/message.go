package otp

import (
	"fmt"
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/mailer"
)

// CodeMessage renders the mail that carries a one-time code.
func CodeMessage(to, code string, purpose Purpose, ttl time.Duration) mailer.Message {
	subject := "Email Verification OTP"
	intro := "Use this OTP to verify your college email for the lab inventory."
	if purpose == PurposeReset {
		subject = "Password Reset OTP"
		intro = "Use this OTP to reset your lab inventory password."
	}
	validity := validityText(ttl)

	text := fmt.Sprintf("%s\n\n%s\n\nThis OTP is valid for %s. If you didn't request this, please ignore this email.\n", intro, code, validity)
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 500px; margin: 0 auto; text-align: center;">
  <h2>%s</h2>
  <p>%s</p>
  <p style="font-size: 32px; font-weight: 700; letter-spacing: 8px;">%s</p>
  <p style="font-size: 13px; color: #6b7280;">This OTP is valid for <strong>%s</strong>.</p>
</div>`, subject, intro, code, validity)

	return mailer.Message{
		To:      to,
		Subject: subject,
		Text:    text,
		HTML:    html,
	}
}

func validityText(ttl time.Duration) string {
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	if minutes <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
