package utils

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"skilltrack/config"
)

// SendEmail sends an HTML email through the configured SMTP account.
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: SkillTrack <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

// getEmailTemplate wraps body content in the SkillTrack mail layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #10B981; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #0F172A; line-height: 1.6; }
			.content h2 { color: #0F172A; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #10B981; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #ECFDF5; padding: 15px; border-radius: 4px; border-left: 4px solid #10B981; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>SkillTrack</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; %d SkillTrack. Keep learning.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent, time.Now().Year())
}

// SendCertificateIssuedEmail notifies a student that their certificate is ready.
func SendCertificateIssuedEmail(email, name, skillName, certificateNumber, verifyURL string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations! You have completed <b>%s</b> and your certificate has been issued.</p>
		<div class="info-box">
			<p>Certificate ID: <b>%s</b></p>
		</div>
		<p>Anyone can verify your certificate at the link below:</p>
		<a class="btn" href="%s">Verify Certificate</a>
	`, name, skillName, certificateNumber, verifyURL)

	return SendEmail([]string{email}, "Your SkillTrack certificate for "+skillName, getEmailTemplate("Certificate Issued", body))
}
