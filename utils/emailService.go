package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through SendGrid
func SendEmail(to, toName, subject, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Printf("Skipping email to %s: SENDGRID_API_KEY not set", to)
		return nil
	}

	from := mail.NewEmail("LMS Back Office", config.AppConfig.EmailSender)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("Failed to send email to %s, response code: %d", to, resp.StatusCode)
		return fmt.Errorf("failed to send email, code: %d", resp.StatusCode)
	}

	return nil
}

// SendEnrollmentEmail notifies a student of a new enrollment. Fire-and-forget;
// failures are logged, never surfaced to the enrolling request.
func SendEnrollmentEmail(email, name, courseTitle string) {
	body := getEmailTemplate(
		"You're enrolled!",
		fmt.Sprintf(`<p>Hi %s,</p><p>You have been enrolled in <b>%s</b>. Log in to get started.</p>`, name, courseTitle),
	)
	if err := SendEmail(email, name, "Enrolled in "+courseTitle, body); err != nil {
		log.Printf("Enrollment email to %s failed: %v", email, err)
	}
}

func getEmailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}
