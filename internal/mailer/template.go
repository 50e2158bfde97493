package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const registrationSubject = "Event Registration Confirmation"

var registrationTmpl = template.Must(template.New("event_registration").Parse(`
<h2>You're registered!</h2>
<p>Hi {{.Email}},</p>
<p>Your registration for <strong>{{.EventName}}</strong> is confirmed.</p>
<p>Date: {{.EventDate}}</p>
<p>Manage your registrations at <a href="{{.Host}}">{{.Host}}</a>.</p>
`))

type registrationVars struct {
	Email     string
	EventName string
	EventDate string
	Host      string
}

func renderRegistration(toEmail, eventTitle string, eventDate time.Time, host string) (text, html string, err error) {
	vars := registrationVars{
		Email:     toEmail,
		EventName: eventTitle,
		EventDate: eventDate.Format("Monday, 2 January 2006 15:04 MST"),
		Host:      host,
	}

	var buf bytes.Buffer
	if err := registrationTmpl.Execute(&buf, vars); err != nil {
		return "", "", fmt.Errorf("render registration email: %w", err)
	}

	text = fmt.Sprintf("Your registration for %q is confirmed.\nDate: %s\n\nManage your registrations at %s",
		vars.EventName, vars.EventDate, vars.Host)
	return text, buf.String(), nil
}
