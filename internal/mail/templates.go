package mail

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// AppointmentDetails fills every customer template.
type AppointmentDetails struct {
	CustomerName string
	ServiceName  string
	Date         string
	Time         string
}

const htmlLayout = `<h2>{{.Title}}</h2>
<p>Liebe/r {{.D.CustomerName}},</p>
<p>{{.Lead}}</p>
<ul>
  <li><strong>Service:</strong> {{.D.ServiceName}}</li>
  <li><strong>Datum:</strong> {{.D.Date}}</li>
  <li><strong>Uhrzeit:</strong> {{.D.Time}}</li>
</ul>
<p>{{.Closing}}</p>
<p>Ihr Schnittwerk Team</p>
`

var htmlTmpl = htmltemplate.Must(htmltemplate.New("mail").Parse(htmlLayout))

type template struct {
	subject string
	title   string
	lead    string
	closing string
	text    *texttemplate.Template
}

var (
	bookingConfirmation = template{
		subject: "Terminbestätigung - Schnittwerk",
		title:   "Terminbestätigung",
		lead:    "Ihr Termin wurde erfolgreich gebucht:",
		closing: "Wir freuen uns auf Ihren Besuch!",
		text:    texttemplate.Must(texttemplate.New("confirmation").Parse("Terminbestätigung - {{.ServiceName}} am {{.Date}} um {{.Time}}")),
	}

	bookingReminder = template{
		subject: "Terminerinnerung - Schnittwerk",
		title:   "Terminerinnerung",
		lead:    "Wir erinnern Sie an Ihren morgigen Termin:",
		closing: "Bis morgen!",
		text:    texttemplate.Must(texttemplate.New("reminder").Parse("Terminerinnerung - {{.ServiceName}} morgen um {{.Time}}")),
	}

	earlierAppointment = template{
		subject: "Früherer Termin verfügbar - Schnittwerk",
		title:   "Früherer Termin verfügbar",
		lead:    "Ein früherer Termin ist verfügbar geworden:",
		closing: "Melden Sie sich schnell, wenn Sie interessiert sind!",
		text:    texttemplate.Must(texttemplate.New("earlier").Parse("Früherer Termin verfügbar - {{.ServiceName}} am {{.Date}} um {{.Time}}")),
	}
)

func BookingConfirmation(to string, d AppointmentDetails) (Message, error) {
	return bookingConfirmation.render(to, d)
}

func BookingReminder(to string, d AppointmentDetails) (Message, error) {
	return bookingReminder.render(to, d)
}

func EarlierAppointmentAvailable(to string, d AppointmentDetails) (Message, error) {
	return earlierAppointment.render(to, d)
}

func (t template) render(to string, d AppointmentDetails) (Message, error) {
	var html, text bytes.Buffer

	err := htmlTmpl.Execute(&html, struct {
		Title, Lead, Closing string
		D                    AppointmentDetails
	}{t.title, t.lead, t.closing, d})
	if err != nil {
		return Message{}, err
	}

	if err := t.text.Execute(&text, d); err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: t.subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
