package notifier

import (
	"bytes"
	"html/template"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const confirmationSubject = "Parking Slot Booking Confirmation"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<h2>Booking confirmed</h2>
<p>Hello {{.Name}},</p>
<p>Your parking slot has been reserved.</p>
<ul>
  <li>Booking ID: {{.BookingID}}</li>
  <li>Slot: {{.Slot}}</li>
  <li>RFID tag: {{.Tag}}</li>
  <li>From: {{.Start}}</li>
  <li>To: {{.End}}</li>
</ul>
<p>Scan your RFID card at the gate to enter and again to leave.</p>`))

type confirmationData struct {
	Name      string
	BookingID int64
	Slot      string
	Tag       string
	Start     string
	End       string
}

// renderConfirmation письмо-подтверждение брони
func renderConfirmation(b *domain.Booking, slot *domain.Slot) (Message, error) {
	data := confirmationData{
		Name:      b.Name,
		BookingID: b.ID,
		Tag:       b.RFIDTag,
		Start:     b.StartTime.UTC().Format(time.RFC1123),
		End:       b.EndTime.UTC().Format(time.RFC1123),
	}
	if slot != nil {
		data.Slot = slot.Label
	}

	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return Message{}, err
	}

	return Message{
		To:      b.Email,
		Subject: confirmationSubject,
		HTML:    buf.String(),
	}, nil
}
