package notification

import (
	"log"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"
)

// LogNotifier writes owner notifications to the process log. The production
// mailer/push provider sits behind the same port.
type LogNotifier struct{}

func NewLogNotifier() ports.Notifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(to, subject, body string) error {
	log.Printf("📧 [NOTIFICATION] To: %s | Subject: %s | Body: %s", to, subject, body)
	return nil
}
