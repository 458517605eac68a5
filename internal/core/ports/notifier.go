package ports

type Notifier interface {
	Notify(to, subject, body string) error
}
