package notifier

// Kind distinguishes the notification variants. Only updates carry a user
// mention.
type Kind int

const (
	// Update announces detected section changes.
	Update Kind = iota
	// Initial is the first-run state summary.
	Initial
	// NoUpdates is the optional no-change notice.
	NoUpdates
	// Warning reports fetch or parse problems.
	Warning
)

// String names the kind for dry-run output and logging.
func (k Kind) String() string {
	switch k {
	case Update:
		return "update"
	case Initial:
		return "initial"
	case NoUpdates:
		return "no-updates"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Message is a rendered notification ready for delivery.
type Message struct {
	Content string
	Kind    Kind
}

// Notifier defines the interface for delivering notifications.
type Notifier interface {
	// Notify delivers the message, splitting it as needed.
	Notify(msg Message) error
}
