package notifier

import "fmt"

// DryRunNotifier prints message parts without posting them.
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier.
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints each part that would be posted to the webhook.
func (n *DryRunNotifier) Notify(msg Message) error {
	parts := SplitMessage(msg.Content, maxPartLen)
	for i, part := range parts {
		fmt.Printf("--- %s message, part %d/%d ---\n", msg.Kind, i+1, len(parts))
		fmt.Println(part)
		fmt.Printf("(Length: %d characters)\n\n", len(part))
	}
	return nil
}
