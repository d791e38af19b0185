package testutil

import "sync"

// AlertRecorder collects alerts for assertions. Safe for concurrent use.
type AlertRecorder struct {
	mu   sync.Mutex
	msgs []string
}

// Alert records msg.
func (a *AlertRecorder) Alert(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, msg)
}

// Messages returns the recorded alerts in order.
func (a *AlertRecorder) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.msgs...)
}
