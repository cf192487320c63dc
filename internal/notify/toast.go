// internal/notify/toast.go
package notify

// Toast is the fire-and-forget notification payload pushed to connected
// dashboards. No return value is consumed by callers.
type Toast struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"` // success | error | info
}

const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeInfo    = "info"
)

// Notifier is the sink services publish toasts through.
type Notifier interface {
	Toast(t Toast)
}

// NopNotifier discards every toast; used in tests and as a safe default.
type NopNotifier struct{}

func (NopNotifier) Toast(Toast) {}
