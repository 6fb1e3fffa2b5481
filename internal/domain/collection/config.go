package collection

// PromiseConfig tunes promise follow-up
type PromiseConfig struct {
	// ToleranceDays is how many days past the promise date a promise still counts as kept
	ToleranceDays int
	// ReminderLeadDays is how many days ahead of the promise date reminders go out
	ReminderLeadDays int
}

// DefaultPromiseConfig returns the standard follow-up settings
func DefaultPromiseConfig() PromiseConfig {
	return PromiseConfig{
		ToleranceDays:    0,
		ReminderLeadDays: 2,
	}
}
