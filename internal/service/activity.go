package service

// Activity event names pushed to connected back-office clients.
const (
	EventIncomeCreated  = "income.created"
	EventIncomeUpdated  = "income.updated"
	EventIncomeDeleted  = "income.deleted"
	EventExpenseCreated = "expense.created"
	EventExpenseUpdated = "expense.updated"
	EventExpenseDeleted = "expense.deleted"
	EventRateUpdated    = "rate.updated"
	EventApartmentGone  = "apartment.deleted"
)

// ActivityPublisher fans an event out to live dashboard clients. Services
// publish after a successful commit and never wait on delivery.
type ActivityPublisher interface {
	Publish(event string, payload interface{})
}

// NopPublisher discards events. Used in tests and when no hub is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}) {}
