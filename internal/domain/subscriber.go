package domain

// NewSubscriber is a validated sign-up intent. It exists only between
// request parsing and persistence and is never stored as-is.
type NewSubscriber struct {
	Email SubscriberEmail
	Name  SubscriberName
}

// NewSubscriberFromForm validates both raw form fields and assembles
// them. The first failing field rejects the whole submission.
func NewSubscriberFromForm(rawEmail, rawName string) (NewSubscriber, error) {
	email, err := ParseSubscriberEmail(rawEmail)
	if err != nil {
		return NewSubscriber{}, err
	}
	name, err := ParseSubscriberName(rawName)
	if err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{Email: email, Name: name}, nil
}
