// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify implements the Notification Gateway.

It turns an account event (registration, activation, reset request,
password change) into a rendered email and hands it to a [Mailer]. The
auth flows only ever call [Gateway.Notify]; template rendering and
transport stay behind this boundary.
*/
package notify

import "context"

// Kind identifies the email template sent for an account event.
type Kind string

const (
	KindActivation      Kind = "activation"
	KindConfirmation    Kind = "confirmation"
	KindPasswordChanged Kind = "password_changed"
	KindResetRequested  Kind = "reset_requested"
)

// Recipient is the addressee of a notification.
type Recipient struct {
	Email     string
	FirstName string
	LastName  string
}

// FullName returns the display name used in the To header.
func (recipient Recipient) FullName() string {
	switch {
	case recipient.FirstName == "":
		return recipient.LastName
	case recipient.LastName == "":
		return recipient.FirstName
	default:
		return recipient.FirstName + " " + recipient.LastName
	}
}

// Notification is a request to email a user about an account event.
//
// Token is the raw single-use token embedded in the link of activation
// and reset emails. Other kinds ignore it.
type Notification struct {
	Kind  Kind
	To    Recipient
	Token string
}

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Mailer delivers rendered messages.
type Mailer interface {
	Send(ctx context.Context, message Message) error
}
