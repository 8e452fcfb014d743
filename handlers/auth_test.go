package handlers

import "testing"

// The mailer is a constructor-injected dependency; every auth handler uses
// the instance it was built with instead of resolving one lazily.
func TestNewAuthHandlerUsesInjectedMailer(t *testing.T) {
	first := &Mailer{host: "smtp.one.example"}
	second := &Mailer{host: "smtp.two.example"}

	a := NewAuthHandler(first)
	b := NewAuthHandler(second)

	if a.mailer != first {
		t.Error("first handler should hold the mailer it was constructed with")
	}
	if b.mailer != second {
		t.Error("second handler should hold the mailer it was constructed with")
	}
	if a.mailer == b.mailer {
		t.Error("handlers must not share a hidden mailer instance")
	}
}
