// Package alert decides which providers breached the usage threshold and
// delivers one plain-text email per breach.
//
// Evaluate is a pure function over a snapshot; usage strictly greater than
// the threshold is a breach. Notifier resolves EMAIL_SENDER, EMAIL_PASSWORD
// and EMAIL_RECEIVER through the credentials chain and hands the message to
// a Mailer. Missing configuration skips delivery without any network
// activity, and delivery failures are logged rather than returned, so a
// mail outage never fails the run.
package alert
