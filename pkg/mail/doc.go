// Package mail defines the outbound email transport capability.
//
// A Sender accepts a fully-prepared Email and returns the provider's
// delivery identifier. Two providers ship with Herald:
//
//   - mail/resend sends through the Resend API and returns the API's
//     message id
//   - mail/smtp speaks plain SMTP and assigns its own Message-ID header
//
// The dispatch engine only depends on the Sender interface; swapping
// providers is a configuration concern.
package mail
