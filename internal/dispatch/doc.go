// Package dispatch orchestrates template sends: resolve the template
// and recipients, render placeholders, call the mail transport, and
// record every successful send in the ledger and on the contact.
//
// Failure contract: an individual send either completes fully (message
// sent, ledger and contact updated) or leaves no trace. A bulk send
// isolates per-recipient failures; one failed recipient never halts the
// rest of the list. Nothing here retries a failed transport call.
package dispatch
