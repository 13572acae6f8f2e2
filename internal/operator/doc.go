// Package operator abstracts the human sitting at the terminal.
//
// Resolution code never talks to a terminal directly; it asks an Operator to
// choose between candidates, confirm an action, or type a value, and reports
// progress through the styled status methods. The Terminal implementation
// renders interactive prompts; Script replays canned answers for tests.
package operator
