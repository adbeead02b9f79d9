// Package session hosts concurrent builder sessions for adapters that
// serve many clients at once. A builder tree is single-owner by contract;
// the manager provides the exclusive access that contract requires.
package session
