// Package domain defines the core business entities of the scholarship
// funding ledger and the error taxonomy shared by every layer above it.
//
// All monetary quantities are unsigned integers in currency minor units.
// Arithmetic on them goes through the checked helpers in math.go so that an
// overflow rejects the whole operation instead of wrapping silently.
package domain
