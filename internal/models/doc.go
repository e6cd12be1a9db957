// Package models defines the core domain models for the vesting engine.
//
// # Models
//
//   - RawRow: one untyped input row (form field set or spreadsheet line)
//   - StreamDefinition: a validated row, ready to be committed as a stream
//   - Stream: the authoritative ledger entry for one stream
//   - Schedule: the vesting state of a stream at an observation instant
//   - ClaimRequest / ClaimResult: one claim attempt and its outcome
//
// # Amounts
//
// Amounts are non-negative integers in the token's smallest unit, held as
// *big.Int. Token amounts with 18 decimals do not fit in 64 bits.
//
// # Time
//
// Durations are whole seconds (int64). Instants are time.Time values passed in
// by the caller; nothing in the core reads the system clock.
//
// # Design Principles
//
// 1. **Immutable definitions**: a StreamDefinition never changes after validation
// 2. **Single mutation**: only Stream.ClaimedAmount changes after creation
// 3. **Avoid circular references**: streams reference recipients by address string
// 4. **Errors are values**: every expected failure is a sentinel in errors.go
package models
