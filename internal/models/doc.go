// Package models defines the core domain models for Splitpot.
//
// # Model Overview
//
//   - Group / Member: a set of people who share expenses. Identity is
//     external; members carry only the user ID and profile fields the
//     identity provider gives us, plus a role within the group.
//   - Expense: a cost advanced by one member on behalf of the group.
//   - Split: one participant's share of an expense. The sum of splits
//     for an expense always equals the expense amount (within one cent).
//   - Payment: a recorded amount paid toward a specific split. A split
//     may accumulate several partial payments.
//   - Settlement: an append-only audit record that a transfer between
//     two members logically happened. Settlements never move money
//     themselves; executing one creates Payments against the splits it
//     resolves.
//
// # Derived State
//
// Balances and settlement suggestions are computed fresh per request by
// the calculator package and are never persisted. A split's IsPaid flag
// is derived: it flips to true once payments against the split cover its
// amount.
//
// # Design Principles
//
//  1. Relationships use ID strings, not pointers, to avoid cycles.
//  2. Money is float64 rounded to two decimals; comparisons throughout
//     the codebase use a one-cent epsilon.
//  3. Roles form a closed enum with a fixed capability table, so
//     permission checks are exhaustive at compile time.
package models
