// Package rules evaluates custom per-policy rules against prompt text.
//
// The only rule kind today is an ordered deny-keyword list. Matching is
// case-insensitive substring containment, and the first keyword in
// declared order wins so that audit reasons are reproducible.
package rules
