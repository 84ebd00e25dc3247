// Package investstat consolidates a brokerage portfolio into human-reviewable
// reports.
//
// The engine is a pure in-process transformation library: raw position and
// operation records come from a Broker, conversion rates from a RateProvider,
// and every report is recomputed per invocation. The same instrument held in
// several accounts merges into one position (MergeByInstrument), positions
// fold into caller-defined groups with recomputed totals and shares
// (ConsolidateBy, Consolidate), and buy operations aggregate per instrument
// class over a time window (AggregatePurchases).
//
// Money arithmetic is currency-safe throughout: adding values in different
// currencies fails with *CurrencyMismatchError, and derived metrics (yield
// percent, share of group) are recomputed after every merge, never carried
// over.
package investstat
