// Package election defines the records extracted from election results pages
// and flattens them into a single wide table.
//
// A LocationRecord holds what one municipality detail page reports: a fixed
// summary (registered voters, envelopes, valid votes and so on) and a
// variable list of party results. Flatten merges a run's records into a Table
// with one row per location and one column per party name seen anywhere in
// the run, defaulting missing parties to zero.
package election
