// Package main provides the entry point for the storeeda CLI.
//
// storeeda reads the sales CSV of an electronics store and writes an
// exploratory report: age groups, monthly revenue, product and shipping
// sales, add-ons, ratings, customer gender, order status and payment
// methods.
//
// Usage:
//
//	storeeda render [dataset.csv ...]
//	storeeda history --list-sources
//
// See --help for all available options.
package main

func main() {
	Execute()
}
