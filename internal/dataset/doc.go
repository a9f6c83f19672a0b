// Package dataset loads the electronic-store sales CSV into an immutable,
// typed record set.
//
// The loader reads the file through gota's CSV reader with every column kept
// as text, checks that the sixteen required columns are present, and then
// converts each row into a Transaction. Currency columns become exact
// decimals, the purchase date becomes a time.Time, and the payment method is
// lowercased once so that every later grouping sees a canonical spelling.
//
// A RecordSet never changes after it is built. Aggregations that need
// dataframe operations ask for Frame(), a read-only gota view that is built
// on first use and shared afterwards.
package dataset
