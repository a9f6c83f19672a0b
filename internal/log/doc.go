// Package log provides slog loggers that keep customer data out of log
// output.
//
// Sales datasets carry personal data: customer IDs, loyalty numbers and,
// in free-text fields, the odd e-mail address or card number. SecureHandler
// wraps any slog.Handler and masks such values before they are written:
//   - attributes whose key names customer data, such as customer_id,
//     loyalty_number or email
//   - attributes whose key contains password, secret or token
//   - string and error values that look like a payment card number, an
//     e-mail address or a bearer token
//
// Even in verbose mode, masked values are never written.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("loaded record", "customer_id", 1042) // customer_id=***REDACTED***
//
//	slog.SetDefault(logger)
package log
