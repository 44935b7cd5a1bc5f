// Package timezone holds the application timezone, configured via APP_TIMEZONE.
//
// Persisted instants are always UTC (NowUTC); the application zone is only used when
// rendering times back to people, e.g. in response metadata or gateway date fields.
package timezone
