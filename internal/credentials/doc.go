// Package credentials coordinates operations that depend on the Oracle
// service account behind the zoosanitario API.
//
// When an operation fails because the account has no active credentials,
// Run parks the caller on a shared Gate and raises the DialogVisible flag.
// Whatever collects the credentials (the CLI prompt) calls Configure once
// they have been submitted, or Cancel if the user gives up. On Configure
// every parked caller replays its operation exactly once; a second failure
// is returned as is. On Cancel the original failure is returned.
//
// Only one round is open at a time. Callers failing while it is open join
// it and are released together.
package credentials
