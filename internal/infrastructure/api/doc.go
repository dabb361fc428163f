// Package api is the REST client for the municipal zoosanitario API.
//
// Each collection (rates, introducers, invoices, certificates) is exposed
// as a Resource implementing repositories.CRUD. Wire models in the models
// subpackage carry the API's own field names; mappers convert them to
// domain entities.
//
// Non-2xx answers are returned as *Error. An *Error flagged with
// needsCredentials, or matching the Oracle credentials status pattern,
// parks the call on the client's credentials.Gate until the credentials are
// submitted with SubmitCredentials and the gate is configured.
package api
