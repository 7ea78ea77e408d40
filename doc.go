// Package fedbox is an outbound-activity server: outbox ingest, signed
// federation delivery, and actor document hosting. The API annotations live
// on cmd/server/main.go, which swagger generation reads.
package fedbox
