package store

import _ "embed"

// Schema is the Postgres DDL for the invoice tables. Applied by deployment
// tooling and by the integration suite.
//
//go:embed schema.sql
var Schema string
