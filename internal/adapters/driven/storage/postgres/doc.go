// Package postgres implements the credential and search history stores on
// PostgreSQL using github.com/lib/pq.
//
// It is the store for shared deployments where several engine processes
// read the same credential table. Schema changes are applied on Open from
// the embedded migrations/ directory, one transaction per version.
package postgres
