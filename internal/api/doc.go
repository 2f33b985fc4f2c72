// Package api serves the CourseInfo GraphQL endpoint the search client queries.
//
// Routes:
//
//	GET  /         liveness text
//	GET  /graphql  GraphQL Playground
//	POST /graphql  query execution
//	GET  /metrics  logger metrics snapshot
package api
