// Package search turns course-search form state into a backend query.
//
// A Criteria record holds the four form fields. Validate normalizes it (4-digit year,
// upper-case subject) or rejects it, and Client.Submit sends the validated record to
// the GraphQL endpoint as the static CourseInfo query, handing the decoded response
// body to a callback.
package search
