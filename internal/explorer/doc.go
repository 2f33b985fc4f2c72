// Package explorer fetches course and section documents from the Course Explorer
// schedule API and resolves course-level searches.
//
// Course documents list a course's label, description, credit hours and section IDs;
// each section document carries enrollment status and meetings. Raw documents are kept
// in a storage.Store so repeat searches do not hit the network, and course numbers that
// do not exist in a term are remembered in a TTL cache.
package explorer
