// Package webpo organizes extraction logic as Page Objects: types whose
// output fields are declared up front, computed lazily, cached per instance
// and assembled into structured items. A rule registry decides which Page
// Object implementation serves a given URL and item type.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., rules/, fields/,
// doublestar/, goquery/).
package webpo
