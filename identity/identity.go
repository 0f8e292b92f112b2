/*
Package identity provides deterministic, RFC 4122 version-5 identifiers.

PURPOSE:
  Migration runs must be idempotent: importing the same source data twice
  must produce the same IDs so upserts converge instead of duplicating.
  A UUID v5 is SHA-1(namespace ++ name) with the version nibble forced to
  5 and the variant bits forced to 10, so the same name under the same
  namespace always yields the same UUID.

SENSITIVITY:
  Generation is case-sensitive, whitespace-sensitive, and namespace-
  sensitive. "Alice@x.com" and "alice@x.com" produce different IDs.
  Normalize upstream if that matters.

WRAPPERS:
  The convenience wrappers bind a fixed application namespace and prefix
  the name with the entity kind, so a team and a project that happen to
  share a display name still get distinct IDs.
*/
package identity

import (
	"regexp"

	"github.com/google/uuid"
)

// Namespace is the fixed application namespace for all generated IDs.
// Changing it invalidates every previously generated identifier.
var Namespace = uuid.MustParse("8c2d1f4e-9b7a-5c36-a1d8-40f2e6b59c17")

// UUIDv5 returns the canonical lowercase 8-4-4-4-12 form of the version-5
// UUID for name under the given namespace.
func UUIDv5(namespace uuid.UUID, name string) string {
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

// =============================================================================
// CONVENIENCE WRAPPERS - Fixed namespace, kind-prefixed names
// =============================================================================

func ResourceIDFromEmail(email string) string {
	return UUIDv5(Namespace, "resource:"+email)
}

func TeamIDFromName(name string) string {
	return UUIDv5(Namespace, "team:"+name)
}

func ProjectIDFromName(name string) string {
	return UUIDv5(Namespace, "project:"+name)
}

func DepartmentIDFromName(name string) string {
	return UUIDv5(Namespace, "department:"+name)
}

func TaskID(projectName, taskName string) string {
	return UUIDv5(Namespace, "task:"+projectName+":"+taskName)
}

// AllocationID derives a stable ID for an allocation period from its
// identity key (resource, project, date range). Re-running a migration
// over the same source rows regenerates the same IDs.
func AllocationID(resourceID, projectID, startDate, endDate string) string {
	return UUIDv5(Namespace, "allocation:"+resourceID+":"+projectID+":"+startDate+":"+endDate)
}

// =============================================================================
// VALIDATION COMPANION
// =============================================================================

// uuidV5Pattern matches the canonical lowercase 8-4-4-4-12 shape with
// version nibble 5 and RFC 4122 variant nibble (8, 9, a, or b).
var uuidV5Pattern = regexp.MustCompile(
	`^[0-9a-f]{8}-[0-9a-f]{4}-5[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsUUIDv5 reports whether s is a canonical RFC 4122 version-5 UUID.
// Unlike uuid.Parse it rejects braces, URN prefixes, and uppercase hex.
func IsUUIDv5(s string) bool {
	return uuidV5Pattern.MatchString(s)
}
