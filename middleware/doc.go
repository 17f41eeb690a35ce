// Package middleware exposes the HTTP guards that sit in front of protected
// event-platform routes and enforce bearer-token authentication through
// Engine.Validate.
//
// # Guards
//
//   - [Guard] — any authenticated principal.
//   - [RequireRole] — authenticated principal with a specific role.
//   - [RequireOrganizer] — shorthand for organizer-only routes.
//
// Each guard reads the Authorization header, calls Engine.Validate, and
// injects the validated result into the request context, reachable via
// [AuthResultFromContext].
//
// # Response contract
//
// A missing or non-Bearer credential yields 401 with body
// {"message":"Token is missing"}; any verification failure yields 401 with
// {"message":"User is not authorized"}. Clients key off these exact strings,
// and the bodies never distinguish malformed from expired from forged.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.Validate
//     plus the declared role requirement.
package middleware
