// Package auth provides the fiber middleware identifying the caller and
// gating routes by company permissions.
//
// Authentication happens upstream: the gateway in front of the service sets the
// caller header (X-User-ID by default) to the id of the authenticated user.
package auth
