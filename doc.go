// Package main provides the entry point of crewaccess, the multi-tenant permission
// core of the workforce app. It resolves what a member may do within a company
// from role defaults, company customizations and per-member overrides, and serves
// the permission management API through a Fiber web service backed by gorm.
package main
