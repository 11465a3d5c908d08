// Package catalog defines the canonical encounter catalog: acts, their
// variation/wave trees, enemies, characters, and admin-authored modes.
//
// Everything here is pure data and validation. Persistence lives behind the
// planner storage contracts.
package catalog
