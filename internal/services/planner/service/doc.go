// Package service orchestrates planner domain operations over the catalog
// document store and the user-local store.
//
// Catalog owns act, mode, enemy and character records. Seasons composes and
// saves the season override. Planner serializes lineup and profile mutations
// for one user and writes them through after every change.
package service
