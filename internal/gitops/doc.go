// Package gitops commits the store tree after mutations.
//
// It shells out to the git binary rather than embedding a git
// implementation: the store's artifacts are ordinary files and the
// surrounding version-control workflow (remotes, merges, history) belongs
// to git proper. The db facade calls CommitAll after each successful
// mutation unless auto-commit is disabled.
package gitops
