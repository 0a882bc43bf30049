// Package staging manages the engine workspaces under the staging directory.
//
// Each engine load acquires its own workspace: a uniquely named directory
// holding an advisory lock file for as long as the owning process keeps the
// engine loaded. Conversions stage inputs and read outputs inside that
// directory. CleanStale reclaims workspaces left behind by processes that
// exited without releasing them, and never touches a workspace whose lock is
// still held.
package staging
