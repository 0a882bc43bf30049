// Package preflight provides readiness checks for the directories and the
// engine binary gifbake depends on.
//
// The doctor command renders RunAll and CheckSystemDeps side by side; the
// convert command runs CheckDirectoryAccess on the staging directory before
// it acquires a workspace so a read-only cache fails fast.
package preflight
