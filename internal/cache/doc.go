// Package cache provides a file-based cache for file contents fetched from
// Azure DevOps.
//
// Cache entries are keyed by a SHA-256 hash of the repository, commit version
// and file path. Each entry stores the raw blob content along with a creation
// timestamp and a TTL (in seconds). Expired entries are skipped on read and
// removed during cache-clear operations.
//
// The default cache directory is $XDG_CACHE_HOME/vigil (or the OS-appropriate
// equivalent).
package cache
