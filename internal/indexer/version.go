package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IndexVersion is the version of the on-disk index layout. Bump it whenever a
// stored type changes shape; caches written by another version are dropped.
const IndexVersion = 1

const versionFileName = "index_version"

// CheckAndMigrateCache clears cacheDir unless it was written with the current
// IndexVersion. It reports whether the cache was cleared and must be rebuilt.
func CheckAndMigrateCache(cacheDir string) (bool, error) {
	versionFile := filepath.Join(cacheDir, versionFileName)

	data, err := os.ReadFile(versionFile)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read version file: %w", err)
	}

	if err == nil {
		stored, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if parseErr == nil && stored == IndexVersion {
			return false, nil
		}
	}

	// Missing, corrupted or outdated version file
	if err := clearCacheDir(cacheDir); err != nil {
		return false, fmt.Errorf("failed to clear cache: %w", err)
	}
	if err := os.WriteFile(versionFile, []byte(strconv.Itoa(IndexVersion)), 0o644); err != nil {
		return false, fmt.Errorf("failed to write version: %w", err)
	}
	return true, nil
}

// clearCacheDir removes everything inside cacheDir, creating it when missing
func clearCacheDir(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(cacheDir, 0o755)
		}
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(cacheDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}
