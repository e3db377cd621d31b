package indexer

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"go.etcd.io/bbolt"
)

var defaultSkipDirs = []string{
	"node_modules",
	"vendor",
	"dist",
	"build",
	"cache",
	".git",
	".github",
	".idea",
	".vscode",
}

var fileStateBucket = []byte("file_states")

const debounceDelay = 200 * time.Millisecond

// FileScanner scans the project for theme and locale files, keeps track of
// what changed since the last run and feeds changed files to the indexers.
type FileScanner struct {
	projectRoot string
	db          *bbolt.DB
	indexer     []Indexer
	skipDirs    map[string]bool
	watcher     *fsnotify.Watcher
	watcherCtx  context.Context
	cancel      context.CancelFunc
	watcherWg   sync.WaitGroup
	onUpdate    func(paths []string)
}

// NewFileScanner creates a file scanner whose file states live in a bbolt database at dbPath
func NewFileScanner(projectRoot string, dbPath string) (*FileScanner, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{
		Timeout:      time.Second,
		NoSync:       true,
		FreelistType: bbolt.FreelistMapType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(fileStateBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	fs := &FileScanner{
		projectRoot: projectRoot,
		db:          db,
		skipDirs:    make(map[string]bool),
		watcherCtx:  ctx,
		cancel:      cancel,
	}
	fs.SkipDirs(defaultSkipDirs...)

	return fs, nil
}

// SkipDirs adds directory names that are never scanned, at any depth
func (fs *FileScanner) SkipDirs(dirs ...string) {
	for _, dir := range dirs {
		fs.skipDirs[dir] = true
	}
}

// SetOnUpdate registers a callback receiving the paths of every indexed or removed batch
func (fs *FileScanner) SetOnUpdate(onUpdate func(paths []string)) {
	fs.onUpdate = onUpdate
}

func (fs *FileScanner) AddIndexer(indexer Indexer) {
	fs.indexer = append(fs.indexer, indexer)
}

func (fs *FileScanner) isSkipped(path string) bool {
	relPath, err := filepath.Rel(fs.projectRoot, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(relPath, string(os.PathSeparator)) {
		if fs.skipDirs[part] {
			return true
		}
	}
	return false
}

func isScannedFile(path string) bool {
	return slices.Contains(scannedFileTypes, strings.ToLower(filepath.Ext(path)))
}

// StartWatcher watches the project for file changes and reindexes them after a short debounce
func (fs *FileScanner) StartWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	fs.watcher = watcher
	fs.watcherWg.Add(1)

	go func() {
		defer fs.watcherWg.Done()
		defer func() { _ = watcher.Close() }()

		pendingAdds := make(map[string]bool)
		pendingRemoves := make(map[string]bool)
		debounceTimer := time.NewTimer(time.Hour)
		debounceTimer.Stop()

		resetTimer := func() {
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(debounceDelay)
		}

		drain := func(pending map[string]bool) []string {
			files := make([]string, 0, len(pending))
			for file := range pending {
				files = append(files, file)
				delete(pending, file)
			}
			return files
		}

		processChanges := func() {
			if len(pendingAdds) > 0 {
				files := drain(pendingAdds)
				log.Printf("Processing %d changed/added files", len(files))
				if err := fs.IndexFiles(fs.watcherCtx, files); err != nil {
					log.Printf("Error indexing files: %v", err)
				}
			}

			if len(pendingRemoves) > 0 {
				files := drain(pendingRemoves)
				log.Printf("Processing %d deleted files", len(files))
				if err := fs.RemoveFiles(fs.watcherCtx, files); err != nil {
					log.Printf("Error removing files: %v", err)
				}
			}
		}

		for {
			select {
			case <-fs.watcherCtx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if fs.isSkipped(event.Name) {
					continue
				}

				info, err := os.Stat(event.Name)
				if err != nil {
					// Gone: only removals matter
					if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && isScannedFile(event.Name) {
						pendingRemoves[event.Name] = true
						delete(pendingAdds, event.Name)
						resetTimer()
					}
					continue
				}

				if info.IsDir() {
					if event.Op&fsnotify.Create != 0 {
						if err := fs.addDirectoryToWatcher(event.Name); err != nil {
							log.Printf("Error adding directory to watcher: %v", err)
						}
					}
					continue
				}

				if !isScannedFile(event.Name) {
					continue
				}

				if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					pendingAdds[event.Name] = true
					delete(pendingRemoves, event.Name)
					resetTimer()
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("File watcher error: %v", err)

			case <-debounceTimer.C:
				processChanges()
			}
		}
	}()

	return fs.addDirectoryToWatcher(fs.projectRoot)
}

// StopWatcher stops the file watcher and waits for it to exit
func (fs *FileScanner) StopWatcher() {
	if fs.watcher == nil {
		return
	}
	fs.cancel()
	fs.watcherWg.Wait()
	fs.watcher = nil
}

// addDirectoryToWatcher recursively adds a directory and its subdirectories to the watcher
func (fs *FileScanner) addDirectoryToWatcher(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip what we can't access
		}
		if !info.IsDir() {
			return nil
		}
		if path != fs.projectRoot && fs.isSkipped(path) {
			return filepath.SkipDir
		}
		if err := fs.watcher.Add(path); err != nil {
			log.Printf("Error watching directory %s: %v", path, err)
		}
		return nil
	})
}

// Close stops the watcher and closes the state database. Indexers are owned
// by the caller and are not closed here.
func (fs *FileScanner) Close() error {
	fs.StopWatcher()
	fs.cancel()

	if fs.db != nil {
		return fs.db.Close()
	}
	return nil
}

// IndexAll walks the project and indexes every scanned file that changed
func (fs *FileScanner) IndexAll(ctx context.Context) error {
	var files []string

	err := filepath.Walk(fs.projectRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != fs.projectRoot && fs.skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if isScannedFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk project directory: %w", err)
	}

	log.Printf("Found %d files to index", len(files))
	startTime := time.Now()

	if err := fs.IndexFiles(ctx, files); err != nil {
		return fmt.Errorf("failed to index files: %w", err)
	}

	log.Printf("Indexing took %s", time.Since(startTime))
	return nil
}

// fileNeedsIndexing compares size and mtime against the stored state
func (fs *FileScanner) fileNeedsIndexing(path string) (bool, []byte, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, nil, nil, err
	}

	changed := true
	_ = fs.db.View(func(tx *bbolt.Tx) error {
		state := tx.Bucket(fileStateBucket).Get([]byte(path))
		if len(state) != 16 {
			return nil
		}
		storedSize := binary.LittleEndian.Uint64(state[:8])
		storedMtime := binary.LittleEndian.Uint64(state[8:])
		changed = storedSize != uint64(info.Size()) || storedMtime != uint64(info.ModTime().UnixNano())
		return nil
	})

	if !changed {
		return false, nil, info, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, nil, info, err
	}
	return true, content, info, nil
}

// RemoveFiles drops files from all indexers and forgets their state
func (fs *FileScanner) RemoveFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fs.removeFilesFromIndexers(paths); err != nil {
		return err
	}

	err := fs.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(fileStateBucket)
		for _, path := range paths {
			if err := bucket.Delete([]byte(path)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if fs.onUpdate != nil {
		fs.onUpdate(paths)
	}
	return nil
}

func (fs *FileScanner) removeFilesFromIndexers(paths []string) error {
	for _, indexer := range fs.indexer {
		if err := indexer.RemovedFiles(paths); err != nil {
			return fmt.Errorf("%s: %w", indexer.ID(), err)
		}
	}
	return nil
}

func (fs *FileScanner) updateFileStates(files []fileWork) error {
	return fs.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(fileStateBucket)
		for _, file := range files {
			state := make([]byte, 16)
			binary.LittleEndian.PutUint64(state[:8], uint64(file.info.Size()))
			binary.LittleEndian.PutUint64(state[8:], uint64(file.info.ModTime().UnixNano()))
			if err := bucket.Put([]byte(file.path), state); err != nil {
				return err
			}
		}
		return nil
	})
}

type fileWork struct {
	path    string
	content []byte
	info    os.FileInfo
}

// IndexFiles indexes the changed files among paths using a small worker pool
func (fs *FileScanner) IndexFiles(ctx context.Context, paths []string) error {
	files := make([]string, 0, len(paths))
	for _, path := range paths {
		if !fs.isSkipped(path) && isScannedFile(path) {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil
	}

	workerCount := min(runtime.NumCPU(), 8)

	fileChan := make(chan string)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		indexed []string
	)

	for range workerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()

			parsers := CreateTreesitterParsers()
			defer CloseTreesitterParsers(parsers)

			for path := range fileChan {
				needsIndexing, content, info, err := fs.fileNeedsIndexing(path)
				if err != nil || !needsIndexing {
					continue
				}

				work := fileWork{path: path, content: content, info: info}
				if err := fs.indexFile(parsers, work); err != nil {
					log.Printf("Error processing file %s: %v", path, err)
					continue
				}

				mu.Lock()
				indexed = append(indexed, path)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case fileChan <- path:
		}
	}
	close(fileChan)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	if len(indexed) > 0 && fs.onUpdate != nil {
		fs.onUpdate(indexed)
	}
	return nil
}

func (fs *FileScanner) indexFile(parsers map[string]*tree_sitter.Parser, work fileWork) error {
	if err := fs.removeFilesFromIndexers([]string{work.path}); err != nil {
		return err
	}

	var root *tree_sitter.Node
	if parser := parsers[strings.ToLower(filepath.Ext(work.path))]; parser != nil {
		tree := parser.Parse(work.content, nil)
		if tree != nil {
			defer tree.Close()
			root = tree.RootNode()
		}
	}

	for _, indexer := range fs.indexer {
		if err := indexer.Index(work.path, root, work.content); err != nil {
			return fmt.Errorf("%s: %w", indexer.ID(), err)
		}
	}

	return fs.updateFileStates([]fileWork{work})
}

// ClearHashes clears all indexers and file states, forcing a full reindex
func (fs *FileScanner) ClearHashes() error {
	for _, indexer := range fs.indexer {
		if err := indexer.Clear(); err != nil {
			return err
		}
	}

	return fs.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(fileStateBucket); err != nil {
			return fmt.Errorf("failed to delete file state bucket: %w", err)
		}
		if _, err := tx.CreateBucket(fileStateBucket); err != nil {
			return fmt.Errorf("failed to create file state bucket: %w", err)
		}
		return nil
	})
}
