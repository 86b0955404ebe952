// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/kraklabs/zstags/pkg/pathnorm"
)

const (
	// PersySchema selects EmbeddedBackend. Existing configs and scripts
	// use this name.
	PersySchema = "persy"

	// BadgerSchema is an alias of PersySchema.
	BadgerSchema = "badger"

	// IndexName is the cluster index holding path -> tag rows.
	IndexName = "zstags"

	// ModifierInit asks the backend to create a fresh database.
	ModifierInit = "init"

	// clusterMode marks an index allowing several values per key.
	clusterMode = "cluster"
)

// Key layout:
//
//	!index/<name>          -> value mode of the index
//	<name>/<key>\x00<tag>  -> empty; one row per tag
var (
	metaPrefix = []byte("!index/")
	keySep     = byte(0)
)

// EmbeddedBackend implements Backend on a local BadgerDB database.
//
// Each file is identified by its path relative to a fixed normalization
// base directory, so tags survive moving the whole tree (together with
// the database) but do not follow a single file that is renamed.
type EmbeddedBackend struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool

	schema  string
	dataDir string
	baseDir string
	cwd     string
	logger  *slog.Logger
}

// EmbeddedConfig configures the embedded backend.
type EmbeddedConfig struct {
	// DataDir is the directory BadgerDB keeps its files in.
	// Ignored when InMemory is set.
	DataDir string

	// BaseDir is the normalization base; storage keys are paths
	// relative to it. Required.
	BaseDir string

	// CurrentDir resolves relative DataDir, BaseDir and file paths.
	// Defaults to the process working directory.
	CurrentDir string

	// Init creates a new database and its index. Opening an existing
	// database with Init fails.
	Init bool

	// InMemory keeps everything in RAM. Intended for tests.
	InMemory bool

	// Schema is the name reported by Name(). Defaults to "persy".
	Schema string

	Logger *slog.Logger
}

func newEmbeddedFromSpec(spec Spec, opts Options) (Backend, error) {
	if len(spec.Args) < 2 || len(spec.Args) > 3 {
		return nil, &ConfigError{
			Spec: spec.Raw,
			Msg:  fmt.Sprintf("expects %s:<database>:<base>[:%s], got %d arguments", spec.Schema, ModifierInit, len(spec.Args)),
			Err:  ErrArgCount,
		}
	}
	cfg := EmbeddedConfig{
		DataDir:    spec.Args[0],
		BaseDir:    spec.Args[1],
		CurrentDir: opts.CurrentDir,
		Schema:     spec.Schema,
		Logger:     opts.Logger,
	}
	if len(spec.Args) == 3 {
		if spec.Args[2] != ModifierInit {
			return nil, &ConfigError{
				Spec: spec.Raw,
				Msg:  fmt.Sprintf("unknown modifier %q", spec.Args[2]),
				Err:  ErrUnknownModifier,
			}
		}
		cfg.Init = true
	}
	if cfg.DataDir == "" || cfg.BaseDir == "" {
		return nil, &ConfigError{Spec: spec.Raw, Msg: "database path and base directory must not be empty", Err: ErrArgCount}
	}
	return NewEmbeddedBackend(cfg)
}

// NewEmbeddedBackend opens, or with Init creates, an embedded database.
func NewEmbeddedBackend(config EmbeddedConfig) (*EmbeddedBackend, error) {
	if config.Schema == "" {
		config.Schema = PersySchema
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.CurrentDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, &ConfigError{Msg: "get working directory", Err: err}
		}
		config.CurrentDir = cwd
	}
	if !filepath.IsAbs(config.CurrentDir) {
		abs, err := filepath.Abs(config.CurrentDir)
		if err != nil {
			return nil, &ConfigError{Msg: "resolve current directory", Err: err}
		}
		config.CurrentDir = abs
	}
	if config.BaseDir == "" {
		return nil, &ConfigError{Msg: "normalization base directory is required"}
	}
	if config.DataDir == "" && !config.InMemory {
		return nil, &ConfigError{Msg: "database path is required"}
	}

	if pathnorm.HasHomePrefix(config.BaseDir) || pathnorm.HasHomePrefix(config.DataDir) {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, &ConfigError{Msg: "resolve home directory for '~'", Err: err}
		}
		config.BaseDir = pathnorm.ExpandHome(config.BaseDir, home)
		config.DataDir = pathnorm.ExpandHome(config.DataDir, home)
	}

	b := &EmbeddedBackend{
		schema:  config.Schema,
		baseDir: pathnorm.Absolute(config.BaseDir, config.CurrentDir),
		cwd:     filepath.Clean(config.CurrentDir),
		logger:  config.Logger,
	}

	opts := badger.DefaultOptions("").WithInMemory(true)
	if !config.InMemory {
		b.dataDir = pathnorm.Absolute(config.DataDir, config.CurrentDir)
		if err := b.checkLayout(config.Init); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(b.dataDir).WithValueLogFileSize(64 << 20)
	}
	opts = opts.WithLogger(badgerLogger{b.logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, b.fail("open", "", err)
	}
	b.db = db

	if config.Init {
		err = b.createIndex()
	} else {
		err = b.checkIndex()
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	b.logger.Debug("embedded.open",
		"data_dir", b.dataDir,
		"base_dir", b.baseDir,
		"init", config.Init,
		"in_memory", config.InMemory,
	)
	return b, nil
}

// checkLayout makes sure the data directory matches the requested mode:
// empty when creating, holding a database when opening.
func (b *EmbeddedBackend) checkLayout(create bool) error {
	_, err := os.Stat(filepath.Join(b.dataDir, badger.ManifestFilename))
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return b.fail("open", "", err)
	}

	if create {
		if exists {
			return b.fail("create", "", fmt.Errorf("%w at %s", ErrAlreadyInitialized, b.dataDir))
		}
		if err := os.MkdirAll(b.dataDir, 0o750); err != nil {
			return b.fail("create", "", err)
		}
		return nil
	}
	if !exists {
		return b.fail("open", "", fmt.Errorf("%w at %s (append :%s to create it)", ErrNotInitialized, b.dataDir, ModifierInit))
	}
	return nil
}

func (b *EmbeddedBackend) createIndex() error {
	return b.update("create_index", "", func(txn *badger.Txn) error {
		return txn.Set(indexMetaKey(IndexName), []byte(clusterMode))
	})
}

func (b *EmbeddedBackend) checkIndex() error {
	return b.view("open", "", func(txn *badger.Txn) error {
		item, err := txn.Get(indexMetaKey(IndexName))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: index %q missing", ErrNotInitialized, IndexName)
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			if string(v) != clusterMode {
				return fmt.Errorf("index %q has value mode %q, want %q", IndexName, v, clusterMode)
			}
			return nil
		})
	})
}

// Name implements Backend.
func (b *EmbeddedBackend) Name() string { return b.schema }

// BaseDir returns the absolute normalization base directory.
func (b *EmbeddedBackend) BaseDir() string { return b.baseDir }

// DataDir returns the absolute database directory, empty when in memory.
func (b *EmbeddedBackend) DataDir() string { return b.dataDir }

// Key returns the storage key derived for path.
func (b *EmbeddedBackend) Key(path string) string {
	return pathnorm.RelativeTo(pathnorm.Absolute(path, b.cwd), b.baseDir)
}

// Tags implements Backend.
func (b *EmbeddedBackend) Tags(path string) (TagSet, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, b.fail("tags", path, ErrClosed)
	}

	prefix := rowPrefix(b.Key(path))
	tags := NewTagSet()
	err := b.view("tags", path, func(txn *badger.Txn) error {
		return scanPrefix(txn, prefix, func(k []byte) {
			tags.Add(string(k[len(prefix):]))
		})
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// SetTags implements Backend. All rows of the key are deleted and the
// new ones inserted in a single transaction.
func (b *EmbeddedBackend) SetTags(path string, tags TagSet) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return b.fail("set_tags", path, ErrClosed)
	}
	for t := range tags {
		if err := checkTag(t, string(keySep)); err != nil {
			return b.fail("set_tags", path, err)
		}
	}

	prefix := rowPrefix(b.Key(path))
	return b.update("set_tags", path, func(txn *badger.Txn) error {
		var stale [][]byte
		if err := scanPrefix(txn, prefix, func(k []byte) {
			stale = append(stale, k)
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		for t := range tags {
			if err := txn.Set(rowKey(prefix, t), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddTag implements TagAdder with a single-row transaction.
func (b *EmbeddedBackend) AddTag(path, tag string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false, b.fail("add_tag", path, ErrClosed)
	}
	if err := checkTag(tag, string(keySep)); err != nil {
		return false, b.fail("add_tag", path, err)
	}

	row := rowKey(rowPrefix(b.Key(path)), tag)
	added := false
	err := b.update("add_tag", path, func(txn *badger.Txn) error {
		_, err := txn.Get(row)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		added = true
		return txn.Set(row, nil)
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// DeleteTag implements TagDeleter with a single-row transaction.
func (b *EmbeddedBackend) DeleteTag(path, tag string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false, b.fail("delete_tag", path, ErrClosed)
	}

	row := rowKey(rowPrefix(b.Key(path)), tag)
	deleted := false
	err := b.update("delete_tag", path, func(txn *badger.Txn) error {
		_, err := txn.Get(row)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		deleted = true
		return txn.Delete(row)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Rows returns how many index rows are stored under the key of path.
func (b *EmbeddedBackend) Rows(path string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0, b.fail("rows", path, ErrClosed)
	}
	prefix := rowPrefix(b.Key(path))
	n := 0
	err := b.view("rows", path, func(txn *badger.Txn) error {
		return scanPrefix(txn, prefix, func([]byte) { n++ })
	})
	return n, err
}

// IndexStats summarizes the content of the index.
type IndexStats struct {
	Keys int `json:"keys"`
	Rows int `json:"rows"`
}

// Stats counts distinct keys and rows in the index.
func (b *EmbeddedBackend) Stats() (IndexStats, error) {
	var st IndexStats
	keys, err := b.keys()
	if err != nil {
		return st, err
	}
	st.Keys = len(keys)
	for _, n := range keys {
		st.Rows += n
	}
	return st, nil
}

// TaggedPaths implements PathLister. Paths are absolute, resolved
// against the normalization base, and sorted.
func (b *EmbeddedBackend) TaggedPaths() ([]string, error) {
	keys, err := b.keys()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(keys))
	for k := range keys {
		paths = append(paths, pathnorm.Join(b.baseDir, k))
	}
	sort.Strings(paths)
	return paths, nil
}

// keys maps every stored key to its row count.
func (b *EmbeddedBackend) keys() (map[string]int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, b.fail("keys", "", ErrClosed)
	}
	prefix := []byte(IndexName + "/")
	keys := make(map[string]int)
	err := b.view("keys", "", func(txn *badger.Txn) error {
		return scanPrefix(txn, prefix, func(k []byte) {
			rest := k[len(prefix):]
			if i := bytes.IndexByte(rest, keySep); i >= 0 {
				keys[string(rest[:i])]++
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Close closes the database. Calling it more than once is a no-op.
func (b *EmbeddedBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if err := b.db.Close(); err != nil {
		return b.fail("close", "", err)
	}
	return nil
}

// update runs fn in a read-write transaction and commits it. Nothing of
// fn's writes is visible unless the commit succeeds.
func (b *EmbeddedBackend) update(op, path string, fn func(txn *badger.Txn) error) error {
	txn := b.db.NewTransaction(true)
	defer txn.Discard()

	if err := fn(txn); err != nil {
		return b.fail(op, path, err)
	}
	if err := txn.Commit(); err != nil {
		return b.fail(op+".commit", path, err)
	}
	return nil
}

func (b *EmbeddedBackend) view(op, path string, fn func(txn *badger.Txn) error) error {
	if err := b.db.View(fn); err != nil {
		return b.fail(op, path, err)
	}
	return nil
}

func (b *EmbeddedBackend) fail(op, path string, err error) error {
	return &StorageError{Backend: b.schema, Op: op, Path: path, Err: err}
}

func indexMetaKey(name string) []byte {
	return append(append([]byte{}, metaPrefix...), name...)
}

func rowPrefix(key string) []byte {
	p := make([]byte, 0, len(IndexName)+len(key)+2)
	p = append(p, IndexName...)
	p = append(p, '/')
	p = append(p, key...)
	return append(p, keySep)
}

func rowKey(prefix []byte, tag string) []byte {
	k := make([]byte, 0, len(prefix)+len(tag))
	k = append(k, prefix...)
	return append(k, tag...)
}

// scanPrefix calls fn with a copy of every key starting with prefix.
func scanPrefix(txn *badger.Txn, prefix []byte, fn func(k []byte)) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		fn(it.Item().KeyCopy(nil))
	}
	return nil
}

// badgerLogger forwards BadgerDB's logger into slog. Informational
// chatter is demoted to debug.
type badgerLogger struct {
	l *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.l.Error("badger", "msg", strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.l.Warn("badger", "msg", strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.l.Debug("badger", "msg", strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.l.Debug("badger", "msg", strings.TrimSpace(fmt.Sprintf(format, args...)))
}
