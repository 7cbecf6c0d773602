// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/cockroachdb/spatialindex/pkg/cli/clierror"
	"github.com/cockroachdb/spatialindex/pkg/cli/cliflags"
	"github.com/cockroachdb/spatialindex/pkg/cli/exit"
	"github.com/cockroachdb/spatialindex/pkg/rtree"
	"github.com/cockroachdb/spatialindex/pkg/util/log"
)

// indexFS is the filesystem used for lock files and existence checks.
var indexFS = vfs.Default

// indexFile is an index file opened by one of the commands. The file is
// locked for as long as it is open.
type indexFile struct {
	path string
	f    *os.File
	lock io.Closer
	tree *rtree.Tree
}

func lockPath(path string) string {
	return path + ".lock"
}

func lockIndex(path string) (io.Closer, error) {
	if err := indexFS.MkdirAll(indexFS.PathDir(path), 0755); err != nil {
		return nil, err
	}
	l, err := indexFS.Lock(lockPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "locking %s", path)
	}
	return l, nil
}

// createIndex creates an empty index file at path. The header occupies
// the start of the file and the root node follows it.
func createIndex(path string, ndims int, opts rtree.Options, force bool) (*indexFile, error) {
	if ndims < rtree.MinDims || ndims > rtree.MaxDims {
		return nil, usageError("--%s must be in [%d, %d]", cliflags.Dims.Name, rtree.MinDims, rtree.MaxDims)
	}
	if err := opts.EnsureDefaults().Validate(); err != nil {
		return nil, newFlagError(err)
	}
	if _, err := indexFS.Stat(path); err == nil {
		if !force {
			return nil, errors.WithHint(errors.Newf("index %s already exists", path),
				"Pass --force to overwrite it.")
		}
	} else if !oserror.IsNotExist(err) {
		return nil, err
	}
	lock, err := lockIndex(path)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		_ = lock.Close()
		return nil, err
	}
	idx := &indexFile{path: path, f: f, lock: lock}
	if idx.tree, err = rtree.NewFile(f, rtree.HeaderSize, ndims, opts); err != nil {
		idx.release()
		return nil, err
	}
	if err := idx.save(); err != nil {
		idx.close()
		return nil, err
	}
	return idx, nil
}

// openIndex opens the index file at path. A damaged file is reported
// with its own exit code.
func openIndex(path string) (*indexFile, error) {
	lock, err := lockIndex(path)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		_ = lock.Close()
		return nil, err
	}
	idx := &indexFile{path: path, f: f, lock: lock}
	h, err := rtree.ReadHeader(f)
	if err == nil {
		idx.tree, err = rtree.OpenFile(f, h, rtree.Options{})
	}
	if err != nil {
		idx.release()
		err = errors.Wrapf(err, "opening %s", path)
		if errors.Is(err, rtree.ErrCorrupt) {
			return nil, clierror.NewError(err, exit.CorruptIndex())
		}
		return nil, err
	}
	return idx, nil
}

// save writes the cached nodes and the header and syncs the file.
func (idx *indexFile) save() error {
	if err := idx.tree.Flush(); err != nil {
		return err
	}
	if err := rtree.WriteHeader(idx.f, idx.tree.Header()); err != nil {
		return err
	}
	return idx.f.Sync()
}

// close closes the tree without saving it.
func (idx *indexFile) close() {
	if idx.tree != nil {
		idx.tree.Close()
	}
	idx.release()
}

func (idx *indexFile) release() {
	if err := idx.f.Close(); err != nil {
		log.Warningf(context.Background(), "closing %s: %v", idx.path, err)
	}
	if err := idx.lock.Close(); err != nil {
		log.Warningf(context.Background(), "unlocking %s: %v", idx.path, err)
	}
}

// withIndex opens the index at path, runs fn and closes it again. If
// save is set the index is saved even when fn fails, so that the items
// added before the failure are kept, as long as the tree still passes
// its consistency check.
func withIndex(path string, save bool, fn func(idx *indexFile) error) error {
	idx, err := openIndex(path)
	if err != nil {
		return err
	}
	defer idx.close()
	err = fn(idx)
	if !save {
		return err
	}
	if err != nil {
		if checkErr := idx.tree.Check(); checkErr != nil {
			log.Warningf(context.Background(), "not saving %s: %v", path, checkErr)
			return err
		}
	}
	return errors.CombineErrors(err, idx.save())
}
