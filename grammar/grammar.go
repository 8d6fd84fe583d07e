// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Package grammar handles access to compiled FST grammars: resolving them by
// the fixed relative paths the pipeline selector uses, loading them once, and
// sharing the loaded read-only handles across concurrent normalize calls.
package grammar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rapidaai/wetext-go/fst"
	"github.com/rapidaai/wetext-go/pkg/commons"
)

// ErrNotFound reports a grammar file that does not exist.
var ErrNotFound = errors.New("grammar: not found")

// ErrLoad reports a grammar file that exists but cannot be parsed.
var ErrLoad = errors.New("grammar: load failed")

// Grammar is one loaded transducer together with its symbol table. Syms is
// nil for grammars labeled directly with Unicode code points.
type Grammar struct {
	T    fst.Transducer
	Syms *fst.SymbolTable
}

// Loader resolves a grammar path to a loaded Grammar. Implementations must
// return an error wrapping ErrNotFound for missing grammars and ErrLoad for
// malformed ones.
type Loader interface {
	Load(path string) (*Grammar, error)
}

// =============================================================================
// Bundle
// =============================================================================

// Bundle is a lazily populated, read-only set of grammars rooted at one
// directory. A loaded grammar is shared by every subsequent call; concurrent
// first loads of the same grammar are collapsed into one. Bundle is safe for
// concurrent use.
type Bundle struct {
	dir    string
	loader Loader
	logger commons.Logger

	mu    sync.RWMutex
	cache map[string]*Grammar
	group singleflight.Group
}

// NewBundle creates a bundle over dir using the given loader.
func NewBundle(dir string, loader Loader, logger commons.Logger) *Bundle {
	return &Bundle{
		dir:    dir,
		loader: loader,
		logger: logger,
		cache:  make(map[string]*Grammar),
	}
}

// Dir returns the grammar directory the bundle is rooted at.
func (b *Bundle) Dir() string { return b.dir }

// Get returns the grammar at the given path relative to the bundle root,
// loading it on first use.
func (b *Bundle) Get(rel string) (*Grammar, error) {
	b.mu.RLock()
	g, ok := b.cache[rel]
	b.mu.RUnlock()
	if ok {
		return g, nil
	}

	v, err, _ := b.group.Do(rel, func() (interface{}, error) {
		b.mu.RLock()
		g, ok := b.cache[rel]
		b.mu.RUnlock()
		if ok {
			return g, nil
		}
		loaded, err := b.loader.Load(filepath.Join(b.dir, rel))
		if err != nil {
			return nil, fmt.Errorf("grammar %q: %w", rel, err)
		}
		b.logger.Debugf("grammar: loaded %s", rel)
		b.mu.Lock()
		b.cache[rel] = loaded
		b.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Grammar), nil
}

// =============================================================================
// Loaders
// =============================================================================

// DirLoader reads grammars in OpenFST AT&T text format from the filesystem.
// For a grammar at path p, a symbol table is read from p with its extension
// replaced by ".sym" when such a file exists; otherwise the grammar is
// treated as code-point labeled.
type DirLoader struct{}

func (DirLoader) Load(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()

	t, err := fst.ReadText(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	g := &Grammar{T: t}
	symPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".sym"
	if sf, err := os.Open(symPath); err == nil {
		defer sf.Close()
		syms, err := fst.ReadSymbols(sf)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
		g.Syms = syms
	}
	return g, nil
}

// StaticLoader serves grammars from memory, keyed by the exact path passed to
// Load. Used by tests and by callers that compile grammars in-process.
type StaticLoader map[string]*Grammar

func (l StaticLoader) Load(path string) (*Grammar, error) {
	if g, ok := l[path]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}
