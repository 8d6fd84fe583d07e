// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package grammar

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidaai/wetext-go/fst"
	"github.com/rapidaai/wetext-go/pkg/commons"
)

// "1" -> "one", code-point labeled.
const toyGrammarText = `
0 1 49 111
1 2 0 110
2 3 0 101
3
`

// =============================================================================
// DirLoader
// =============================================================================

func TestDirLoaderLoadsGrammar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tagger.fst")
	require.NoError(t, os.WriteFile(path, []byte(toyGrammarText), 0o644))

	g, err := DirLoader{}.Load(path)
	require.NoError(t, err)
	require.NotNil(t, g.T)
	assert.Nil(t, g.Syms, "no sibling .sym file means code-point labels")

	out, err := fst.Rewrite(fst.NewEngine(), g.T, g.Syms, "1")
	require.NoError(t, err)
	assert.Equal(t, "one", out)
}

func TestDirLoaderReadsSiblingSymbols(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tagger.fst"), []byte(toyGrammarText), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tagger.sym"), []byte("<eps> 0\none 1\n"), 0o644))

	g, err := DirLoader{}.Load(filepath.Join(dir, "tagger.fst"))
	require.NoError(t, err)
	require.NotNil(t, g.Syms)

	l, ok := g.Syms.Find("one")
	require.True(t, ok)
	assert.Equal(t, fst.Label(1), l)
}

func TestDirLoaderMissingFile(t *testing.T) {
	_, err := DirLoader{}.Load(filepath.Join(t.TempDir(), "nope.fst"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirLoaderMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.fst")
	require.NoError(t, os.WriteFile(path, []byte("not an fst\n"), 0o644))

	_, err := DirLoader{}.Load(path)
	assert.ErrorIs(t, err, ErrLoad)
}

// =============================================================================
// Bundle
// =============================================================================

// countingLoader wraps another loader and counts Load calls.
type countingLoader struct {
	inner Loader
	calls atomic.Int64
}

func (l *countingLoader) Load(path string) (*Grammar, error) {
	l.calls.Add(1)
	return l.inner.Load(path)
}

func TestBundleLoadsLazilyAndCaches(t *testing.T) {
	loader := &countingLoader{inner: StaticLoader{
		"zh/tn/tagger.fst": {T: fst.NewVector()},
	}}
	b := NewBundle("", loader, commons.NewNopLogger())

	assert.EqualValues(t, 0, loader.calls.Load(), "nothing loads before first Get")

	g1, err := b.Get("zh/tn/tagger.fst")
	require.NoError(t, err)
	g2, err := b.Get("zh/tn/tagger.fst")
	require.NoError(t, err)

	assert.Same(t, g1, g2, "repeated Get returns the cached grammar")
	assert.EqualValues(t, 1, loader.calls.Load())
}

func TestBundleJoinsDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "zh", "tn")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "tagger.fst"), []byte(toyGrammarText), 0o644))

	b := NewBundle(dir, DirLoader{}, commons.NewNopLogger())

	g, err := b.Get("zh/tn/tagger.fst")
	require.NoError(t, err)
	assert.NotNil(t, g.T)
}

func TestBundleNotFoundPropagates(t *testing.T) {
	b := NewBundle("", StaticLoader{}, commons.NewNopLogger())

	_, err := b.Get("zh/tn/tagger.fst")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "zh/tn/tagger.fst")
}

func TestBundleConcurrentFirstLoad(t *testing.T) {
	loader := &countingLoader{inner: StaticLoader{
		"g.fst": {T: fst.NewVector()},
	}}
	b := NewBundle("", loader, commons.NewNopLogger())

	const n = 32
	var wg sync.WaitGroup
	grammars := make([]*Grammar, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := b.Get("g.fst")
			if assert.NoError(t, err) {
				grammars[i] = g
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, loader.calls.Load(), "concurrent first loads should collapse")
	for i := 1; i < n; i++ {
		assert.Same(t, grammars[0], grammars[i])
	}
}

func TestStaticLoaderUnknownPath(t *testing.T) {
	_, err := StaticLoader{}.Load("missing.fst")
	assert.ErrorIs(t, err, ErrNotFound)
}
