package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vireo-dev/vireo/pkg/engine"
	"github.com/vireo-dev/vireo/pkg/template"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

func writeDemoBuffer(t *testing.T) string {
	t.Helper()

	reg := template.NewRegistry()
	tmplID := reg.Register(demoCounterTemplate())
	store := vnode.NewStore()
	ix := demoCounterVNode(store, tmplID, "Count: 0")
	alloc := vnode.NewAllocator()

	w := newDemoWriter()
	_, err := engine.Mount(w, alloc, reg, store, ix)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mount.bin")
	require.NoError(t, os.WriteFile(path, w.Bytes(), 0o644))
	return path
}

func TestRunReplayPrintsTree(t *testing.T) {
	path := writeDemoBuffer(t)
	err := runReplay(path, false)
	require.NoError(t, err)
}

func TestRunReplayMissingFile(t *testing.T) {
	err := runReplay(filepath.Join(t.TempDir(), "missing.bin"), false)
	require.Error(t, err)
}
