package relocate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(rel), 0o644))
	}
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(root, path)
			require.NoError(t, err)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

func TestRelocate(t *testing.T) {
	ctx := testContext(t)

	t.Run("moves_directory_with_contents", func(t *testing.T) {
		root := t.TempDir()
		oldPkg := filepath.Join(root, "src/main/java/com/blueisfresh/bootguard")
		newPkg := filepath.Join(root, "src/main/java/com/jdoe/myapp")
		writeTree(t, oldPkg, "BootguardApplication.java", "auth/JwtFilter.java", "config/SecurityConfig.java")
		before := listFiles(t, oldPkg)

		moved, err := Relocate(ctx, oldPkg, newPkg)
		require.NoError(t, err)
		assert.True(t, moved)

		assert.NoDirExists(t, oldPkg)
		assert.Equal(t, before, listFiles(t, newPkg), "relocated tree should hold exactly the original files")
	})

	t.Run("missing_source_is_noop", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "pom.xml")

		moved, err := Relocate(ctx, filepath.Join(root, "src/main/java/com/blueisfresh/bootguard"), filepath.Join(root, "src/main/java/com/jdoe/myapp"))
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, []string{"pom.xml"}, listFiles(t, root), "tree should be unchanged")
		assert.NoDirExists(t, filepath.Join(root, "src"), "no parents should be created")
	})

	t.Run("same_path_is_noop", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "pkg/A.java")

		moved, err := Relocate(ctx, filepath.Join(root, "pkg"), filepath.Join(root, "pkg/"))
		require.NoError(t, err)
		assert.False(t, moved)
		assert.FileExists(t, filepath.Join(root, "pkg/A.java"))
	})

	t.Run("existing_destination_fails", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "old/A.java", "new/B.java")

		moved, err := Relocate(ctx, filepath.Join(root, "old"), filepath.Join(root, "new"))
		require.ErrorIs(t, err, ErrDestinationExists)
		assert.False(t, moved)
		assert.Equal(t, []string{"new/B.java", "old/A.java"}, listFiles(t, root), "nothing should be clobbered")
	})

	t.Run("moves_single_file", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "a/Old.java")

		moved, err := Relocate(ctx, filepath.Join(root, "a/Old.java"), filepath.Join(root, "b/c/New.java"))
		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, []string{"b/c/New.java"}, listFiles(t, root))
	})

	t.Run("into_itself_fails", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "a/A.java")

		_, err := Relocate(ctx, filepath.Join(root, "a"), filepath.Join(root, "a/b"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "into itself")
	})
}

func TestPurge(t *testing.T) {
	ctx := testContext(t)

	t.Run("removes_tree", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "com/blueisfresh/bootguard/A.java", "com/jdoe/myapp/B.java")

		removed, err := Purge(ctx, filepath.Join(root, "com/blueisfresh"))
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, []string{"com/jdoe/myapp/B.java"}, listFiles(t, root))
	})

	t.Run("missing_path", func(t *testing.T) {
		removed, err := Purge(ctx, filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("uninspectable_path", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "pom.xml")

		removed, err := Purge(ctx, filepath.Join(root, "pom.xml/db"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inspecting")
		assert.False(t, removed)
		assert.FileExists(t, filepath.Join(root, "pom.xml"))
	})
}

func TestPruneEmptyParents(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	writeTree(t, root, "src/main/java/keep.txt")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src/main/java/com/blueisfresh"), 0o755))

	PruneEmptyParents(ctx, filepath.Join(root, "src/main/java/com/blueisfresh/bootguard"), root)

	assert.NoDirExists(t, filepath.Join(root, "src/main/java/com"))
	assert.DirExists(t, filepath.Join(root, "src/main/java"), "non-empty parents are kept")
}

func TestWithin(t *testing.T) {
	tests := []struct {
		path   string
		parent string
		want   bool
	}{
		{path: "/a/b/c", parent: "/a/b", want: true},
		{path: "/a/b", parent: "/a/b", want: true},
		{path: "/a/bc", parent: "/a/b", want: false},
		{path: "/a", parent: "/a/b", want: false},
		{path: "/a/..b", parent: "/a", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.path+"_in_"+tt.parent, func(t *testing.T) {
			assert.Equal(t, tt.want, Within(filepath.FromSlash(tt.path), filepath.FromSlash(tt.parent)))
		})
	}
}
