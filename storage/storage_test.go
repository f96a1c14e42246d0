package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/dircloud/storage"
)

func TestStorageProviders(t *testing.T) {
	ctx := context.Background()
	dirstore, err := storage.NewDirectoryStore(filepath.Join(t.TempDir(), "reports"))
	require.NoError(t, err)

	cases := []struct {
		assertion string
		store     storage.Provider
	}{
		{"memory store", storage.NewMemStore()},
		{"directory store", dirstore},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			t.Run("put and get", func(t *testing.T) {
				require.NoError(t, c.store.Put(ctx, "du.txt", strings.NewReader("10\t/a\n")))
				rc, err := c.store.Get(ctx, "du.txt")
				require.NoError(t, err)
				defer rc.Close()
				data, err := io.ReadAll(rc)
				require.NoError(t, err)
				require.Equal(t, "10\t/a\n", string(data))
			})
			t.Run("overwrite", func(t *testing.T) {
				require.NoError(t, c.store.Put(ctx, "du2.txt", strings.NewReader("old")))
				require.NoError(t, c.store.Put(ctx, "du2.txt", strings.NewReader("new")))
				rc, err := c.store.Get(ctx, "du2.txt")
				require.NoError(t, err)
				defer rc.Close()
				data, err := io.ReadAll(rc)
				require.NoError(t, err)
				require.Equal(t, "new", string(data))
			})
			t.Run("list", func(t *testing.T) {
				ids, err := c.store.List(ctx)
				require.NoError(t, err)
				require.Equal(t, []string{"du.txt", "du2.txt"}, ids)
			})
			t.Run("get object that does not exist returns error", func(t *testing.T) {
				_, err := c.store.Get(ctx, "missing.txt")
				require.ErrorIs(t, err, storage.ErrObjectNotFound)
			})
			t.Run("modification time", func(t *testing.T) {
				first, err := c.store.ModTime(ctx, "du.txt")
				require.NoError(t, err)
				require.False(t, first.IsZero())
				_, err = c.store.ModTime(ctx, "missing.txt")
				require.ErrorIs(t, err, storage.ErrObjectNotFound)
			})
		})
	}
}

func TestDirectoryStoreRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := storage.NewDirectoryStore(root)
	require.NoError(t, err)
	for _, id := range []string{"", "../outside", "sub/dir.txt", "/etc/passwd"} {
		t.Run(id, func(t *testing.T) {
			require.ErrorIs(t, store.Put(ctx, id, strings.NewReader("x")), storage.ErrInvalidID)
			_, err := store.Get(ctx, id)
			require.ErrorIs(t, err, storage.ErrInvalidID)
		})
	}
	entries, err := os.ReadDir(filepath.Dir(root))
	require.NoError(t, err)
	for _, e := range entries {
		require.NotEqual(t, "outside", e.Name())
	}
}

func TestS3StoreNotFound(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	mc, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
		Region: "us-east-1",
	})
	require.NoError(t, err)
	store := storage.NewS3Store(mc, "reports", "du/")
	_, err = store.Get(ctx, "missing.txt")
	require.ErrorIs(t, err, storage.ErrObjectNotFound)
	_, err = store.ModTime(ctx, "missing.txt")
	require.ErrorIs(t, err, storage.ErrObjectNotFound)
}
