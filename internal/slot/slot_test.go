package slot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseSlot runs the contract every backend must satisfy.
func exerciseSlot(t *testing.T, s Slot) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Read(ctx)
	require.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, s.Write(ctx, []byte(`[{"id":"A1"}]`)))
	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"A1"}]`, string(got))

	// overwrite is unconditional
	require.NoError(t, s.Write(ctx, []byte(`[]`)))
	got, err = s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestMemory(t *testing.T) {
	exerciseSlot(t, NewMemory())
}

func TestMemory_ReadReturnsCopy(t *testing.T) {
	m := NewMemoryWith([]byte("abc"))
	got, err := m.Read(context.Background())
	require.NoError(t, err)
	got[0] = 'x'

	again, _ := m.Read(context.Background())
	assert.Equal(t, "abc", string(again))
}

func TestMemory_FailWrites(t *testing.T) {
	m := NewMemoryWith([]byte("keep"))
	boom := errors.New("quota exceeded")
	m.FailWrites(boom)

	err := m.Write(context.Background(), []byte("new"))
	require.ErrorIs(t, err, boom)

	got, _ := m.Read(context.Background())
	assert.Equal(t, "keep", string(got))

	m.FailWrites(nil)
	require.NoError(t, m.Write(context.Background(), []byte("new")))
}

func TestFile(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "nested", "students.json"))
	require.NoError(t, err)
	exerciseSlot(t, f)
}

func TestFile_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "students.json"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.Write(context.Background(), []byte("[]")))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "olevel.db"), DefaultKey)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseSlot(t, s)
}

func TestSQLite_KeysAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "olevel.db")
	ctx := context.Background()

	a, err := NewSQLite(ctx, path, "a")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, a.Write(ctx, []byte("for a")))

	b, err := NewSQLite(ctx, path, "b")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	_, err = b.Read(ctx)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "olevel.db")
	ctx := context.Background()

	first, err := NewSQLite(ctx, path, DefaultKey)
	require.NoError(t, err)
	require.NoError(t, first.Write(ctx, []byte("saved")))
	require.NoError(t, first.Close())

	second, err := NewSQLite(ctx, path, DefaultKey)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "saved", string(got))
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("OLEVEL_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("OLEVEL_TEST_PG_DSN not set")
	}
	s, err := NewPostgres(context.Background(), dsn, "olevel_test_slot")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = s.DB().Exec(`DELETE FROM slots WHERE key = $1`, "olevel_test_slot")
		_ = s.Close()
	})
	exerciseSlot(t, s)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("OLEVEL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("OLEVEL_TEST_REDIS_ADDR not set")
	}
	r, err := NewRedis(context.Background(), RedisConfig{Addr: addr}, "olevel_test_slot")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.client.Del(context.Background(), "olevel_test_slot").Err()
		_ = r.Close()
	})
	exerciseSlot(t, r)
}

// fakeObjects is an in-memory objectAPI.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3(t *testing.T) {
	fake := &fakeObjects{objects: map[string][]byte{}}
	s := newS3WithClient(fake, "records", objectKey("backups", DefaultKey))
	exerciseSlot(t, s)

	assert.Equal(t, "backups/olevel_students.json", s.Key())
	assert.Contains(t, fake.objects, "records/backups/olevel_students.json")
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{}, DefaultKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket required")
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "olevel_students.json"},
		{"school", "school/olevel_students.json"},
		{"/school/", "school/olevel_students.json"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, objectKey(tt.prefix, DefaultKey))
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
	assert.NoError(t, Close(s))

	path := filepath.Join(t.TempDir(), "students.json")
	s, err = Open(ctx, Config{Path: path})
	require.NoError(t, err)
	require.IsType(t, &File{}, s)
	assert.Equal(t, path, s.(*File).Path())

	s, err = Open(ctx, Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	assert.NoError(t, Close(s))

	_, err = Open(ctx, Config{Driver: "floppy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown storage driver "floppy"`)
}
