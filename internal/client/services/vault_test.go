package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/dropvault/internal/client/client"
	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	created   *client.CreatedVault
	createErr error

	confirms   []client.ConfirmResult
	confirmErr error

	contents  *client.VaultContents
	accessErr error

	verification *client.Verification
	verifyErr    error

	gotNames    []string
	gotDuration int
	gotPassword string
	gotToken    string
	confirmed   bool
}

func (f *fakeClient) CreateVault(ctx context.Context, fileNames []string, durationMinutes int, password string) (*client.CreatedVault, error) {
	f.gotNames = fileNames
	f.gotDuration = durationMinutes
	f.gotPassword = password
	return f.created, f.createErr
}

func (f *fakeClient) ConfirmUpload(ctx context.Context, code string) ([]client.ConfirmResult, error) {
	f.confirmed = true
	return f.confirms, f.confirmErr
}

func (f *fakeClient) AccessFiles(ctx context.Context, code, password, token string) (*client.VaultContents, error) {
	f.gotPassword = password
	f.gotToken = token
	return f.contents, f.accessErr
}

func (f *fakeClient) Verify(ctx context.Context, code, password string) (*client.Verification, error) {
	f.gotPassword = password
	return f.verification, f.verifyErr
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

// fakeStorage accepts presigned-style PUTs and serves the stored objects.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	srv     *httptest.Server
}

func newFakeStorage(t *testing.T) *fakeStorage {
	t.Helper()
	fs := &fakeStorage{objects: map[string][]byte{}}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			fs.objects[r.URL.Path] = body
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			data, ok := fs.objects[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write(data)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeStorage) url(objectName string) string {
	return fs.srv.URL + "/" + objectName
}

func (fs *fakeStorage) get(objectName string) []byte {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.objects["/"+objectName]
}

func (fs *fakeStorage) put(objectName string, data []byte) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.objects["/"+objectName] = data
}

func writeTempFiles(t *testing.T, files map[string][]byte) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o600))
		paths = append(paths, path)
	}
	return paths
}

func TestShare_Plain(t *testing.T) {
	storage := newFakeStorage(t)

	fc := &fakeClient{
		created: &client.CreatedVault{
			VaultCode: "AB12",
			UploadTasks: []client.UploadTask{
				{FileName: "a.txt", ObjectName: "uuid-a.txt", UploadURL: storage.url("uuid-a.txt")},
			},
		},
		confirms: []client.ConfirmResult{{FileName: "a.txt", Pending: false}},
	}

	paths := writeTempFiles(t, map[string][]byte{"a.txt": []byte("hello")})

	svc := NewVaultService(fc, http.DefaultClient, "downloads")
	res, err := svc.Share(context.Background(), paths, 30, "")
	require.NoError(t, err)

	assert.Equal(t, "AB12", res.VaultCode)
	assert.Equal(t, []string{"a.txt"}, fc.gotNames)
	assert.Equal(t, 30, fc.gotDuration)
	assert.True(t, fc.confirmed)
	require.Len(t, res.Files, 1)
	assert.NoError(t, res.Files[0].Err)

	// the object store holds the plaintext for an unprotected vault
	assert.Equal(t, []byte("hello"), storage.get("uuid-a.txt"))
}

func TestShare_Encrypted(t *testing.T) {
	storage := newFakeStorage(t)
	salt := cryptox.GenerateSalt()

	fc := &fakeClient{
		created: &client.CreatedVault{
			VaultCode:      "AB12",
			EncryptionSalt: salt,
			UploadTasks: []client.UploadTask{
				{FileName: "a.txt", ObjectName: "uuid-a.txt.encrypted", UploadURL: storage.url("uuid-a.txt.encrypted")},
			},
		},
		confirms: []client.ConfirmResult{{FileName: "a.txt", Pending: false}},
	}

	paths := writeTempFiles(t, map[string][]byte{"a.txt": []byte("top secret")})

	svc := NewVaultService(fc, http.DefaultClient, "downloads")
	_, err := svc.Share(context.Background(), paths, 30, "pw")
	require.NoError(t, err)

	stored := storage.get("uuid-a.txt.encrypted")
	require.NotEmpty(t, stored)
	assert.NotEqual(t, []byte("top secret"), stored)

	// round-trips with the key derived from the server-issued salt
	key := cryptox.DeriveKey([]byte("pw"), salt)
	plaintext, err := cryptox.DecryptFile(stored, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("top secret"), plaintext)
}

func TestShare_MissingLocalFile(t *testing.T) {
	svc := NewVaultService(&fakeClient{}, http.DefaultClient, "downloads")

	_, err := svc.Share(context.Background(), []string{"/does/not/exist.txt"}, 30, "")
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
}

func TestShare_NoFiles(t *testing.T) {
	svc := NewVaultService(&fakeClient{}, http.DefaultClient, "downloads")

	_, err := svc.Share(context.Background(), nil, 30, "")
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
}

func TestShare_AllUploadsFail(t *testing.T) {
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(rejecting.Close)

	fc := &fakeClient{
		created: &client.CreatedVault{
			VaultCode: "AB12",
			UploadTasks: []client.UploadTask{
				{FileName: "a.txt", ObjectName: "uuid-a.txt", UploadURL: rejecting.URL + "/uuid-a.txt"},
			},
		},
	}

	paths := writeTempFiles(t, map[string][]byte{"a.txt": []byte("hello")})

	svc := NewVaultService(fc, http.DefaultClient, "downloads")
	res, err := svc.Share(context.Background(), paths, 30, "")

	assert.ErrorIs(t, err, common.ErrorUpstream)
	require.NotNil(t, res)
	require.Len(t, res.Files, 1)
	assert.Error(t, res.Files[0].Err)
	assert.False(t, fc.confirmed)
}

func TestFetch_Plain(t *testing.T) {
	t.Chdir(t.TempDir())

	storage := newFakeStorage(t)
	storage.put("uuid-a.txt", []byte("hello"))

	fc := &fakeClient{
		verification: &client.Verification{OK: true},
		contents: &client.VaultContents{
			Files: []client.VaultFile{
				{FileName: "a.txt", ObjectName: "uuid-a.txt", URL: storage.url("uuid-a.txt")},
			},
		},
	}

	svc := NewVaultService(fc, http.DefaultClient, "downloads")
	res, err := svc.Fetch(context.Background(), "AB12", "")
	require.NoError(t, err)

	require.Len(t, res.Files, 1)
	require.NoError(t, res.Files[0].Err)

	data, err := os.ReadFile(res.Files[0].Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "a.txt", filepath.Base(res.Files[0].Path))
}

func TestFetch_EncryptedRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())

	salt := cryptox.GenerateSalt()
	key := cryptox.DeriveKey([]byte("pw"), salt)
	sealed, err := cryptox.EncryptFile([]byte("top secret"), key)
	require.NoError(t, err)

	storage := newFakeStorage(t)
	storage.put("uuid-a.txt.encrypted", sealed)

	fc := &fakeClient{
		verification: &client.Verification{OK: true, AccessToken: "tok"},
		contents: &client.VaultContents{
			Files: []client.VaultFile{
				{FileName: "a.txt", ObjectName: "uuid-a.txt.encrypted", URL: storage.url("uuid-a.txt.encrypted"), Encrypted: true},
			},
			Encrypted:      true,
			EncryptionSalt: salt,
		},
	}

	svc := NewVaultService(fc, http.DefaultClient, "downloads")
	res, err := svc.Fetch(context.Background(), "AB12", "pw")
	require.NoError(t, err)

	assert.Equal(t, "tok", fc.gotToken)
	require.Len(t, res.Files, 1)
	require.NoError(t, res.Files[0].Err)

	data, err := os.ReadFile(res.Files[0].Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("top secret"), data)
}

func TestFetch_WrongPasswordFailsDecryption(t *testing.T) {
	t.Chdir(t.TempDir())

	salt := cryptox.GenerateSalt()
	key := cryptox.DeriveKey([]byte("pw"), salt)
	sealed, err := cryptox.EncryptFile([]byte("top secret"), key)
	require.NoError(t, err)

	storage := newFakeStorage(t)
	storage.put("uuid-a.txt.encrypted", sealed)

	fc := &fakeClient{
		// a vault whose check passed upstream but whose envelope key is wrong
		verification: &client.Verification{OK: true},
		contents: &client.VaultContents{
			Files: []client.VaultFile{
				{FileName: "a.txt", ObjectName: "uuid-a.txt.encrypted", URL: storage.url("uuid-a.txt.encrypted"), Encrypted: true},
			},
			Encrypted:      true,
			EncryptionSalt: salt,
		},
	}

	svc := NewVaultService(fc, http.DefaultClient, "downloads")
	res, err := svc.Fetch(context.Background(), "AB12", "other")
	require.NoError(t, err)

	require.Len(t, res.Files, 1)
	assert.ErrorIs(t, res.Files[0].Err, common.ErrorDecryptionFailed)
	assert.Empty(t, res.Files[0].Path)
}

func TestFetch_PasswordRequired(t *testing.T) {
	fc := &fakeClient{verification: &client.Verification{OK: true, PasswordRequired: true}}

	svc := NewVaultService(fc, http.DefaultClient, "downloads")
	_, err := svc.Fetch(context.Background(), "AB12", "")
	assert.ErrorIs(t, err, common.ErrorPasswordRequired)
}

func TestFetch_WrongPasswordRejected(t *testing.T) {
	fc := &fakeClient{verification: &client.Verification{OK: false, PasswordRequired: true}}

	svc := NewVaultService(fc, http.DefaultClient, "downloads")
	_, err := svc.Fetch(context.Background(), "AB12", "wrong")
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestFetch_VerifyError(t *testing.T) {
	fc := &fakeClient{verifyErr: common.ErrorExpired}

	svc := NewVaultService(fc, http.DefaultClient, "downloads")
	_, err := svc.Fetch(context.Background(), "AB12", "")
	assert.ErrorIs(t, err, common.ErrorExpired)
}
