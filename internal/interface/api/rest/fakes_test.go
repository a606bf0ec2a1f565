package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"file-uploader/internal/application/ports"
	"file-uploader/internal/domain/blob"
	"file-uploader/internal/domain/file"
	"file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
	jwtSvc "file-uploader/internal/infrastructure/jwt"
	"file-uploader/internal/interface/api/rest/middleware"
)

const testSecret = "test-secret"

var errNotUsed = errors.New("not used")

type FakeUserService struct {
	FindUserByIDFunc func(ctx context.Context, id user.ID) (*user.User, error)
	FindByEmailFunc  func(ctx context.Context, email string) (*user.User, error)
	SignupFunc       func(ctx context.Context, email, password string) (*user.User, error)
}

func (f *FakeUserService) FindUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	if f.FindUserByIDFunc == nil {
		return nil, errNotUsed
	}
	return f.FindUserByIDFunc(ctx, id)
}
func (f *FakeUserService) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.FindByEmailFunc == nil {
		return nil, errNotUsed
	}
	return f.FindByEmailFunc(ctx, email)
}
func (f *FakeUserService) Signup(ctx context.Context, email, password string) (*user.User, error) {
	if f.SignupFunc == nil {
		return nil, errNotUsed
	}
	return f.SignupFunc(ctx, email, password)
}

type FakeAuthService struct {
	HashPasswordFunc  func(password string) (string, error)
	GenerateTokenFunc func(u *user.User, password string) (string, error)
}

func (f *FakeAuthService) HashPassword(password string) (string, error) {
	if f.HashPasswordFunc == nil {
		return "", errNotUsed
	}
	return f.HashPasswordFunc(password)
}
func (f *FakeAuthService) GenerateToken(u *user.User, password string) (string, error) {
	if f.GenerateTokenFunc == nil {
		return "", errNotUsed
	}
	return f.GenerateTokenFunc(u, password)
}

type FakeFolderService struct {
	CreateFolderFunc func(ctx context.Context, ownerID user.ID, name string) (*folder.Folder, error)
	FindFoldersFunc  func(ctx context.Context, ownerID user.ID) (folder.Folders, error)
	FindFolderFunc   func(ctx context.Context, ownerID user.ID, id folder.ID) (*folder.Folder, error)
	RenameFolderFunc func(ctx context.Context, ownerID user.ID, id folder.ID, name string) error
	DeleteFolderFunc func(ctx context.Context, ownerID user.ID, id folder.ID) error
}

func (f *FakeFolderService) CreateFolder(ctx context.Context, ownerID user.ID, name string) (*folder.Folder, error) {
	if f.CreateFolderFunc == nil {
		return nil, errNotUsed
	}
	return f.CreateFolderFunc(ctx, ownerID, name)
}
func (f *FakeFolderService) FindFolders(ctx context.Context, ownerID user.ID) (folder.Folders, error) {
	if f.FindFoldersFunc == nil {
		return nil, errNotUsed
	}
	return f.FindFoldersFunc(ctx, ownerID)
}
func (f *FakeFolderService) FindFolder(ctx context.Context, ownerID user.ID, id folder.ID) (*folder.Folder, error) {
	if f.FindFolderFunc == nil {
		return nil, errNotUsed
	}
	return f.FindFolderFunc(ctx, ownerID, id)
}
func (f *FakeFolderService) RenameFolder(ctx context.Context, ownerID user.ID, id folder.ID, name string) error {
	if f.RenameFolderFunc == nil {
		return errNotUsed
	}
	return f.RenameFolderFunc(ctx, ownerID, id, name)
}
func (f *FakeFolderService) DeleteFolder(ctx context.Context, ownerID user.ID, id folder.ID) error {
	if f.DeleteFolderFunc == nil {
		return errNotUsed
	}
	return f.DeleteFolderFunc(ctx, ownerID, id)
}

type FakeFileService struct {
	UploadFileFunc   func(ctx context.Context, ownerID user.ID, folderID folder.ID, in ports.UploadInput) (*file.File, error)
	FindFilesFunc    func(ctx context.Context, ownerID user.ID, folderID folder.ID) (file.Files, error)
	DeleteFileFunc   func(ctx context.Context, ownerID user.ID, id file.ID) (*file.File, error)
	DownloadFileFunc func(ctx context.Context, ownerID user.ID, id file.ID) (*ports.Download, error)
	SignedURLFunc    func(ctx context.Context, ownerID user.ID, id file.ID) (string, error)
}

func (f *FakeFileService) UploadFile(ctx context.Context, ownerID user.ID, folderID folder.ID, in ports.UploadInput) (*file.File, error) {
	if f.UploadFileFunc == nil {
		return nil, errNotUsed
	}
	return f.UploadFileFunc(ctx, ownerID, folderID, in)
}
func (f *FakeFileService) FindFiles(ctx context.Context, ownerID user.ID, folderID folder.ID) (file.Files, error) {
	if f.FindFilesFunc == nil {
		return nil, errNotUsed
	}
	return f.FindFilesFunc(ctx, ownerID, folderID)
}
func (f *FakeFileService) DeleteFile(ctx context.Context, ownerID user.ID, id file.ID) (*file.File, error) {
	if f.DeleteFileFunc == nil {
		return nil, errNotUsed
	}
	return f.DeleteFileFunc(ctx, ownerID, id)
}
func (f *FakeFileService) DownloadFile(ctx context.Context, ownerID user.ID, id file.ID) (*ports.Download, error) {
	if f.DownloadFileFunc == nil {
		return nil, errNotUsed
	}
	return f.DownloadFileFunc(ctx, ownerID, id)
}
func (f *FakeFileService) SignedURL(ctx context.Context, ownerID user.ID, id file.ID) (string, error) {
	if f.SignedURLFunc == nil {
		return "", errNotUsed
	}
	return f.SignedURLFunc(ctx, ownerID, id)
}

type FakeBlobServer struct {
	ResolveFunc func(token string) (string, string, error)
	OpenFunc    func(ctx context.Context, storageKey, displayName string) (*blob.Object, error)
}

func (f *FakeBlobServer) Resolve(token string) (string, string, error) {
	if f.ResolveFunc == nil {
		return "", "", errNotUsed
	}
	return f.ResolveFunc(token)
}
func (f *FakeBlobServer) Open(ctx context.Context, storageKey, displayName string) (*blob.Object, error) {
	if f.OpenFunc == nil {
		return nil, errNotUsed
	}
	return f.OpenFunc(ctx, storageKey, displayName)
}

// setupRouter mirrors the production middleware chain minus logging.
func setupRouter(t *testing.T) (*gin.Engine, *jwtSvc.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	require.NoError(t, LoadTemplates(r))

	j := jwtSvc.New(testSecret)
	r.Use(middleware.Session(j))

	return r, j
}

func sessionCookie(t *testing.T, j *jwtSvc.Service, userID uuid.UUID) *http.Cookie {
	t.Helper()

	tok, err := j.GenerateJWT(userID.String(), "owner@example.com", time.Hour)
	require.NoError(t, err)

	return &http.Cookie{Name: middleware.SessionCookie, Value: tok}
}

func serve(r http.Handler, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	middleware.MethodOverride(r).ServeHTTP(rr, req)
	return rr
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
