package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"file-uploader/internal/domain/blob"
	"file-uploader/internal/domain/file"
	"file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
	"file-uploader/internal/infrastructure/mq"
)

// memStore is an owner-scoped in-memory folder and file repository.
type memStore struct {
	mu      sync.Mutex
	folders map[folder.ID]*folder.Folder
	files   map[file.ID]*file.File

	createFileErr error
	folderFetches int
}

func newMemStore() *memStore {
	return &memStore{
		folders: map[folder.ID]*folder.Folder{},
		files:   map[file.ID]*file.File{},
	}
}

func (m *memStore) CreateFolder(_ context.Context, ownerID user.ID, name string) (*folder.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	f := &folder.Folder{ID: uuid.New(), OwnerID: ownerID, Name: name, CreatedAt: now, UpdatedAt: now}
	m.folders[f.ID] = f
	cp := *f
	return &cp, nil
}

func (m *memStore) FetchFolders(_ context.Context, ownerID user.ID) (folder.Folders, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out folder.Folders
	for _, f := range m.folders {
		if f.OwnerID == ownerID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memStore) FetchFolder(_ context.Context, ownerID user.ID, id folder.ID) (*folder.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folderFetches++
	f, ok := m.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, folder.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memStore) RenameFolder(_ context.Context, ownerID user.ID, id folder.ID, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.folders[id]
	if !ok || f.OwnerID != ownerID {
		return false, nil
	}
	f.Name = name
	f.UpdatedAt = time.Now()
	return true, nil
}

func (m *memStore) DeleteFolder(_ context.Context, ownerID user.ID, id folder.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for fid, f := range m.files {
		if f.FolderID == id && f.OwnerID == ownerID {
			delete(m.files, fid)
		}
	}
	if f, ok := m.folders[id]; ok && f.OwnerID == ownerID {
		delete(m.folders, id)
	}
	return nil
}

func (m *memStore) CreateFile(_ context.Context, req *file.File) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFileErr != nil {
		return nil, m.createFileErr
	}
	fo, ok := m.folders[req.FolderID]
	if !ok || fo.OwnerID != req.OwnerID {
		return nil, folder.ErrNotFound
	}
	f := *req
	f.ID = uuid.New()
	f.CreatedAt, f.UpdatedAt = time.Now(), time.Now()
	m.files[f.ID] = &f
	fo.SizeBytes += f.SizeBytes
	cp := f
	return &cp, nil
}

func (m *memStore) FetchFiles(_ context.Context, ownerID user.ID, folderID folder.ID) (file.Files, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out file.Files
	for _, f := range m.files {
		if f.FolderID == folderID && f.OwnerID == ownerID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) FetchFile(_ context.Context, ownerID user.ID, id file.ID) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.OwnerID != ownerID {
		return nil, file.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memStore) DeleteFile(_ context.Context, ownerID user.ID, id file.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.OwnerID != ownerID {
		return file.ErrNotFound
	}
	delete(m.files, id)
	if fo, ok := m.folders[f.FolderID]; ok {
		fo.SizeBytes = max(fo.SizeBytes-f.SizeBytes, 0)
	}
	return nil
}

// memStorage is an in-memory ports.Storage.
type memStorage struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	puts      int
	removed   []string
	removeErr error
}

func newMemStorage() *memStorage { return &memStorage{blobs: map[string][]byte{}} }

func (s *memStorage) Put(_ context.Context, displayName string, r io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := blob.NewKey(displayName)
	s.blobs[key] = b
	s.puts++
	return key, nil
}

func (s *memStorage) Open(_ context.Context, storageKey, displayName string) (*blob.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[storageKey]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return &blob.Object{
		Body:               io.NopCloser(bytes.NewReader(b)),
		Size:               int64(len(b)),
		ContentDisposition: blob.ContentDisposition(displayName),
	}, nil
}

func (s *memStorage) URLFor(_ context.Context, storageKey, _ string, opts blob.URLOptions) (string, error) {
	if !opts.Signed {
		return "mem://" + storageKey, nil
	}
	return "mem://" + storageKey + "?ttl=" + opts.EffectiveTTL().String(), nil
}

func (s *memStorage) Remove(_ context.Context, storageKey, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, storageKey)
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.blobs, storageKey)
	return nil
}

type FakeFetcher struct {
	FetchFunc func(ctx context.Context, rawURL string) (*blob.Object, error)
}

func (f *FakeFetcher) Fetch(ctx context.Context, rawURL string) (*blob.Object, error) {
	if f.FetchFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FetchFunc(ctx, rawURL)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *recordingPublisher) Publish(e mq.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

type FakeUserRepository struct {
	FetchUserByIDFunc    func(ctx context.Context, id user.ID) (*user.User, error)
	FetchUserByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	CreateUserFunc       func(ctx context.Context, email, passwordHash string) (*user.User, error)
}

func (f *FakeUserRepository) FetchUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	if f.FetchUserByIDFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FetchUserByIDFunc(ctx, id)
}

func (f *FakeUserRepository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.FetchUserByEmailFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FetchUserByEmailFunc(ctx, email)
}

func (f *FakeUserRepository) CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error) {
	if f.CreateUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateUserFunc(ctx, email, passwordHash)
}
