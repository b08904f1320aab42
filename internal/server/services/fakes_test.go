package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	filesrepo "github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	usersrepo "github.com/dmitrijs2005/filevault/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- in-memory users repository ---

type fakeUsersRepo struct {
	nextID models.ID
	byID   map[models.ID]*models.User

	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[models.ID]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	u.ID = f.nextID
	clone := *u
	f.byID[u.ID] = &clone
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id models.ID) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUsersRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

// --- in-memory files repository ---

type fakeFilesRepo struct {
	nextID models.ID
	byID   map[models.ID]*models.File

	createErr error
}

func newFakeFilesRepo() *fakeFilesRepo {
	return &fakeFilesRepo{byID: map[models.ID]*models.File{}}
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	file.ID = f.nextID
	clone := *file
	f.byID[file.ID] = &clone
	return file, nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, id models.ID) (*models.File, error) {
	file, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *file
	return &clone, nil
}

func (f *fakeFilesRepo) GetOwned(ctx context.Context, id, ownerID models.ID) (*models.File, error) {
	file, ok := f.byID[id]
	if !ok || file.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	clone := *file
	return &clone, nil
}

func (f *fakeFilesRepo) SelectPage(ctx context.Context, ownerID, parentID models.ID, skip, limit int) ([]*models.File, error) {
	var matched []*models.File
	for _, file := range f.byID {
		if file.UserID == ownerID && file.ParentID == parentID {
			clone := *file
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeFilesRepo) SetPublic(ctx context.Context, id, ownerID models.ID, value bool) error {
	file, ok := f.byID[id]
	if !ok || file.UserID != ownerID {
		return common.ErrorNotFound
	}
	file.IsPublic = value
	return nil
}

func (f *fakeFilesRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

// --- repository manager over the fakes ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeFilesRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }
func (m *fakeRepoManager) Files(db dbx.DBTX) filesrepo.Repository { return m.f }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

// --- blob store that always fails ---

type failingBlobStore struct {
	err error
}

func (s *failingBlobStore) Write(ctx context.Context, key string, data []byte) error {
	return s.err
}

func (s *failingBlobStore) Read(ctx context.Context, key string) ([]byte, error) {
	return nil, s.err
}

func (s *failingBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	return false, s.err
}
