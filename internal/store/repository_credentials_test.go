package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/models"
)

func newTestCredentialRepo(t *testing.T) (*credentialRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &credentialRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestSaveCredential_Success(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()
	credential := models.Credential{
		UserID:           "user-1",
		AccessToken:      "access-sandbox-123",
		ItemID:           "item-abc",
		InstitutionLabel: "First Platypus Bank",
	}

	rows := sqlmock.NewRows([]string{"id"}).AddRow(7)

	mock.ExpectQuery("INSERT INTO credentials").
		WithArgs(credential.UserID, credential.AccessToken, credential.ItemID, credential.InstitutionLabel, sqlmock.AnyArg()).
		WillReturnRows(rows)

	saved, err := repo.Save(ctx, credential)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != 7 {
		t.Errorf("expected ID=7, got %d", saved.ID)
	}
	if saved.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped, got zero time")
	}
	if saved.AccessToken != credential.AccessToken {
		t.Errorf("expected access token %s, got %s", credential.AccessToken, saved.AccessToken)
	}
}

func TestSaveCredential_KeepsProvidedCreatedAt(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()
	createdAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	credential := models.Credential{
		UserID:      "user-1",
		AccessToken: "access-sandbox-123",
		ItemID:      "item-abc",
		CreatedAt:   createdAt,
	}

	rows := sqlmock.NewRows([]string{"id"}).AddRow(1)

	mock.ExpectQuery("INSERT INTO credentials").
		WithArgs(credential.UserID, credential.AccessToken, credential.ItemID, "", createdAt).
		WillReturnRows(rows)

	saved, err := repo.Save(ctx, credential)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !saved.CreatedAt.Equal(createdAt) {
		t.Errorf("expected CreatedAt %v to be preserved, got %v", createdAt, saved.CreatedAt)
	}
}

func TestSaveCredential_RepeatedItemIDAppends(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()
	credential := models.Credential{UserID: "user-1", AccessToken: "access-sandbox-old", ItemID: "item-abc"}
	relinked := models.Credential{UserID: "user-1", AccessToken: "access-sandbox-new", ItemID: "item-abc"}

	mock.ExpectQuery("INSERT INTO credentials").
		WithArgs(credential.UserID, credential.AccessToken, credential.ItemID, "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO credentials").
		WithArgs(relinked.UserID, relinked.AccessToken, relinked.ItemID, "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	first, err := repo.Save(ctx, credential)
	if err != nil {
		t.Fatalf("unexpected error on first save: %v", err)
	}

	// relinking the same provider item appends a second row, it never fails
	second, err := repo.Save(ctx, relinked)
	if err != nil {
		t.Fatalf("unexpected error on repeated item_id: %v", err)
	}
	if second.ID == first.ID {
		t.Errorf("expected a fresh row, both saves returned ID=%d", first.ID)
	}
	if expErr := mock.ExpectationsWereMet(); expErr != nil {
		t.Errorf("unmet expectations: %v", expErr)
	}
}

func TestSaveCredential_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()
	credential := models.Credential{UserID: "user-1", AccessToken: "tok", ItemID: "item-abc"}

	mock.ExpectQuery("INSERT INTO credentials").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.Save(ctx, credential)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestSaveCredential_ScanError(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()
	credential := models.Credential{UserID: "user-1", AccessToken: "tok", ItemID: "item-abc"}

	rows := sqlmock.
		NewRows([]string{"id", "extra"}). // intentionally wrong shape → scan error
		AddRow(1, "x")

	mock.ExpectQuery("INSERT INTO credentials").
		WillReturnRows(rows)

	_, err := repo.Save(ctx, credential)
	if !errors.Is(err, ErrScanningRow) {
		t.Fatalf("expected ErrScanningRow, got %v", err)
	}
}

func TestListCredentialsForUser_Success(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows([]string{"id", "user_id", "access_token", "item_id", "institution_label", "created_at"}).
		AddRow(1, "user-1", "tok-1", "item-1", "First Platypus Bank", now).
		AddRow(2, "user-1", "tok-2", "item-2", "Tattersall Credit Union", now)

	mock.ExpectQuery("SELECT id, user_id, access_token, item_id, institution_label, created_at").
		WithArgs("user-1").
		WillReturnRows(rows)

	credentials, err := repo.ListForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(credentials) != 2 {
		t.Fatalf("expected 2 credentials, got %d", len(credentials))
	}
	if credentials[0].ID != 1 || credentials[1].ID != 2 {
		t.Errorf("expected creation order 1,2, got %d,%d", credentials[0].ID, credentials[1].ID)
	}
	if credentials[1].AccessToken != "tok-2" {
		t.Errorf("expected access token tok-2, got %s", credentials[1].AccessToken)
	}
}

func TestListCredentialsForUser_EmptyResult(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "user_id", "access_token", "item_id", "institution_label", "created_at"})

	mock.ExpectQuery("SELECT id, user_id, access_token, item_id, institution_label, created_at").
		WithArgs("user-without-links").
		WillReturnRows(rows)

	credentials, err := repo.ListForUser(ctx, "user-without-links")
	if err != nil {
		t.Fatalf("expected no error for empty ledger, got %v", err)
	}
	if credentials == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(credentials) != 0 {
		t.Errorf("expected 0 credentials, got %d", len(credentials))
	}
}

func TestListCredentialsForUser_QueryError(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, user_id, access_token, item_id, institution_label, created_at").
		WithArgs("user-1").
		WillReturnError(errors.New("db failure"))

	_, err := repo.ListForUser(ctx, "user-1")
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestListCredentialsForUser_ScanError(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id"}).AddRow(1)

	mock.ExpectQuery("SELECT id, user_id, access_token, item_id, institution_label, created_at").
		WithArgs("user-1").
		WillReturnRows(rows)

	_, err := repo.ListForUser(ctx, "user-1")
	if !errors.Is(err, ErrScanningRow) {
		t.Fatalf("expected ErrScanningRow, got %v", err)
	}
}

func TestListCredentialsForUser_RowsIterationError(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows([]string{"id", "user_id", "access_token", "item_id", "institution_label", "created_at"}).
		AddRow(1, "user-1", "tok-1", "item-1", "", now).
		AddRow(2, "user-1", "tok-2", "item-2", "", now).
		RowError(1, errors.New("row iteration error"))

	mock.ExpectQuery("SELECT id, user_id, access_token, item_id, institution_label, created_at").
		WithArgs("user-1").
		WillReturnRows(rows)

	_, err := repo.ListForUser(ctx, "user-1")
	if !errors.Is(err, ErrScanningRows) {
		t.Fatalf("expected ErrScanningRows, got %v", err)
	}
}

func TestListAllCredentials_Success(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows([]string{"id", "user_id", "access_token", "item_id", "institution_label", "created_at"}).
		AddRow(1, "user-1", "tok-1", "item-1", "", now).
		AddRow(2, "user-2", "tok-2", "item-2", "", now).
		AddRow(3, "user-1", "tok-3", "item-3", "", now)

	mock.ExpectQuery("SELECT id, user_id, access_token, item_id, institution_label, created_at").
		WillReturnRows(rows)

	credentials, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(credentials) != 3 {
		t.Fatalf("expected 3 credentials, got %d", len(credentials))
	}
	if credentials[1].UserID != "user-2" {
		t.Errorf("expected second credential to belong to user-2, got %s", credentials[1].UserID)
	}
}

func TestListAllCredentials_QueryError(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, user_id, access_token, item_id, institution_label, created_at").
		WillReturnError(errors.New("db failure"))

	_, err := repo.ListAll(ctx)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}
