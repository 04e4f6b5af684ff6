package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSettingsStoreUpsertUsesOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewSettingsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "settings" .*'contact_phone'.*ON CONFLICT \(key\) DO UPDATE`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "settings" .*'contact_zalo'.*ON CONFLICT \(key\) DO UPDATE`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.UpsertSettings(context.Background(), map[string]string{
		"contact_zalo":  "0900000000",
		"contact_phone": "0900000001",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettingsStoreUpsertRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewSettingsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "settings"`).WillReturnError(errors.New("value too long"))
	mock.ExpectRollback()

	if err := store.UpsertSettings(context.Background(), map[string]string{"contact_phone": "x"}); err == nil {
		t.Fatal("expected an error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettingsStoreListSettings(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewSettingsStore(db)

	mock.ExpectQuery(`SELECT .* FROM "settings" AS "s" ORDER BY "key" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
			AddRow("contact_phone", "0900000001", time.Now()))

	rows, err := store.ListSettings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Value != "0900000001" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
