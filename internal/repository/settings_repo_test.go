package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"tank_control/internal/models"
	"tank_control/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSettingsSQLite_Save_UpsertsSingleRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettingsSQLite(db)

	params := models.DefaultControlParameters()
	params.SetpointC = 65

	isParamsJSON := sqlmockArgumentFunc(func(v driver.Value) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		var got models.ControlParameters
		if err := json.Unmarshal([]byte(s), &got); err != nil {
			return false
		}
		return got == params
	})
	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO control_settings")).
		WithArgs(1, isParamsJSON, isUTCRecent).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), params); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettingsSQLite_Load_NoRowReportsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettingsSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT params FROM control_settings")).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	_, found, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if found {
		t.Fatalf("Load() found=true for missing row")
	}
}

func TestSettingsSQLite_Load_RoundTrip(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettingsSQLite(db)

	want := models.DefaultControlParameters()
	want.PumpDelaySec = 90
	want.ManualOverride = true
	b, _ := json.Marshal(want)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT params FROM control_settings")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"params"}).AddRow(string(b)))

	got, found, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !found {
		t.Fatalf("Load() found=false")
	}
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func TestSettingsSQLite_Load_MalformedJSONIsAnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewSettingsSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT params FROM control_settings")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"params"}).AddRow("{broken"))

	if _, _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("Load() expected error for malformed params")
	}
}
