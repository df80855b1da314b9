package report

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for i := range countedTables {
		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(i + 1))
	}
	mock.ExpectQuery("SELECT current_status").
		WillReturnRows(sqlmock.NewRows([]string{"current_status", "count"}).
			AddRow("active", 3).
			AddRow("sold", 12))

	rep, err := Build(context.Background(), db)
	require.NoError(t, err)

	require.Len(t, rep.Tables, len(countedTables))
	assert.Equal(t, "Office", rep.Tables[0].Table)
	assert.Equal(t, int64(1), rep.Tables[0].Rows)

	require.Len(t, rep.Statuses, 2)
	assert.Equal(t, "sold", rep.Statuses[1].Status)
	assert.Equal(t, int64(12), rep.Statuses[1].Count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildCountError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnError(assert.AnError)

	_, err = Build(context.Background(), db)
	assert.Error(t, err)
}
