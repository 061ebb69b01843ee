package repository

import (
	"context"
	"regexp"
	"testing"

	"ripple/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestReportRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("files a new report", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReportRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "comment_reports"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comment_reports"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		created, err := repo.Create(ctx, &models.CommentReport{
			ReporterID: 1, PostID: 2, CommentID: 3, Reason: "spam",
		})
		assert.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("open duplicate absorbs the new report", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReportRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "comment_reports"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(9, "open"))

		created, err := repo.Create(ctx, &models.CommentReport{
			ReporterID: 1, PostID: 2, CommentID: 3, Reason: "spam",
		})
		assert.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
