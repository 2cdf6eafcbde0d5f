package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/tacticalsync/tacticalsync/internal/models"
)

func newTeamMock(t *testing.T) (*TeamRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTeamRepository(db), mock
}

func TestTeamCreateAddsCreatorAsAdmin(t *testing.T) {
	repo, mock := newTeamMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teams")).
		WithArgs("Platform", "PLT", int64(1), "code-123", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO team_members")).
		WithArgs(int64(5), int64(1), models.RoleAdmin, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), models.Team{
		Name:            "Platform",
		AbbreviatedName: "PLT",
		CreatedBy:       1,
		InviteCode:      "code-123",
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamCreateRollsBackOnMembershipFailure(t *testing.T) {
	repo, mock := newTeamMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teams")).
		WithArgs("Platform", "PLT", int64(1), "code-123", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO team_members")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), models.Team{
		Name:            "Platform",
		AbbreviatedName: "PLT",
		CreatedBy:       1,
		InviteCode:      "code-123",
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMemberRoleMapsMissingRow(t *testing.T) {
	repo, mock := newTeamMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT role FROM team_members WHERE team_id = ? AND user_id = ?")).
		WithArgs(int64(5), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	_, err := repo.GetMemberRole(context.Background(), 5, 9)
	require.ErrorIs(t, err, models.ErrNotMember)
	require.NoError(t, mock.ExpectationsWereMet())
}
