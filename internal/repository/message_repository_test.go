package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelist/homelist-api/internal/model"
)

func TestMessageCreate(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages (message, home_id, buyer_id, realtor_id)")).
		WithArgs("Is it still available?", uint64(5), uint64(2), uint64(7)).
		WillReturnResult(sqlmock.NewResult(30, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at FROM messages WHERE id = ?")).
		WithArgs(uint64(30)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	m := &model.Message{Message: "Is it still available?", HomeID: 5, BuyerID: 2, RealtorID: 7}
	require.NoError(t, NewMessageRepo(db).Create(context.Background(), m))
	assert.Equal(t, uint64(30), m.ID)
	assert.Equal(t, created, m.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageListByHome(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM messages m JOIN users u ON u.id = m.buyer_id")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"message", "name", "phone", "email"}).
			AddRow("hello", "Bob", "555-0199", "bob@example.com"))

	out, err := NewMessageRepo(db).ListByHome(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, model.Inquiry{
		Message: "hello",
		Buyer:   model.Contact{Name: "Bob", Phone: "555-0199", Email: "bob@example.com"},
	}, out[0])
}
