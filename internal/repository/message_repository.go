package repository

import (
	"context"
	"database/sql"

	"github.com/homelist/homelist-api/internal/model"
)

// MessageRepo persists buyer inquiries.
type MessageRepo struct{ db *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// Create inserts m and fills in its ID and creation time.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (message, home_id, buyer_id, realtor_id) VALUES (?,?,?,?)",
		m.Message, m.HomeID, m.BuyerID, m.RealtorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at FROM messages WHERE id = ?", m.ID).Scan(&m.CreatedAt)
}

// ListByHome returns every inquiry about a home, oldest first, with the
// buyer's contact details.
func (r *MessageRepo) ListByHome(ctx context.Context, homeID uint64) ([]model.Inquiry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.message, u.name, u.phone, u.email
		   FROM messages m JOIN users u ON u.id = m.buyer_id
		  WHERE m.home_id = ?
		  ORDER BY m.id`, homeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Inquiry, 0)
	for rows.Next() {
		var in model.Inquiry
		if err := rows.Scan(&in.Message, &in.Buyer.Name, &in.Buyer.Phone, &in.Buyer.Email); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
