// Package repository contains data access logic separated from HTTP handlers.
// This file holds the home listing queries together with the images that
// belong to each home.  Images have no life of their own: they are written
// with their home and removed before it.
package repository

import (
	"context"      // context carries deadlines to every query
	"database/sql" // sql provides generic database operations and drivers
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel" // squirrel builds the optional-filter queries

	"github.com/homelist/homelist-api/internal/model"
)

// HomeRepo encapsulates all database queries related to homes and images.
type HomeRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewHomeRepo constructs a HomeRepo with the provided DB handle.
func NewHomeRepo(db *sql.DB) *HomeRepo {
	return &HomeRepo{db: db}
}

const homeColumns = `h.id, h.address, h.city, h.price, h.land_size, h.property_type,
	h.number_of_bedrooms, h.number_of_bathrooms, h.realtor_id`

// firstImage picks the oldest image of each home for search results.
const firstImage = `(SELECT i.url FROM images i WHERE i.home_id = h.id ORDER BY i.id LIMIT 1) AS image`

// searchQuery renders the listing search for the filters that are present.
func searchQuery(f model.HomeFilter) (string, []interface{}, error) {
	qb := sq.Select(homeColumns, firstImage).From("homes h").OrderBy("h.id")
	if f.City != "" {
		qb = qb.Where(sq.Eq{"h.city": f.City})
	}
	if f.MinPrice != nil {
		qb = qb.Where(sq.GtOrEq{"h.price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		qb = qb.Where(sq.LtOrEq{"h.price": *f.MaxPrice})
	}
	if f.PropertyType != "" {
		qb = qb.Where(sq.Eq{"h.property_type": string(f.PropertyType)})
	}
	return qb.ToSql()
}

// Search returns listings matching every filter that is present.  Absent
// filters contribute no predicate at all, so an empty filter lists every
// home.
func (r *HomeRepo) Search(ctx context.Context, f model.HomeFilter) ([]model.HomeSummary, error) {
	query, args, err := searchQuery(f)
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.HomeSummary, 0)
	for rows.Next() {
		var (
			s     model.HomeSummary
			ptype string
			image sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Address, &s.City, &s.Price, &s.LandSize, &ptype,
			&s.NumberOfBedrooms, &s.NumberOfBathrooms, &s.RealtorID, &image); err != nil {
			return nil, err
		}
		s.PropertyType = model.PropertyType(ptype)
		s.Image = image.String
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one home row.  It returns ErrNotFound if no row exists.
func (r *HomeRepo) GetByID(ctx context.Context, id uint64) (model.Home, error) {
	var (
		h     model.Home
		ptype string
	)
	err := r.db.QueryRowContext(ctx, "SELECT "+homeColumns+" FROM homes h WHERE h.id = ?", id).
		Scan(&h.ID, &h.Address, &h.City, &h.Price, &h.LandSize, &ptype,
			&h.NumberOfBedrooms, &h.NumberOfBathrooms, &h.RealtorID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Home{}, ErrNotFound
	}
	if err != nil {
		return model.Home{}, err
	}
	h.PropertyType = model.PropertyType(ptype)
	return h, nil
}

// Images lists every image of a home ordered by id.
func (r *HomeRepo) Images(ctx context.Context, homeID uint64) ([]model.Image, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, url, home_id FROM images WHERE home_id = ? ORDER BY id", homeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Image, 0)
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.URL, &img.HomeID); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts the home and one image row per URL in a single
// transaction, so a failure never leaves a home without its images.  On
// success h.ID is populated and the stored images are returned.
func (r *HomeRepo) Create(ctx context.Context, h *model.Home, urls []string) (images []model.Image, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO homes (address, city, price, land_size, property_type,
		  number_of_bedrooms, number_of_bathrooms, realtor_id) VALUES (?,?,?,?,?,?,?,?)`,
		h.Address, h.City, h.Price, h.LandSize, string(h.PropertyType),
		h.NumberOfBedrooms, h.NumberOfBathrooms, h.RealtorID)
	if err != nil {
		return nil, fmt.Errorf("insert home: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	h.ID = uint64(id)

	images = make([]model.Image, 0, len(urls))
	if len(urls) > 0 {
		ib := sq.Insert("images").Columns("url", "home_id")
		for _, u := range urls {
			ib = ib.Values(u, h.ID)
		}
		query, args, buildErr := ib.ToSql()
		if buildErr != nil {
			err = fmt.Errorf("build image insert: %w", buildErr)
			return nil, err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("insert images: %w", err)
		}
		for _, u := range urls {
			images = append(images, model.Image{URL: u, HomeID: h.ID})
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return images, nil
}

// Update writes only the supplied fields.  Callers check existence first;
// MySQL reports zero affected rows for an update that changes nothing, so
// RowsAffected cannot tell "missing" from "unchanged".
func (r *HomeRepo) Update(ctx context.Context, id uint64, c model.HomeChanges) error {
	if c.Empty() {
		return nil
	}
	set := map[string]interface{}{}
	if c.Address != nil {
		set["address"] = *c.Address
	}
	if c.City != nil {
		set["city"] = *c.City
	}
	if c.Price != nil {
		set["price"] = *c.Price
	}
	if c.LandSize != nil {
		set["land_size"] = *c.LandSize
	}
	if c.PropertyType != nil {
		set["property_type"] = string(*c.PropertyType)
	}
	if c.NumberOfBedrooms != nil {
		set["number_of_bedrooms"] = *c.NumberOfBedrooms
	}
	if c.NumberOfBathrooms != nil {
		set["number_of_bathrooms"] = *c.NumberOfBathrooms
	}
	query, args, err := sq.Update("homes").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build home update: %w", err)
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// Delete removes a home together with its images and the inquiries made
// about it.  Children go first; the whole removal is one transaction.  A
// missing home yields ErrNotFound and nothing is deleted.
func (r *HomeRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var found uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM homes WHERE id = ? FOR UPDATE", id).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM images WHERE home_id = ?", id); err != nil {
		return fmt.Errorf("delete images: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM messages WHERE home_id = ?", id); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM homes WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete home: %w", err)
	}
	return tx.Commit()
}

// Realtor returns the contact details of the user owning the home.
func (r *HomeRepo) Realtor(ctx context.Context, homeID uint64) (model.Contact, error) {
	var c model.Contact
	err := r.db.QueryRowContext(ctx,
		`SELECT u.id, u.name, u.email, u.phone
		   FROM homes h JOIN users u ON u.id = h.realtor_id
		  WHERE h.id = ?`, homeID).Scan(&c.ID, &c.Name, &c.Email, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, err
	}
	return c, nil
}

// SetRealtor moves a home to another realtor.  Messages already written keep
// the realtor id they were created with.
func (r *HomeRepo) SetRealtor(ctx context.Context, homeID, realtorID uint64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE homes SET realtor_id = ? WHERE id = ?", realtorID, homeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// zero rows is ambiguous when the realtor is unchanged; confirm the row
		if _, err := r.GetByID(ctx, homeID); err != nil {
			return err
		}
	}
	return nil
}
