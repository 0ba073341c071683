package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"caloriecam/api/internal/estimate"

	"github.com/google/uuid"
)

var ErrNotFound = sql.ErrNoRows

// MealRepo persists reviewed meals and their images in Postgres. The record
// itself is stored as JSON so the derived-estimation shape round-trips
// losslessly across schema-free edits.
type MealRepo struct{ DB *sql.DB }

func NewMealRepo(db *sql.DB) *MealRepo { return &MealRepo{DB: db} }

// Images are the preprocessed blobs that belong to one meal record.
type Images struct {
	Normalized []byte
	Thumb      []byte
	MIME       string
}

func (r *MealRepo) Init(ctx context.Context) error {
	const schema = `
create table if not exists meals (
    id          text primary key,
    created_at  timestamptz not null default now(),
    record_json jsonb not null
);
create table if not exists meal_images (
    id         text primary key references meals(id) on delete cascade,
    normalized bytea,
    thumb      bytea,
    mime       text not null default 'image/webp'
);
create index if not exists idx_meals_created_at on meals(created_at desc);
`
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init meals schema: %w", err)
	}
	return nil
}

// Save stores a record with its images in one transaction and returns the
// id, generating one when the record has none.
func (r *MealRepo) Save(ctx context.Context, rec estimate.MealRecord, imgs *Images) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().UnixMilli()
	}

	js, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal meal record: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const upsertMeal = `
insert into meals (id, created_at, record_json)
values ($1, $2, $3)
on conflict (id) do update set record_json = excluded.record_json`
	if _, err := tx.ExecContext(ctx, upsertMeal, rec.ID, time.UnixMilli(rec.CreatedAt), js); err != nil {
		return "", fmt.Errorf("insert meal: %w", err)
	}

	if imgs != nil {
		mime := imgs.MIME
		if mime == "" {
			mime = "image/webp"
		}
		const upsertImages = `
insert into meal_images (id, normalized, thumb, mime)
values ($1, $2, $3, $4)
on conflict (id) do update set normalized = excluded.normalized, thumb = excluded.thumb, mime = excluded.mime`
		if _, err := tx.ExecContext(ctx, upsertImages, rec.ID, imgs.Normalized, imgs.Thumb, mime); err != nil {
			return "", fmt.Errorf("insert meal images: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return rec.ID, nil
}

// Load returns the record and its images, or ErrNotFound.
func (r *MealRepo) Load(ctx context.Context, id string) (*estimate.MealRecord, *Images, error) {
	const q = `
select m.record_json, i.normalized, i.thumb, coalesce(i.mime, 'image/webp')
from meals m
left join meal_images i on i.id = m.id
where m.id = $1`
	var (
		js         []byte
		normalized []byte
		thumb      []byte
		mime       string
	)
	if err := r.DB.QueryRowContext(ctx, q, id).Scan(&js, &normalized, &thumb, &mime); err != nil {
		return nil, nil, err
	}
	var rec estimate.MealRecord
	if err := json.Unmarshal(js, &rec); err != nil {
		return nil, nil, fmt.Errorf("unmarshal meal record %s: %w", id, err)
	}
	var imgs *Images
	if normalized != nil || thumb != nil {
		imgs = &Images{Normalized: normalized, Thumb: thumb, MIME: mime}
	}
	return &rec, imgs, nil
}

func (r *MealRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `delete from meals where id = $1`, id); err != nil {
		return fmt.Errorf("delete meal %s: %w", id, err)
	}
	return nil
}

// List returns all records newest first. Rows with broken JSON are skipped
// rather than failing the whole listing.
func (r *MealRepo) List(ctx context.Context) ([]estimate.MealRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `select record_json from meals order by created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var out []estimate.MealRecord
	for rows.Next() {
		var js []byte
		if err := rows.Scan(&js); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		var rec estimate.MealRecord
		if err := json.Unmarshal(js, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *MealRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `select count(*) from meals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count meals: %w", err)
	}
	return n, nil
}

// DeleteOldest removes the n oldest records and returns their ids.
func (r *MealRepo) DeleteOldest(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	const q = `
delete from meals
where id in (select id from meals order by created_at asc limit $1)
returning id`
	rows, err := r.DB.QueryContext(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("delete oldest meals: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
