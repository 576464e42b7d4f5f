// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/starvault/models"
)

// PostgreSQL is the raw database/sql implementation of Database,
// selected with `database.driver: raw`.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS cards (
            id SERIAL PRIMARY KEY,
            owner VARCHAR(255) NOT NULL,
            card_id VARCHAR(255) NOT NULL,
            position INT NOT NULL DEFAULT 0,
            payload JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (owner, card_id)
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS profiles (
            id SERIAL PRIMARY KEY,
            owner VARCHAR(255) UNIQUE NOT NULL,
            data JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS settings (
            id SERIAL PRIMARY KEY,
            owner VARCHAR(255) NOT NULL,
            key VARCHAR(255) NOT NULL,
            value TEXT NOT NULL,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (owner, key)
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_cards_owner ON cards(owner);
        CREATE INDEX IF NOT EXISTS idx_settings_owner ON settings(owner);
    `)

	return err
}

func (p *PostgreSQL) SaveCard(owner string, card models.GameEvent, position int) error {
	payload, err := json.Marshal(card)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = p.db.ExecContext(ctx, `
        INSERT INTO cards (owner, card_id, position, payload)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (owner, card_id)
        DO UPDATE SET position = $3, payload = $4, updated_at = CURRENT_TIMESTAMP
    `, owner, card.ID, position, payload)
	return err
}

func (p *PostgreSQL) DeleteCard(owner, cardID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.db.ExecContext(ctx,
		`DELETE FROM cards WHERE owner = $1 AND card_id = $2`, owner, cardID)
	return err
}

func (p *PostgreSQL) ReplaceCards(owner string, cards []models.GameEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE owner = $1`, owner); err != nil {
		return err
	}
	for i, card := range cards {
		payload, err := json.Marshal(card)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO cards (owner, card_id, position, payload)
            VALUES ($1, $2, $3, $4)
        `, owner, card.ID, i, payload); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (p *PostgreSQL) LoadCards(owner string) ([]models.GameEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := p.db.QueryContext(ctx,
		`SELECT payload FROM cards WHERE owner = $1 ORDER BY position ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.GameEvent
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var card models.GameEvent
		if err := json.Unmarshal(payload, &card); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (p *PostgreSQL) SaveProfile(owner string, profile models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = p.db.ExecContext(ctx, `
        INSERT INTO profiles (owner, data)
        VALUES ($1, $2)
        ON CONFLICT (owner)
        DO UPDATE SET data = $2, updated_at = CURRENT_TIMESTAMP
    `, owner, data)
	return err
}

func (p *PostgreSQL) LoadProfile(owner string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var data []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT data FROM profiles WHERE owner = $1`, owner).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	} else if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *PostgreSQL) SetSetting(owner, key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.db.ExecContext(ctx, `
        INSERT INTO settings (owner, key, value)
        VALUES ($1, $2, $3)
        ON CONFLICT (owner, key)
        DO UPDATE SET value = $3, updated_at = CURRENT_TIMESTAMP
    `, owner, key, value)
	return err
}

func (p *PostgreSQL) GetSetting(owner, key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var value string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE owner = $1 AND key = $2`, owner, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRecordNotFound
	} else if err != nil {
		return "", err
	}
	return value, nil
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
