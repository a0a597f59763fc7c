package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/castkeeper/internal/client/models"
	"github.com/dmitrijs2005/castkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/castkeeper/internal/dbx"
)

const (
	keyToken = "session.token"
	keyUser  = "session.user"
)

// SQLitePersister stores the session as two rows of the metadata table.
// Writes go through a single transaction so a reader never sees a token
// from one session next to the user of another.
type SQLitePersister struct {
	db *sql.DB
}

func NewSQLitePersister(db *sql.DB) *SQLitePersister {
	return &SQLitePersister{db: db}
}

func (p *SQLitePersister) Load(ctx context.Context) (Session, error) {
	repo := metadata.NewSQLiteRepository(p.db)

	var rec record

	token, ok, err := repo.Get(ctx, keyToken)
	if err != nil {
		return Session{}, err
	}
	if ok {
		rec.Token = string(token)
	}

	raw, ok, err := repo.Get(ctx, keyUser)
	if err != nil {
		return Session{}, err
	}
	if ok {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return Session{}, fmt.Errorf("decode persisted user: %w", err)
		}
		rec.User = &u
	}

	return rec.session(), nil
}

func (p *SQLitePersister) Save(ctx context.Context, s Session) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		put := map[string][]byte{}
		var drop []string

		if s.Token != "" {
			put[keyToken] = []byte(s.Token)
		} else {
			drop = append(drop, keyToken)
		}

		if s.User != nil {
			b, err := json.Marshal(s.User)
			if err != nil {
				return fmt.Errorf("encode user: %w", err)
			}
			put[keyUser] = b
		} else {
			drop = append(drop, keyUser)
		}

		if err := repo.Put(ctx, put); err != nil {
			return err
		}
		return repo.Delete(ctx, drop...)
	})
}

func (p *SQLitePersister) Purge(ctx context.Context) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, keyToken, keyUser)
	})
}
