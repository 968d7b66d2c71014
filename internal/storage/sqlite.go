package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/biblioteca/internal/models"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no row matches the requested id
var ErrNotFound = errors.New("item not found")

const schema = `CREATE TABLE IF NOT EXISTS Biblioteca (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	nome TEXT NOT NULL,
	vida INTEGER,
	classe VARCHAR(100),
	nivel INTEGER,
	ataque INTEGER,
	defesa FLOAT,
	ativo BOOLEAN,
	dataDeEntrada VARCHAR(100),
	desempenho FLOAT,
	descricao TEXT,
	melhorEquipe TEXT
)`

const (
	selectItems = `SELECT id, nome, vida, classe, nivel, ataque, defesa, ativo,
		dataDeEntrada, desempenho, descricao, melhorEquipe
		FROM Biblioteca`

	insertItem = `INSERT INTO Biblioteca (
		nome, vida, classe, nivel, ataque, defesa, ativo,
		dataDeEntrada, desempenho, descricao, melhorEquipe
	) VALUES (
		:nome, :vida, :classe, :nivel, :ataque, :defesa, :ativo,
		:dataDeEntrada, :desempenho, :descricao, :melhorEquipe
	)`

	updateItem = `UPDATE Biblioteca SET
		nome = :nome,
		vida = :vida,
		classe = :classe,
		nivel = :nivel,
		ataque = :ataque,
		defesa = :defesa,
		ativo = :ativo,
		dataDeEntrada = :dataDeEntrada,
		desempenho = :desempenho,
		descricao = :descricao,
		melhorEquipe = :melhorEquipe
		WHERE id = :id`
)

// Store handles all database operations
type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

// New opens the SQLite database at dbPath and makes sure the table exists.
// A failure to create the table is logged; the store is still returned.
func New(dbPath string, log *zap.Logger) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, log: log}
	log.Info("Connected to SQLite database", zap.String("path", dbPath))

	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Error("Failed to create Biblioteca table", zap.Error(err))
	} else {
		log.Info("Biblioteca table ready")
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database file is still reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the Biblioteca table if it does not exist
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// ListItems returns every row in storage order
func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	items := []models.Item{}
	if err := s.db.SelectContext(ctx, &items, selectItems); err != nil {
		s.log.Error("Failed to list items", zap.Error(err))
		return nil, err
	}
	return items, nil
}

// GetItem returns a single row by id
func (s *Store) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := s.db.GetContext(ctx, &item, selectItems+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.log.Error("Failed to get item", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a row and returns its new id
func (s *Store) CreateItem(ctx context.Context, in models.ItemInput) (int64, error) {
	res, err := s.db.NamedExecContext(ctx, insertItem, in)
	if err != nil {
		s.log.Error("Failed to create item", zap.String("nome", in.Name), zap.Error(err))
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	s.log.Debug("Item created", zap.Int64("id", id), zap.String("nome", in.Name))
	return id, nil
}

// UpdateItem overwrites every non-id column of the row and returns the
// number of rows changed. Zero means no row has that id.
func (s *Store) UpdateItem(ctx context.Context, id int64, in models.ItemInput) (int64, error) {
	res, err := s.db.NamedExecContext(ctx, updateItem, models.Item{ID: id, ItemInput: in})
	if err != nil {
		s.log.Error("Failed to update item", zap.Int64("id", id), zap.Error(err))
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteItem removes the row and returns the number of rows changed
func (s *Store) DeleteItem(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM Biblioteca WHERE id = ?`, id)
	if err != nil {
		s.log.Error("Failed to delete item", zap.Int64("id", id), zap.Error(err))
		return 0, err
	}
	return res.RowsAffected()
}

// BulkCreateItems inserts all items in a single transaction
func (s *Store) BulkCreateItems(ctx context.Context, items []models.ItemInput) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, insertItem)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.ExecContext(ctx, item); err != nil {
			return 0, fmt.Errorf("item %d (%s): %w", i, item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(items), nil
}
