package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/config"
)

// ErrNotFound 资产不存在
var ErrNotFound = errors.New("asset not found")

// Store 二进制资产存储抽象。Put 返回可对外访问的持久 URL，
// 失败时原样抛错，由调用方决定回退策略。
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Get(ctx context.Context, key string) (data []byte, contentType string, err error)
}

// PGStore Postgres 实现的资产存储，图片字节直接入库。
// 资产经由 HTTP 层的 /assets/{key} 路由对外提供。
type PGStore struct {
	db            *sql.DB
	publicBaseURL string
}

var _ Store = (*PGStore)(nil)

// NewPGStore 建立数据库连接并初始化表结构
func NewPGStore(dbCfg config.DBConfig, storageCfg config.StorageConfig) (*PGStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS assets (
			key TEXT PRIMARY KEY,
			content_type TEXT NOT NULL,
			data BYTEA NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init assets table: %w", err)
	}

	return &PGStore{
		db:            db,
		publicBaseURL: strings.TrimRight(storageCfg.PublicBaseURL, "/"),
	}, nil
}

// Close 关闭数据库连接
func (s *PGStore) Close() error {
	return s.db.Close()
}

func (s *PGStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (key, content_type, data) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET content_type = $2, data = $3`,
		key, contentType, data)
	if err != nil {
		return "", err
	}
	return s.publicBaseURL + "/assets/" + key, nil
}

func (s *PGStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	var data []byte
	var contentType string
	err := s.db.QueryRowContext(ctx,
		`SELECT data, content_type FROM assets WHERE key = $1`, key).
		Scan(&data, &contentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return data, contentType, nil
}
