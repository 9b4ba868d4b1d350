package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/config"
)

// PGIndex Postgres 实现的向量知识库。向量以 JSON 数组存储，
// 相似度在进程内计算，适用于千级以内的知识片段规模。
type PGIndex struct {
	db *sql.DB
}

var _ Index = (*PGIndex)(nil)

// NewPGIndex 建立数据库连接并初始化表结构
func NewPGIndex(cfg config.DBConfig) (*PGIndex, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS knowledge_passages (
			id SERIAL PRIMARY KEY,
			brand_id TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			embedding JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init knowledge_passages table: %w", err)
	}

	return &PGIndex{db: db}, nil
}

// Close 关闭数据库连接
func (s *PGIndex) Close() error {
	return s.db.Close()
}

func (s *PGIndex) Add(ctx context.Context, brandID, content string, vector []float64) (int, error) {
	data, err := json.Marshal(vector)
	if err != nil {
		return 0, fmt.Errorf("marshal embedding failed: %w", err)
	}
	var id int
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO knowledge_passages (brand_id, content, embedding) VALUES ($1, $2, $3) RETURNING id`,
		brandID, content, data).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PGIndex) TopK(ctx context.Context, vector []float64, k int) ([]Passage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, brand_id, content, embedding FROM knowledge_passages`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passages []Passage
	var vectors [][]float64
	for rows.Next() {
		var p Passage
		var raw []byte
		if err := rows.Scan(&p.ID, &p.BrandID, &p.Content, &raw); err != nil {
			return nil, err
		}
		var vec []float64
		if err := json.Unmarshal(raw, &vec); err != nil {
			continue
		}
		passages = append(passages, p)
		vectors = append(vectors, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rank(passages, vectors, vector, k), nil
}
