package knowledge

import (
	"context"
	"math"
	"sort"
)

// Passage 知识库中的一条片段
type Passage struct {
	ID      int
	BrandID string
	Content string
	Score   float64
}

// Index 向量知识库的查询接口
type Index interface {
	// TopK 按余弦相似度返回与查询向量最接近的 k 条片段
	TopK(ctx context.Context, vector []float64, k int) ([]Passage, error)
	// Add 写入一条片段及其向量
	Add(ctx context.Context, brandID, content string, vector []float64) (int, error)
}

// cosine 余弦相似度；维度不一致或零向量时返回 0
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// rank 对候选片段打分并截取前 k 条
func rank(passages []Passage, vectors [][]float64, query []float64, k int) []Passage {
	for i := range passages {
		passages[i].Score = cosine(query, vectors[i])
	}
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Score > passages[j].Score
	})
	if len(passages) > k {
		passages = passages[:k]
	}
	return passages
}
