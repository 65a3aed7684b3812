package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/auradesk/service-desk/internal/domain"
)

// KBFilter captures knowledge base listing parameters.
type KBFilter struct {
	Category *domain.TicketCategory
	Limit    int
	Offset   int
}

// KBRepository encapsulates knowledge base persistence.
type KBRepository interface {
	Create(ctx context.Context, article *domain.KBArticle) error
	GetByID(ctx context.Context, id string) (*domain.KBArticle, error)
	ListWithFilter(ctx context.Context, filter KBFilter) ([]domain.KBArticle, int, error)
	IncrementViews(ctx context.Context, id string) error
}

type kbRepository struct {
	pool *pgxpool.Pool
}

// NewKBRepository instantiates repository.
func NewKBRepository(pool *pgxpool.Pool) KBRepository {
	return &kbRepository{pool: pool}
}

const kbColumns = `id, title, content, category, tags, author, views, helpful_votes, unhelpful_votes, created_at, updated_at`

func (r *kbRepository) Create(ctx context.Context, article *domain.KBArticle) error {
	const query = `
        INSERT INTO kb_articles (title, content, category, tags, author)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Category,
		article.Tags,
		article.Author,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *kbRepository) GetByID(ctx context.Context, id string) (*domain.KBArticle, error) {
	query := fmt.Sprintf(`SELECT %s FROM kb_articles WHERE id=$1`, kbColumns)
	return scanArticle(r.pool.QueryRow(ctx, query, id))
}

func (r *kbRepository) ListWithFilter(ctx context.Context, filter KBFilter) ([]domain.KBArticle, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM kb_articles WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM kb_articles WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		kbColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.KBArticle
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *article)
	}
	return result, total, rows.Err()
}

func (r *kbRepository) IncrementViews(ctx context.Context, id string) error {
	const query = `UPDATE kb_articles SET views = views + 1, updated_at = NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanArticle(row pgx.Row) (*domain.KBArticle, error) {
	var article domain.KBArticle
	if err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Category,
		&article.Tags,
		&article.Author,
		&article.Views,
		&article.HelpfulVotes,
		&article.UnhelpfulVotes,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}
