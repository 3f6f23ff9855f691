package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketchat/internal/domain"
)

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

// FindOrCreate relies on the unique index on (user_lo, user_hi): the insert
// is ON CONFLICT DO NOTHING, so two racing first-sends both land on the
// same row via the re-select. product_id sticks from whichever insert won.
func (r *ConversationRepo) FindOrCreate(ctx context.Context, a, b uuid.UUID, productID *uuid.UUID) (*domain.Conversation, error) {
	lo, hi := domain.CanonicalPair(a, b)

	insert := `
		INSERT INTO conversations (id, user_lo, user_hi, product_id, last_seq, created_at)
		VALUES ($1, $2, $3, $4, 0, $5)
		ON CONFLICT (user_lo, user_hi) DO NOTHING`
	if _, err := r.pool.Exec(ctx, insert, uuid.New(), lo, hi, productID, time.Now()); err != nil {
		return nil, fmt.Errorf("inserting conversation: %w", err)
	}

	query := `
		SELECT id, user_lo, user_hi, product_id, last_seq, created_at
		FROM conversations
		WHERE user_lo = $1 AND user_hi = $2`
	var conv domain.Conversation
	err := r.pool.QueryRow(ctx, query, lo, hi).Scan(
		&conv.ID, &conv.UserLo, &conv.UserHi, &conv.ProductID, &conv.LastSeq, &conv.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	return &conv, nil
}

// AppendMessage bumps the conversation's last_seq inside a transaction; the
// row lock taken by the UPDATE serializes appends per conversation, so seq
// is gapless and monotonic regardless of which end is sending.
func (r *ConversationRepo) AppendMessage(ctx context.Context, msg *domain.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning append tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`UPDATE conversations SET last_seq = last_seq + 1 WHERE id = $1 RETURNING last_seq`,
		msg.ConversationID,
	).Scan(&msg.Seq)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("conversation %s does not exist", msg.ConversationID)
	}
	if err != nil {
		return fmt.Errorf("assigning message seq: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, receiver_id, content, translated_content, product_id, seq, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		msg.ID, msg.ConversationID, msg.SenderID, msg.ReceiverID,
		msg.Content, msg.TranslatedContent, msg.ProductID, msg.Seq, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing append: %w", err)
	}
	return nil
}

func (r *ConversationRepo) ListMessages(ctx context.Context, a, b uuid.UUID) ([]domain.Message, error) {
	lo, hi := domain.CanonicalPair(a, b)

	query := `
		SELECT m.id, m.conversation_id, m.sender_id, m.receiver_id,
			m.content, m.translated_content, m.product_id, m.seq, m.created_at
		FROM messages m
		JOIN conversations c ON m.conversation_id = c.id
		WHERE c.user_lo = $1 AND c.user_hi = $2
		ORDER BY m.seq ASC`

	rows, err := r.pool.Query(ctx, query, lo, hi)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.ReceiverID,
			&msg.Content, &msg.TranslatedContent, &msg.ProductID, &msg.Seq, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *ConversationRepo) ListPartners(ctx context.Context, userID uuid.UUID) ([]domain.ChatPartner, error) {
	query := `
		SELECT u.id, u.display_name, u.role, u.language
		FROM conversations c
		JOIN users u ON u.id = CASE WHEN c.user_lo = $1 THEN c.user_hi ELSE c.user_lo END
		WHERE c.user_lo = $1 OR c.user_hi = $1
		ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partners := []domain.ChatPartner{}
	for rows.Next() {
		var p domain.ChatPartner
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.Role, &p.Language); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}
