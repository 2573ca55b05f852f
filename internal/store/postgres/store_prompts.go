package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"inkwell-backend/internal/models"
	"inkwell-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const promptColumns = `id, user_id, title, type, content, description, examples, created_at, updated_at`

func scanPrompt(row pgx.Row) (*models.Prompt, error) {
	p := &models.Prompt{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Type,
		&p.Content,
		&p.Description,
		&p.Examples,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePrompt inserts a new prompt template record. Content arrives already
// encrypted by the service layer.
func (s *PostgresStore) CreatePrompt(ctx context.Context, arg store.CreatePromptParams) (*models.Prompt, error) {
	query := `
        INSERT INTO prompts (id, user_id, title, type, content, description, examples)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + promptColumns

	prompt, err := scanPrompt(s.db.QueryRow(ctx, query,
		arg.ID,
		arg.UserID,
		arg.Title,
		arg.Type,
		arg.Content,
		arg.Description, // pgx handles *string to NULL automatically
		arg.Examples,
	))
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreatePrompt: Failed to execute/scan insert for UserID %s: %v", arg.UserID, err)
		return nil, fmt.Errorf("database error creating prompt: %w", err)
	}

	log.Printf("[PostgresStore] CreatePrompt: Successfully inserted PromptID %s for UserID %s", prompt.ID, prompt.UserID)
	return prompt, nil
}

// GetPromptByID retrieves a prompt ensuring it belongs to the user.
func (s *PostgresStore) GetPromptByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Prompt, error) {
	query := `
        SELECT ` + promptColumns + `
        FROM prompts
        WHERE id = $1 AND user_id = $2`

	prompt, err := scanPrompt(s.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetPromptByID: Failed query/scan for ID %s, UserID %s: %v", id, userID, err)
		return nil, fmt.Errorf("database error fetching prompt: %w", err)
	}
	return prompt, nil
}

// ListPrompts lists a user's prompts, optionally filtered by type.
// Ordering by updated_at descending is a contract: the UI shows the most
// recently modified templates first.
func (s *PostgresStore) ListPrompts(ctx context.Context, userID uuid.UUID, promptType *string) ([]models.Prompt, error) {
	query := `
        SELECT ` + promptColumns + `
        FROM prompts
        WHERE user_id = $1`
	args := []interface{}{userID}

	if promptType != nil && *promptType != "" {
		query += ` AND type = $2`
		args = append(args, *promptType)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListPrompts: Failed query for UserID %s: %v", userID, err)
		return nil, fmt.Errorf("database error listing prompts: %w", err)
	}
	defer rows.Close()

	var items []models.Prompt
	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning prompt row: %w", err)
		}
		items = append(items, *prompt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prompt rows: %w", err)
	}

	return items, nil
}

// UpdatePrompt builds the query dynamically based on which fields are
// provided. updated_at is always refreshed.
func (s *PostgresStore) UpdatePrompt(ctx context.Context, arg store.UpdatePromptParams) (*models.Prompt, error) {
	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	if arg.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *arg.Title)
		argID++
	}
	if arg.Type != nil {
		setClauses = append(setClauses, fmt.Sprintf("type = $%d", argID))
		args = append(args, *arg.Type)
		argID++
	}
	if arg.Content != nil {
		setClauses = append(setClauses, fmt.Sprintf("content = $%d", argID))
		args = append(args, *arg.Content)
		argID++
	}
	if arg.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *arg.Description)
		argID++
	}
	if arg.Examples != nil {
		setClauses = append(setClauses, fmt.Sprintf("examples = $%d", argID))
		args = append(args, arg.Examples)
		argID++
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`
        UPDATE prompts
        SET %s
        WHERE id = $%d AND user_id = $%d
        RETURNING `+promptColumns,
		strings.Join(setClauses, ", "), argID, argID+1)
	args = append(args, arg.ID, arg.UserID)

	prompt, err := scanPrompt(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] UpdatePrompt: Failed exec/scan for ID %s, UserID %s: %v", arg.ID, arg.UserID, err)
		return nil, fmt.Errorf("database error updating prompt: %w", err)
	}

	log.Printf("[PostgresStore] UpdatePrompt: Successfully updated PromptID %s for UserID %s", prompt.ID, prompt.UserID)
	return prompt, nil
}

// DeletePrompt deletes a prompt by ID scoped to the user.
// Returns store.ErrNotFound when no row was removed so callers can decide
// how strictly to treat a repeated delete.
func (s *PostgresStore) DeletePrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query := `DELETE FROM prompts WHERE id = $1 AND user_id = $2`

	cmdTag, err := s.db.Exec(ctx, query, id, userID)
	if err != nil {
		log.Printf("ERROR [PostgresStore] DeletePrompt: Failed exec for ID %s, UserID %s: %v", id, userID, err)
		return fmt.Errorf("database error deleting prompt: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	log.Printf("[PostgresStore] DeletePrompt: Successfully deleted PromptID %s for UserID %s", id, userID)
	return nil
}
