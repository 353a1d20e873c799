package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/pkg/dberrors"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// ErrAvatarOwnerMissing is returned by Save when the owning student row does not exist.
var ErrAvatarOwnerMissing = errors.New("avatar owner does not exist")

const avatarStudentFK = "avatars_student_id_fkey"

var avatarMetaColumns = []string{"id", "file_path", "file_size", "media_type", "student_id"}

// AvatarRepository handles avatar database operations
type AvatarRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewAvatarRepository creates a new AvatarRepository
func NewAvatarRepository(db DBTX) *AvatarRepository {
	return &AvatarRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// GetByID retrieves an avatar including its binary data
func (r *AvatarRepository) GetByID(ctx context.Context, id int64) (*models.Avatar, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByStudentID retrieves the avatar owned by a student
func (r *AvatarRepository) GetByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error) {
	return r.getOne(ctx, squirrel.Eq{"student_id": studentID})
}

func (r *AvatarRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Avatar, error) {
	sql, args, err := r.sb.Select(append(avatarMetaColumns, "data")...).
		From("avatars").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get avatar query: %w", err)
	}

	avatar := &models.Avatar{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&avatar.ID, &avatar.FilePath, &avatar.FileSize, &avatar.MediaType, &avatar.StudentID, &avatar.Data,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning avatar row")
		return nil, fmt.Errorf("error getting avatar: %w", err)
	}

	return avatar, nil
}

// Save inserts the avatar, or updates the row already owned by the same
// student. The stored id is written back into avatar.
func (r *AvatarRepository) Save(ctx context.Context, avatar *models.Avatar) error {
	sql, args, err := r.sb.Insert("avatars").
		Columns("file_path", "file_size", "media_type", "data", "student_id").
		Values(avatar.FilePath, avatar.FileSize, avatar.MediaType, avatar.Data, avatar.StudentID).
		Suffix("ON CONFLICT (student_id) DO UPDATE SET " +
			"file_path = EXCLUDED.file_path, file_size = EXCLUDED.file_size, " +
			"media_type = EXCLUDED.media_type, data = EXCLUDED.data " +
			"RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save avatar query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err, avatarStudentFK) {
			return ErrAvatarOwnerMissing
		}
		logger.Error().Err(err).Msg("Error executing save avatar query")
		return fmt.Errorf("error saving avatar: %w", err)
	}

	avatar.ID = id
	return nil
}

// FindPage returns avatar metadata for one page ordered by id. Data is not loaded.
func (r *AvatarRepository) FindPage(ctx context.Context, offset, limit int) ([]*models.Avatar, error) {
	sql, args, err := r.sb.Select(avatarMetaColumns...).
		From("avatars").
		OrderBy("id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build avatar page query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing avatar page query")
		return nil, fmt.Errorf("error querying avatars: %w", err)
	}
	defer rows.Close()

	avatars := []*models.Avatar{}
	for rows.Next() {
		avatar := &models.Avatar{}
		if err := rows.Scan(&avatar.ID, &avatar.FilePath, &avatar.FileSize, &avatar.MediaType, &avatar.StudentID); err != nil {
			return nil, fmt.Errorf("error scanning avatar row: %w", err)
		}
		avatars = append(avatars, avatar)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating avatar rows: %w", err)
	}

	return avatars, nil
}
