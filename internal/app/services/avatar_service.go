package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/yigit/hogwarts/internal/app/mappers"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/app/models/dto"
	"github.com/yigit/hogwarts/internal/app/repositories"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
	"github.com/yigit/hogwarts/internal/pkg/filestorage"
	"github.com/yigit/hogwarts/internal/pkg/helpers"
	"github.com/yigit/hogwarts/internal/pkg/lock"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// AvatarUpload is an uploaded image as received from the client.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AvatarContent is image bytes together with their media type.
type AvatarContent struct {
	Data      []byte
	MediaType string
}

// AvatarService defines the interface for avatar-related operations
type AvatarService interface {
	// Upload stores the image for a student, replacing the previous one.
	Upload(ctx context.Context, studentID int64, upload *AvatarUpload) (*models.Avatar, error)
	GetFromDB(ctx context.Context, id int64) (*AvatarContent, error)
	GetFromFS(ctx context.Context, id int64) (*AvatarContent, error)
	GetAllAvatars(ctx context.Context, page, size int) ([]*dto.AvatarResponse, error)
	Preview(ctx context.Context, id int64) (*AvatarContent, error)
}

type avatarServiceImpl struct {
	avatarRepo   AvatarStore
	storage      filestorage.AvatarStorage
	locker       lock.Locker
	mapper       *mappers.AvatarMapper
	previewWidth int
}

// NewAvatarService creates a new avatar service instance
func NewAvatarService(
	avatarRepo AvatarStore,
	storage filestorage.AvatarStorage,
	locker lock.Locker,
	mapper *mappers.AvatarMapper,
	previewWidth int,
) AvatarService {
	return &avatarServiceImpl{
		avatarRepo:   avatarRepo,
		storage:      storage,
		locker:       locker,
		mapper:       mapper,
		previewWidth: previewWidth,
	}
}

func uploadLockKey(studentID int64) string {
	return "avatar:student:" + strconv.FormatInt(studentID, 10)
}

func (s *avatarServiceImpl) Upload(ctx context.Context, studentID int64, upload *AvatarUpload) (*models.Avatar, error) {
	logger.Info().Int64("studentID", studentID).Msg("Was invoked method for uploading an Avatar")

	unlock, err := s.locker.Lock(ctx, uploadLockKey(studentID))
	if err != nil {
		return nil, fmt.Errorf("error acquiring avatar upload lock: %w", err)
	}
	defer unlock()

	mediaType := filestorage.ResolveMediaType(upload.ContentType, upload.Data)
	path, err := s.storage.Save(filestorage.ExtensionOf(upload.Filename), upload.Data)
	if err != nil {
		logger.Error().Err(err).Msg("There was a problem with writing the file")
		return nil, apperrors.NewProcessingError("write avatar file", err)
	}

	avatar, err := s.avatarRepo.GetByStudentID(ctx, studentID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		avatar = &models.Avatar{}
	case err != nil:
		s.discard(path)
		return nil, fmt.Errorf("error loading current avatar: %w", err)
	}
	oldPath := avatar.FilePath

	avatar.MediaType = mediaType
	avatar.FileSize = int64(len(upload.Data))
	avatar.Data = upload.Data
	avatar.FilePath = path
	avatar.StudentID = &studentID

	if err := s.avatarRepo.Save(ctx, avatar); err != nil {
		s.discard(path)
		if errors.Is(err, repositories.ErrAvatarOwnerMissing) {
			return nil, apperrors.NewStudentNotFound(studentID)
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("There was a problem with saving the Avatar")
		return nil, apperrors.NewProcessingError("save avatar", err)
	}

	// the row keeps its id, the old file goes only once the row points at the new one
	if oldPath != "" && oldPath != path {
		if err := s.storage.Delete(oldPath); err != nil {
			logger.Warn().Err(err).Str("path", oldPath).Msg("Could not delete the previous Avatar file")
		}
	}

	logger.Warn().Str("path", path).Int64("avatarID", avatar.ID).Msg("File for the Avatar was successfully saved")
	return avatar, nil
}

// discard removes a file written by a failed upload.
func (s *avatarServiceImpl) discard(path string) {
	if err := s.storage.Delete(path); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Could not remove the orphaned Avatar file")
	}
}

func (s *avatarServiceImpl) getAvatar(ctx context.Context, id int64) (*models.Avatar, error) {
	avatar, err := s.avatarRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Error().Int64("avatarID", id).Msg("Avatar was not found")
			return nil, apperrors.NewAvatarNotFound(id)
		}
		return nil, fmt.Errorf("error retrieving avatar: %w", err)
	}
	return avatar, nil
}

func (s *avatarServiceImpl) GetFromDB(ctx context.Context, id int64) (*AvatarContent, error) {
	logger.Info().Int64("avatarID", id).Msg("Was invoked method for getting file from Database for the Avatar")

	avatar, err := s.getAvatar(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AvatarContent{Data: avatar.Data, MediaType: avatar.MediaType}, nil
}

// GetFromFS reads the file at request time, so it fails if the file was removed.
func (s *avatarServiceImpl) GetFromFS(ctx context.Context, id int64) (*AvatarContent, error) {
	logger.Info().Int64("avatarID", id).Msg("Was invoked method for getting file from FileSystem for the Avatar")

	avatar, err := s.getAvatar(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.storage.Read(avatar.FilePath)
	if err != nil {
		logger.Error().Err(err).Str("path", avatar.FilePath).Msg("There was a problem with reading the file")
		return nil, apperrors.NewProcessingError("read avatar file", err)
	}
	return &AvatarContent{Data: data, MediaType: avatar.MediaType}, nil
}

func (s *avatarServiceImpl) GetAllAvatars(ctx context.Context, page, size int) ([]*dto.AvatarResponse, error) {
	logger.Info().Int("page", page).Int("size", size).Msg("Was invoked method for getting all the Avatars split by pages")

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	avatars, err := s.avatarRepo.FindPage(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error retrieving avatars: %w", err)
	}
	return s.mapper.ToResponses(avatars), nil
}

func (s *avatarServiceImpl) Preview(ctx context.Context, id int64) (*AvatarContent, error) {
	logger.Info().Int64("avatarID", id).Msg("Was invoked method for rendering an Avatar preview")

	avatar, err := s.getAvatar(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := filestorage.RenderPreview(avatar.Data, s.previewWidth)
	if err != nil {
		logger.Error().Err(err).Int64("avatarID", id).Msg("Avatar data is not a decodable image")
		return nil, apperrors.NewProcessingError("render avatar preview", err)
	}
	return &AvatarContent{Data: data, MediaType: filestorage.PreviewMediaType}, nil
}
