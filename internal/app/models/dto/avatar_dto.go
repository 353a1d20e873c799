package dto

// AvatarResponse represents avatar metadata; the bytes are served by separate endpoints.
type AvatarResponse struct {
	ID        int64  `json:"id" example:"1"`
	FilePath  string `json:"filePath" example:"/var/avatars/0c6f3c1e.png"`
	FileSize  int64  `json:"fileSize" example:"20480"`
	MediaType string `json:"mediaType" example:"image/png"`
	StudentID *int64 `json:"studentId,omitempty" example:"1"`
	AvatarURL string `json:"avatarUrl" example:"http://localhost:8080/avatar/1/avatarFromDb"`
}

