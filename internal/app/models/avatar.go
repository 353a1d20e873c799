package models

// Avatar is a student's uploaded image. The bytes live both on disk (FilePath)
// and in the database (Data).
type Avatar struct {
	ID        int64  `json:"id" db:"id"`
	FilePath  string `json:"filePath" db:"file_path"`
	FileSize  int64  `json:"fileSize" db:"file_size"`
	MediaType string `json:"mediaType" db:"media_type"`
	Data      []byte `json:"-" db:"data"`
	// StudentID is nil once the owning student has been deleted.
	StudentID *int64 `json:"studentId,omitempty" db:"student_id"`
}
