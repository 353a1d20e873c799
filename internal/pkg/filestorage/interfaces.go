package filestorage

// AvatarStorage keeps avatar files on a filesystem.
type AvatarStorage interface {
	// Save writes data under a fresh unique name with the given extension
	// and returns the path it was written to.
	Save(ext string, data []byte) (string, error)

	// Read returns the current contents of a file previously returned by Save.
	Read(path string) ([]byte, error)

	// Delete removes a file. A file that is already gone is not an error.
	Delete(path string) error
}
