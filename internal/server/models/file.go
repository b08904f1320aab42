package models

// File entity types.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// ValidType reports whether t is one of the accepted entity types.
func ValidType(t string) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

// File describes a stored entity: a folder, or a file/image whose bytes live
// in the blob store.
type File struct {
	ID ID
	// UserID is the owner. Set at creation, immutable afterwards.
	UserID ID
	Name   string
	Type   string
	// IsPublic controls whether content can be read without authentication.
	IsPublic bool
	// ParentID references a folder entity, or 0 for the root.
	ParentID ID
	// LocalPath is the blob key inside the configured store. Empty for
	// folders. Only the key is stored; it is resolved against the store
	// root at read time.
	LocalPath string
}

// IsFolder reports whether the entity is a folder.
func (f *File) IsFolder() bool {
	return f.Type == TypeFolder
}
