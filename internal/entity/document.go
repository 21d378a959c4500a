package entity

// Document is one notice's plain text plus where it came from.
type Document struct {
	Source Source
	Path   string
	Text   string
	// ContentHash is the hex SHA-256 of the raw file.
	ContentHash string
}
