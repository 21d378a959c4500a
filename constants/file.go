package constants

import "strings"

// Sentinels. Unavailable marks a concept that does not apply or was not found;
// the *NotExtracted values mark a required field the extractor tried and failed on.
const (
	Unavailable             = "No disponible"
	LocationNotExtracted    = "No se pudo extraer la ubicación"
	DescriptionNotExtracted = "No se pudo extraer la descripción"
)

// MaxModelInputChars bounds the text prefix sent to the model.
const MaxModelInputChars = 8000

// AllowedExtensions holds the default document extensions picked up by ingestion.
var AllowedExtensions = map[string]struct{}{
	"txt":  {},
	"text": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
