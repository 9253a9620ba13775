package textract

import (
	"google.golang.org/api/option"

	"labtools/internal/config"
)

// MaxFileSizeBytes is the maximum file size for synchronous processing (20MB)
const MaxFileSizeBytes = 20 * 1024 * 1024

// googleClientOptions builds credential options for Google Cloud clients.
// Inline JSON takes precedence over a credentials file.
func googleClientOptions(cfg *config.Config) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.GoogleCredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.GoogleCredentialsJSON)))
	} else if cfg.GoogleCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}
	return opts
}

func mimeType(path string) string {
	switch Ext(path) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return "application/octet-stream"
}

func hasPDFHeader(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "%PDF"
}
