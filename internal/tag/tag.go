// Package tag writes track metadata and cover art into downloaded audio
// files. Only MP3 carries ID3 frames; other formats are left untagged.
package tag

import (
	"log/slog"
	"path/filepath"
	"strings"

	id3v2 "github.com/bogem/id3v2/v2"

	"musicgenie/internal/logging"
	"musicgenie/internal/metadata"
	"musicgenie/internal/services"
)

// Embedder writes metadata into an audio file on disk.
type Embedder interface {
	Embed(path string, track *metadata.Track, art []byte) error
}

// ID3Embedder writes ID3v2.4 frames into MP3 files.
type ID3Embedder struct {
	logger *slog.Logger
}

// NewID3Embedder builds the default embedder.
func NewID3Embedder(logger *slog.Logger) *ID3Embedder {
	return &ID3Embedder{logger: logging.WithComponent(logger, "tag")}
}

// Embed implements Embedder. Non-MP3 files are skipped with a log line
// rather than an error so acquisitions in other formats still succeed.
func (e *ID3Embedder) Embed(path string, track *metadata.Track, art []byte) error {
	if track == nil {
		return nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		e.logger.Info("skipping tag embed for non-mp3 file", "path", path)
		return nil
	}

	file, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "tag", "embed", "open audio file for tagging", err)
	}
	defer file.Close()

	file.SetDefaultEncoding(id3v2.EncodingUTF8)
	if track.Title != "" {
		file.SetTitle(track.Title)
	}
	if track.Artist != "" {
		file.SetArtist(track.Artist)
	}
	if track.Album != "" {
		file.SetAlbum(track.Album)
	}
	if track.Year != "" {
		file.SetYear(track.Year)
	}

	if len(art) > 0 {
		file.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    detectImageMime(art),
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     art,
		})
	}

	if err := file.Save(); err != nil {
		return services.Wrap(services.ErrFilesystem, "tag", "embed", "write tags", err)
	}
	e.logger.Debug("tags embedded", "path", path, "cover", len(art) > 0)
	return nil
}

func detectImageMime(data []byte) string {
	if len(data) >= 8 && string(data[1:4]) == "PNG" {
		return "image/png"
	}
	return "image/jpeg"
}
