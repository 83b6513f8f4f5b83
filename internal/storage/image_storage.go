package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// PublicPrefix префикс URL, по которому раздаются сохранённые изображения.
const PublicPrefix = "/media/"

var (
	ErrEmptyFile        = errors.New("файл не может быть пустым")
	ErrTooLarge         = errors.New("размер файла превышает лимит")
	ErrUnsupportedImage = errors.New("неподдерживаемый тип файла. Разрешены изображения JPEG, PNG, GIF и WebP")
)

// Разрешённые типы изображений по магическим байтам.
var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// StoredImage сохранённое изображение.
type StoredImage struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ImageStorage хранит изображения для обложек и блоков документа на локальном диске.
type ImageStorage struct {
	rootPath       string
	maxUploadBytes int64
	now            func() time.Time
}

// NewImageStorage создаёт файловое хранилище.
func NewImageStorage(rootPath string, maxUploadMB int64) (*ImageStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &ImageStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
		now:            time.Now,
	}, nil
}

// Root каталог хранилища.
func (s *ImageStorage) Root() string {
	return s.rootPath
}

// DetectImage определяет тип изображения по первым байтам.
func DetectImage(head []byte) (mime string, ext string, err error) {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "", "", ErrUnsupportedImage
	}
	ext, ok := allowedMimeTypes[kind.MIME.Value]
	if !ok {
		return "", "", ErrUnsupportedImage
	}
	return kind.MIME.Value, ext, nil
}

// Save проверяет тип файла и сохраняет его в каталог пользователя.
// Расширение берётся из реального типа, а не из имени файла.
func (s *ImageStorage) Save(ctx context.Context, userID uuid.UUID, r io.Reader) (*StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("storage: не удалось прочитать файл: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}

	mime, ext, err := DetectImage(head)
	if err != nil {
		return nil, err
	}

	userDir := filepath.Join(s.rootPath, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог пользователя: %w", err)
	}

	fileName := fmt.Sprintf("%d_%s%s", s.now().UnixNano(), uuid.NewString()[:8], ext)
	targetPath := filepath.Join(userDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, &io.LimitedReader{R: br, N: s.maxUploadBytes + 1})
	if err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}
	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("%w: %d байт", ErrTooLarge, s.maxUploadBytes)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return nil, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return &StoredImage{
		URL:         PublicPrefix + path.Join(userID.String(), fileName),
		ContentType: mime,
		Size:        written,
	}, nil
}

// Delete удаляет файл по его публичному URL.
func (s *ImageStorage) Delete(ctx context.Context, publicURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relative := strings.TrimPrefix(publicURL, PublicPrefix)
	if relative == publicURL || strings.Contains(relative, "..") {
		return fmt.Errorf("storage: некорректный путь %q", publicURL)
	}

	target := filepath.Join(s.rootPath, filepath.FromSlash(relative))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}
