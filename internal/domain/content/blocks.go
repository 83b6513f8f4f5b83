// Package content описывает структурированный документ автора и его проекцию в плоский текст.
package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

// BlockType тип блока редактора.
type BlockType string

const (
	BlockHeading1    BlockType = "heading1"
	BlockHeading2    BlockType = "heading2"
	BlockHeading3    BlockType = "heading3"
	BlockParagraph   BlockType = "paragraph"
	BlockImage       BlockType = "image"
	BlockVideo       BlockType = "video"
	BlockQuote       BlockType = "quote"
	BlockDivider     BlockType = "divider"
	BlockList        BlockType = "list"
	BlockOrderedList BlockType = "ordered-list"
)

// MaxBlocks ограничивает размер документа.
const MaxBlocks = 500

var videoHostPattern = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube\.com/(watch\?v=|embed/|shorts/)|youtu\.be/)[A-Za-z0-9_-]+`)

// Block один блок документа.
type Block struct {
	Type    BlockType `json:"type"`
	Content string    `json:"content,omitempty"`
	URL     string    `json:"url,omitempty"`
	Caption string    `json:"caption,omitempty"`
	Items   []string  `json:"items,omitempty"`
}

// Document упорядоченный список блоков. Хранится как JSONB и является источником истины,
// плоский текст всегда выводится из него заново.
type Document []Block

// Validate проверяет типы блоков.
func (d Document) Validate() error {
	if len(d) > MaxBlocks {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("документ не может содержать более %d блоков", MaxBlocks))
	}
	for i, b := range d {
		switch b.Type {
		case BlockHeading1, BlockHeading2, BlockHeading3, BlockParagraph, BlockImage,
			BlockVideo, BlockQuote, BlockDivider, BlockList, BlockOrderedList:
		default:
			return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("блок %d: неизвестный тип %q", i+1, b.Type))
		}
	}
	return nil
}

// Render сериализует блоки по порядку. Каждый блок заканчивается переводом строки,
// между блоками пустая строка. Обратного преобразования нет.
func (d Document) Render() string {
	parts := make([]string, 0, len(d))
	for _, b := range d {
		text := b.render()
		if text == "" {
			continue
		}
		parts = append(parts, text+"\n")
	}
	return strings.Join(parts, "\n")
}

func (b Block) render() string {
	switch b.Type {
	case BlockHeading1:
		return "# " + b.Content
	case BlockHeading2:
		return "## " + b.Content
	case BlockHeading3:
		return "### " + b.Content
	case BlockParagraph:
		return b.Content
	case BlockQuote:
		return "> " + b.Content
	case BlockDivider:
		return "---"
	case BlockImage:
		if b.URL == "" {
			return ""
		}
		return "![" + b.Caption + "](" + b.URL + ")"
	case BlockVideo:
		if b.URL == "" {
			return ""
		}
		return "[video](" + b.URL + ")"
	case BlockList:
		lines := make([]string, 0, len(b.Items))
		for _, item := range b.Items {
			lines = append(lines, "- "+item)
		}
		return strings.Join(lines, "\n")
	case BlockOrderedList:
		lines := make([]string, 0, len(b.Items))
		for i, item := range b.Items {
			lines = append(lines, strconv.Itoa(i+1)+". "+item)
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

// Images собирает URL всех image-блоков по порядку, пропуская пустые.
func (d Document) Images() []string {
	images := make([]string, 0)
	for _, b := range d {
		if b.Type == BlockImage && strings.TrimSpace(b.URL) != "" {
			images = append(images, b.URL)
		}
	}
	return images
}

// VideoURL возвращает URL первого video-блока, который указывает на YouTube.
func (d Document) VideoURL() *string {
	for _, b := range d {
		if b.Type != BlockVideo {
			continue
		}
		if videoHostPattern.MatchString(strings.TrimSpace(b.URL)) {
			url := strings.TrimSpace(b.URL)
			return &url
		}
	}
	return nil
}

// Value реализует driver.Valuer для колонки JSONB. Возвращает строку, так как []byte драйвер передаёт как bytea.
func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan реализует sql.Scanner для колонки JSONB.
func (d *Document) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = Document{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("content: неподдерживаемый тип %T", src)
	}
	return json.Unmarshal(raw, d)
}
