package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinListingTitleLength = 3
	MaxListingTitleLength = 200
	MaxCategoryLength     = 50
	MaxExternalLinkLength = 500
	MaxSearchLength       = 100
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateListingTitle проверяет название услуги или статьи.
func ValidateListingTitle(title string) error {
	if err := ValidateNonEmpty("название", title); err != nil {
		return err
	}
	return ValidateLength("название", strings.TrimSpace(title), MinListingTitleLength, MaxListingTitleLength)
}

// ValidateCategory проверяет категорию. Словари у услуг и статей разные,
// поэтому проверяется только длина.
func ValidateCategory(category string) error {
	return ValidateLength("категория", strings.TrimSpace(category), 0, MaxCategoryLength)
}

// ValidateSearch проверяет строку поиска.
func ValidateSearch(search string) error {
	return ValidateLength("строка поиска", search, 0, MaxSearchLength)
}

// ValidateExternalLink проверяет внешнюю ссылку.
func ValidateExternalLink(link *string) error {
	if link != nil && *link != "" {
		linkStr := strings.TrimSpace(*link)

		if err := ValidateLength("внешняя ссылка", linkStr, 0, MaxExternalLinkLength); err != nil {
			return err
		}

		// Относительные пути на собственное хранилище медиа тоже допустимы
		if strings.HasPrefix(linkStr, "/media/") {
			return nil
		}

		parsedURL, err := url.Parse(linkStr)
		if err != nil {
			return fmt.Errorf("некорректный формат URL")
		}

		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("ссылка должна начинаться с http:// или https://")
		}

		if parsedURL.Host == "" {
			return fmt.Errorf("ссылка должна содержать доменное имя")
		}
	}
	return nil
}
