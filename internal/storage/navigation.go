package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

// LoadNavigation reads the menu tree. An unreadable or malformed file
// collapses to an empty menu rather than failing the bot.
func LoadNavigation(path string) (*entities.Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read navigation: %w", err)
	}

	var sections []entities.MenuSection
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("decode navigation: %w", err)
	}

	for i, sec := range sections {
		if sec.Title == "" {
			return nil, fmt.Errorf("section %d: missing title", i+1)
		}
		for j, item := range sec.Items {
			if item.Title == "" || item.Content == "" {
				return nil, fmt.Errorf("section %q item %d: missing title or content", sec.Title, j+1)
			}
		}
	}

	return &entities.Menu{Sections: sections}, nil
}
