package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"wiki-echo/internal/domain"
)

type registryFile struct {
	Categories    map[string]*domain.Category         `mapstructure:"categories"`
	Notifications map[string]*domain.NotificationType `mapstructure:"notifications"`
}

// LoadRegistry reads the notification type/category table from a YAML file.
func LoadRegistry(path string) (*domain.Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("registry file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var file registryFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registry: %w", err)
	}

	for name, t := range file.Notifications {
		if t.Category == "" {
			return nil, fmt.Errorf("notification type %q has no category", name)
		}
	}

	return domain.NewRegistry(file.Categories, file.Notifications), nil
}
