package auth

import (
	"context"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Users []struct {
		Name string `yaml:"name"`
		Role Role   `yaml:"role"`
	} `yaml:"users"`
}

// SeedFromFile pre-provisions accounts (typically the firefighter roster)
// from a YAML file. Names that already exist are left untouched.
func SeedFromFile(ctx context.Context, users UserStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return err
	}
	for _, u := range sf.Users {
		if u.Name == "" || !u.Role.Valid() {
			continue
		}
		if _, err := users.GetByName(ctx, u.Name); err == nil {
			continue
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		if _, err := users.Create(ctx, u.Name, u.Role); err != nil {
			return err
		}
	}
	return nil
}
